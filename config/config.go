package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "TROLLEY_CONFIG_FILE"

type consumers struct {
	ProductSaverGroup string `mapstructure:"product_saver_group"`
	DropSaverGroup    string `mapstructure:"drop_saver_group"`
}

type topics struct {
	ScrapedProducts string `mapstructure:"scraped_products"`
	PriceDrops      string `mapstructure:"price_drops"`
}

type priceWatch struct {
	Group          string  `mapstructure:"group"`
	MinDropPercent float64 `mapstructure:"min_drop_percent"`
}

type brokerTLS struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

// Enabled reports whether all certificate filepaths are set.
func (t brokerTLS) Enabled() bool {
	return t.CA != "" && t.Cert != "" && t.Key != ""
}

type broker struct {
	SeedBrokers        []string   `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string   `mapstructure:"schema_registry_urls"`
	TLS                brokerTLS  `mapstructure:"tls"`
	Topics             topics     `mapstructure:"topics"`
	Consumers          consumers  `mapstructure:"consumers"`
	PriceWatch         priceWatch `mapstructure:"price_watch"`
}

type catalog struct {
	Backend                  string `mapstructure:"backend"`
	RESTBaseURL              string `mapstructure:"rest_base_url"`
	FirestoreProjectID       string `mapstructure:"firestore_project_id"`
	FirestoreCredentialsFile string `mapstructure:"firestore_credentials_file"`
	SearchMode               string `mapstructure:"search_mode"`
	LogFile                  string `mapstructure:"log_file"`
}

type Config struct {
	LogLevel           slog.Level `mapstructure:"log_level"`
	HTTPServerAddr     string     `mapstructure:"http_server_addr"`
	SQLDB              string     `mapstructure:"sql_db"`
	CORSAllowedOrigins []string   `mapstructure:"cors_allowed_origins"`
	Broker             broker     `mapstructure:"broker"`
	Catalog            catalog    `mapstructure:"catalog"`
}

func Load() Config {
	viper.SetConfigFile(getConfigFilepath())

	err := viper.ReadInConfig()
	if err != nil {
		die(err)
	}

	var cfg Config
	err = viper.UnmarshalExact(&cfg)
	if err != nil {
		die(err)
	}

	return cfg
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	SQLDB=%q
	CORSAllowedOrigins=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		ScrapedProducts=%q
		PriceDrops=%q
	Consumers:
		ProductSaverGroup=%q
		DropSaverGroup=%q
	PriceWatch:
		Group=%q
		MinDropPercent=%v

	CatalogConfig:
	Backend=%q
	RESTBaseURL=%q
	SearchMode=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.SQLDB,
		c.CORSAllowedOrigins,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.ScrapedProducts,
		c.Broker.Topics.PriceDrops,
		c.Broker.Consumers.ProductSaverGroup,
		c.Broker.Consumers.DropSaverGroup,
		c.Broker.PriceWatch.Group,
		c.Broker.PriceWatch.MinDropPercent,
		c.Catalog.Backend,
		c.Catalog.RESTBaseURL,
		c.Catalog.SearchMode,
	)
}
