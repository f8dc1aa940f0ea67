// Package app assembles the trolley server from its adapters and runs
// the whole lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sr"

	"github.com/trolleyhk/trolley/config"
	"github.com/trolleyhk/trolley/internal/adapter"
	"github.com/trolleyhk/trolley/internal/adapter/httphandler"
	"github.com/trolleyhk/trolley/internal/adapter/kafka"
	"github.com/trolleyhk/trolley/internal/adapter/storage"
	"github.com/trolleyhk/trolley/internal/core/port"
	"github.com/trolleyhk/trolley/internal/core/service"
	"github.com/trolleyhk/trolley/pkg/schema"
)

type serdes struct {
	product   schema.Serde
	priceDrop schema.Serde
}

type repositories struct {
	db       storage.SQLDB
	products storage.ProductsRepository
	drops    storage.PriceDropsRepository
}

type consumers struct {
	products kafka.ProductsSaverConsumer
	drops    kafka.PriceDropsConsumer
}

type coreService struct {
	productsFeeder port.ProductsFeeder
	productsSaver  port.ProductsSaver
	dropsSaver     port.PriceDropsSaver
	catalogReader  port.CatalogReader
	priceViewer    port.PriceViewer
	service        service.Service
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	brokerOpts []kgo.Opt
	serdes     serdes
	repos      repositories
	producer   kafka.ScrapedProductsProducer
	priceWatch *kafka.PriceWatchProcessor
	priceView  *kafka.LastPriceView
	consumers  consumers
	service    coreService
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initBrokerOpts()
	app.initSerdes()
	app.initStorage()
	app.initOutboundAdapters()
	app.initCoreService()
	app.initConsumers()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initBrokerOpts() {
	const op = "App.initBrokerOpts"

	tlsCfg := app.cfg.Broker.TLS
	if !tlsCfg.Enabled() {
		return
	}

	cfg, err := adapter.MakeTLSConfig(tlsCfg.CA, tlsCfg.Cert, tlsCfg.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	app.brokerOpts = append(app.brokerOpts, kgo.DialTLSConfig(cfg))
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	urls := app.cfg.Broker.SchemaRegistryURLs
	ctx := app.ctx

	srClient, err := sr.NewClient(sr.URLs(urls...))
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	productSS := app.cfg.Broker.Topics.ScrapedProducts + "-value"
	productSerde, err := schema.NewSerdeGroceryProductV1(
		ctx,
		schema.SubjectOpt(productSS),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	dropSS := app.cfg.Broker.Topics.PriceDrops + "-value"
	dropSerde, err := schema.NewSerdePriceDropV1(
		ctx,
		schema.SubjectOpt(dropSS),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.product = productSerde
	app.serdes.priceDrop = dropSerde
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	db, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}

	app.repos.db = db
	app.repos.products = storage.NewProductsRepository(db)
	app.repos.drops = storage.NewPriceDropsRepository(db)
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	ctx := app.ctx
	brokerCfg := app.cfg.Broker

	producer, err := kafka.NewScrapedProductsProducer(
		kafka.ProducerClientOpt(
			ctx,
			brokerCfg.SeedBrokers,
			brokerCfg.Topics.ScrapedProducts,
			app.brokerOpts...,
		),
		kafka.ProducerEncoderOpt(app.serdes.product),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	priceWatch, err := kafka.NewPriceWatchProc(
		brokerCfg.SeedBrokers,
		brokerCfg.Topics.ScrapedProducts,
		brokerCfg.Topics.PriceDrops,
		brokerCfg.PriceWatch.Group,
		brokerCfg.PriceWatch.MinDropPercent,
		app.serdes.product,
		app.serdes.priceDrop,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	priceView, err := kafka.NewLastPriceView(
		brokerCfg.SeedBrokers, brokerCfg.PriceWatch.Group,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.producer = producer
	app.priceWatch = priceWatch
	app.priceView = priceView
}

func (app *App) initCoreService() {
	s := service.New(
		app.producer,
		app.repos.products,
		app.repos.drops,
		app.repos.products,
		app.priceWatch,
		app.priceView,
	)
	app.service.productsFeeder = s
	app.service.productsSaver = s
	app.service.dropsSaver = s
	app.service.catalogReader = s
	app.service.priceViewer = s
	app.service.service = s
}

func (app *App) initConsumers() {
	const op = "App.initConsumers"

	brokerCfg := app.cfg.Broker

	productsConsumer, err := kafka.NewProductsSaverConsumer(
		kafka.ConsumerClientOpt(
			brokerCfg.SeedBrokers,
			brokerCfg.Topics.ScrapedProducts,
			brokerCfg.Consumers.ProductSaverGroup,
			app.brokerOpts...,
		),
		kafka.ConsumerDecoderOpt(app.serdes.product),
		kafka.ProductsSaverOpt(app.service.productsSaver),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	dropsConsumer, err := kafka.NewPriceDropsConsumer(
		kafka.ConsumerClientOpt(
			brokerCfg.SeedBrokers,
			brokerCfg.Topics.PriceDrops,
			brokerCfg.Consumers.DropSaverGroup,
			app.brokerOpts...,
		),
		kafka.ConsumerDecoderOpt(app.serdes.priceDrop),
		kafka.PriceDropsSaverOpt(app.service.dropsSaver),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.consumers.products = productsConsumer
	app.consumers.drops = dropsConsumer
}

func (app *App) initInboundAdapters() {
	addr := app.cfg.HTTPServerAddr
	mux := http.NewServeMux()
	httphandler.RegisterProducts(mux, app.service.productsFeeder)
	httphandler.RegisterCatalog(
		mux, app.service.catalogReader, app.service.priceViewer,
	)

	var handler http.Handler = mux
	handler = httphandler.AllowJSON(handler)
	handler = httphandler.CORS(app.cfg.CORSAllowedOrigins)(handler)
	handler = httphandler.RequestLog(handler)

	app.httpServer = httphandler.NewHTTPServer(addr, handler)
}

// Run starts the broker components and the http server.
//
// Blocks current goroutine while components is preparing to ready state.
func (app *App) Run(stopFn context.CancelFunc) {
	app.service.service.Run(app.ctx, stopFn)

	go app.priceView.Run(app.ctx)
	go app.consumers.products.Run(app.ctx)
	go app.consumers.drops.Run(app.ctx)
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.consumers.products.Close()
	app.consumers.drops.Close()
	app.service.service.Close()
	app.producer.Close()
	app.repos.db.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
