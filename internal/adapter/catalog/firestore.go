package catalog

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/trolleyhk/trolley/internal/core/domain"
	"github.com/trolleyhk/trolley/internal/core/port"
)

const productsCollection = "products"

// categoryRangeSentinel closes the category prefix range. It is the
// maximal code point Firestore orders after any real category text.
const categoryRangeSentinel = "\uf8ff"

var _ port.CatalogSource = (*FirestoreCatalog)(nil)

// FirestoreCatalog reads the catalog from the products collection.
// Category search runs as a prefix-range query on the stored category
// value, so it is case-sensitive and anchored at the start.
type FirestoreCatalog struct {
	client *firestore.Client
}

func NewFirestoreCatalog(ctx context.Context, projectID, credentialsFile string) (*FirestoreCatalog, error) {
	const op = "FirestoreCatalog.New"

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &FirestoreCatalog{client}, nil
}

func (c *FirestoreCatalog) FetchAll(ctx context.Context) ([]domain.Product, error) {
	const op = "FirestoreCatalog.FetchAll"

	iter := c.client.Collection(productsCollection).Documents(ctx)
	return collect(op, iter)
}

func (c *FirestoreCatalog) SearchByCategory(ctx context.Context, term string) ([]domain.Product, error) {
	const op = "FirestoreCatalog.SearchByCategory"

	lo, hi := categoryRange(term)
	iter := c.client.Collection(productsCollection).
		Where("category", ">=", lo).
		Where("category", "<", hi).
		Documents(ctx)
	return collect(op, iter)
}

func (c *FirestoreCatalog) Close() error {
	return c.client.Close()
}

// categoryRange returns the closed-open bounds [term, term+sentinel)
// matching every category that starts with term.
func categoryRange(term string) (lo, hi string) {
	return term, term + categoryRangeSentinel
}

func collect(op string, iter *firestore.DocumentIterator) ([]domain.Product, error) {
	defer iter.Stop()

	ps := make([]domain.Product, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrTransport, err)
		}

		var pp productPayload
		if err := doc.DataTo(&pp); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrTransport, err)
		}
		p := pp.toDomain()
		if p.ProductID == "" {
			// scraped documents carry the identifier in the document
			// reference, not in a field
			p.ProductID = doc.Ref.ID
		}
		ps = append(ps, p)
	}
	return ps, nil
}
