// Package store persists scraped candidate products.
package store

import (
	"context"

	"github.com/sells-group/discovery-funnel/internal/model"
)

// Store defines the persistence interface for candidate products.
type Store interface {
	// ListProducts returns all products, newest-scraped first.
	ListProducts(ctx context.Context) ([]model.CandidateProduct, error)
	// ListProductsByCategory returns products in a category, newest-scraped first.
	ListProductsByCategory(ctx context.Context, category string) ([]model.CandidateProduct, error)
	// GetProduct returns a single product, or nil when absent.
	GetProduct(ctx context.Context, id int64) (*model.CandidateProduct, error)
	// InsertProducts bulk-loads scraped products and reports the inserted count.
	InsertProducts(ctx context.Context, products []model.CandidateProduct) (int64, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}
