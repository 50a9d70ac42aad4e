package recipes

import "context"

// System defines the recipe persistence operations.
type System interface {
	// Create commits req under the slug of its name. On success the recipe
	// row, every ingredient row and every attachment file exist; on failure
	// none of them is visible. Errors are *PersistError values.
	Create(ctx context.Context, req *IngestionRequest) (*Recipe, error)

	// Find returns the committed recipe with its ingredients in declaration order.
	Find(ctx context.Context, slug string) (*Recipe, error)
}
