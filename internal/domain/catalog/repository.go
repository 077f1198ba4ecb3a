package catalog

import "context"

// Repository stores the live product set shared across checkout sessions.
// Implementations hand out shared pointers: settlement mutates stock in place.
type Repository interface {
	Save(ctx context.Context, p *Product) error
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
}
