package remote

import (
	"context"

	"github.com/dalemusser/adminpanel/internal/app/system/collection"
)

// Client is the remote collaborator that owns one collection. Local stores
// mirror it; ids are assigned locally and accepted by the remote as-is.
type Client[F any] interface {
	List(ctx context.Context) ([]collection.Record[F], error)
	Create(ctx context.Context, rec collection.Record[F]) error
	Update(ctx context.Context, rec collection.Record[F]) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
