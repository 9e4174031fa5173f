package snapshot

import "context"

// Repository describes snapshot persistence needs from use cases.
type Repository interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, eventKey string) (Snapshot, bool, error)
	Delete(ctx context.Context, eventKey string) (bool, error)
	List(ctx context.Context) ([]Meta, error)
}
