package out

import (
	"context"

	"nebibs/internal/modules/volunteer/domain"
	"nebibs/internal/platform/optimistic"
)

type NewEntry struct {
	Date        string
	Description string
	Hours       float64
	Reflection  string
}

type EntryRemote interface {
	List(ctx context.Context) ([]domain.Entry, error)
	Create(ctx context.Context, entry NewEntry) (domain.Entry, error)
	Update(ctx context.Context, id string, patch domain.Patch) (domain.Entry, error)
	Delete(ctx context.Context, id string) error
}

type EntrySnapshots interface {
	Load(ctx context.Context) (optimistic.Snapshot[domain.Entry], bool)
	Save(ctx context.Context, snap optimistic.Snapshot[domain.Entry]) error
}
