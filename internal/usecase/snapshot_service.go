package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/kleium/casters-tool/internal/domain/event"
	"github.com/kleium/casters-tool/internal/domain/snapshot"
)

// SnapshotService freezes a fully assembled event payload to local storage
// so a broadcast can keep running through an upstream outage.
type SnapshotService struct {
	repo snapshot.Repository
	now  func() time.Time
}

func NewSnapshotService(repo snapshot.Repository) *SnapshotService {
	return &SnapshotService{repo: repo, now: time.Now}
}

// snapshotInfo is the slice of the saved payload used for listings.
type snapshotInfo struct {
	Info struct {
		Name string `json:"name"`
		Year int    `json:"year"`
	} `json:"info"`
}

// Save stores the payload under the event key, replacing any previous
// snapshot for the same event. Name and year are read from the payload's
// info block when present.
func (s *SnapshotService) Save(ctx context.Context, eventKey string, payload []byte) (snapshot.Meta, error) {
	ctx, span := startUsecaseSpan(ctx, "SnapshotService.Save")
	defer span.End()

	year, _, err := event.SplitKey(eventKey)
	if err != nil {
		return snapshot.Meta{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(payload) == 0 {
		return snapshot.Meta{}, fmt.Errorf("%w: snapshot payload is empty", ErrInvalidInput)
	}

	snap := snapshot.Snapshot{
		EventKey: eventKey,
		Year:     year,
		SavedAt:  s.now().UTC(),
		Data:     payload,
	}
	var info snapshotInfo
	if err := sonic.Unmarshal(payload, &info); err == nil {
		snap.Name = info.Info.Name
		if info.Info.Year != 0 {
			snap.Year = info.Info.Year
		}
	}
	if err := snap.Validate(); err != nil {
		return snapshot.Meta{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.repo.Save(ctx, snap); err != nil {
		return snapshot.Meta{}, fmt.Errorf("save snapshot: %w", err)
	}
	return snapshot.Meta{
		EventKey: snap.EventKey,
		Name:     snap.Name,
		Year:     snap.Year,
		SavedAt:  snap.SavedAt,
	}, nil
}

func (s *SnapshotService) Load(ctx context.Context, eventKey string) (snapshot.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "SnapshotService.Load")
	defer span.End()

	if _, _, err := event.SplitKey(eventKey); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	snap, found, err := s.repo.Load(ctx, eventKey)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	if !found {
		return snapshot.Snapshot{}, fmt.Errorf("%w: no snapshot for %s", ErrNotFound, eventKey)
	}
	return snap, nil
}

func (s *SnapshotService) Delete(ctx context.Context, eventKey string) error {
	ctx, span := startUsecaseSpan(ctx, "SnapshotService.Delete")
	defer span.End()

	if _, _, err := event.SplitKey(eventKey); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	found, err := s.repo.Delete(ctx, eventKey)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: no snapshot for %s", ErrNotFound, eventKey)
	}
	return nil
}

func (s *SnapshotService) List(ctx context.Context) ([]snapshot.Meta, error) {
	ctx, span := startUsecaseSpan(ctx, "SnapshotService.List")
	defer span.End()

	metas, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	if metas == nil {
		metas = []snapshot.Meta{}
	}
	return metas, nil
}
