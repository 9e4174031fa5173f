package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kleium/casters-tool/internal/domain/snapshot"
)

type memorySnapshotRepo struct {
	mu    sync.Mutex
	snaps map[string]snapshot.Snapshot
	err   error
}

func newMemorySnapshotRepo() *memorySnapshotRepo {
	return &memorySnapshotRepo{snaps: map[string]snapshot.Snapshot{}}
}

func (r *memorySnapshotRepo) Save(_ context.Context, snap snapshot.Snapshot) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps[snap.EventKey] = snap
	return nil
}

func (r *memorySnapshotRepo) Load(_ context.Context, eventKey string) (snapshot.Snapshot, bool, error) {
	if r.err != nil {
		return snapshot.Snapshot{}, false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.snaps[eventKey]
	return snap, ok, nil
}

func (r *memorySnapshotRepo) Delete(_ context.Context, eventKey string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.snaps[eventKey]
	delete(r.snaps, eventKey)
	return ok, nil
}

func (r *memorySnapshotRepo) List(_ context.Context) ([]snapshot.Meta, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []snapshot.Meta
	for _, snap := range r.snaps {
		out = append(out, snapshot.Meta{
			EventKey: snap.EventKey,
			Name:     snap.Name,
			Year:     snap.Year,
			SavedAt:  snap.SavedAt,
		})
	}
	return out, nil
}

func TestSnapshotService_Save_ReadsInfoBlock(t *testing.T) {
	t.Parallel()

	repo := newMemorySnapshotRepo()
	svc := NewSnapshotService(repo)
	savedAt := time.Date(2025, 3, 22, 18, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return savedAt }

	payload := []byte(`{"info":{"name":"Silicon Valley Regional","year":2025},"teams":[]}`)
	meta, err := svc.Save(context.Background(), testEventKey, payload)
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if meta.Name != "Silicon Valley Regional" || meta.Year != 2025 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if !meta.SavedAt.Equal(savedAt) {
		t.Fatalf("unexpected timestamp: %v", meta.SavedAt)
	}

	stored := repo.snaps[testEventKey]
	if string(stored.Data) != string(payload) {
		t.Fatalf("payload not stored verbatim: %s", stored.Data)
	}
}

func TestSnapshotService_Save_YearFallsBackToKey(t *testing.T) {
	t.Parallel()

	repo := newMemorySnapshotRepo()
	svc := NewSnapshotService(repo)

	meta, err := svc.Save(context.Background(), testEventKey, []byte(`{"teams":[]}`))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if meta.Year != 2025 || meta.Name != "" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestSnapshotService_Save_Validation(t *testing.T) {
	t.Parallel()

	svc := NewSnapshotService(newMemorySnapshotRepo())

	if _, err := svc.Save(context.Background(), "nope", []byte(`{}`)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad key, got %v", err)
	}
	if _, err := svc.Save(context.Background(), testEventKey, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty payload, got %v", err)
	}
}

func TestSnapshotService_LoadDelete(t *testing.T) {
	t.Parallel()

	repo := newMemorySnapshotRepo()
	svc := NewSnapshotService(repo)
	if _, err := svc.Save(context.Background(), testEventKey, []byte(`{"info":{"name":"SVR"}}`)); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	snap, err := svc.Load(context.Background(), testEventKey)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if snap.Name != "SVR" || snap.EventKey != testEventKey {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	if err := svc.Delete(context.Background(), testEventKey); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := svc.Load(context.Background(), testEventKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), testEventKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSnapshotService_List_NeverNil(t *testing.T) {
	t.Parallel()

	svc := NewSnapshotService(newMemorySnapshotRepo())
	metas, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if metas == nil || len(metas) != 0 {
		t.Fatalf("expected empty non-nil listing, got %#v", metas)
	}
}

func TestSnapshotService_PropagatesRepoErrors(t *testing.T) {
	t.Parallel()

	repo := newMemorySnapshotRepo()
	repo.err = errors.New("disk gone")
	svc := NewSnapshotService(repo)

	if _, err := svc.Save(context.Background(), testEventKey, []byte(`{}`)); err == nil || errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
	if _, err := svc.List(context.Background()); err == nil {
		t.Fatal("expected repo error from List")
	}
}
