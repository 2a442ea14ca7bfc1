package syncer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jinxingedu/kindersync/internal/domain"
	"github.com/jinxingedu/kindersync/internal/infrastructure/logging"
)

type fakeLocal struct {
	mu   sync.Mutex
	data map[domain.StorageKey][]domain.Record

	replaced map[domain.StorageKey][]domain.Record
	synced   int
}

func newFakeLocal() *fakeLocal {
	return &fakeLocal{
		data:     make(map[domain.StorageKey][]domain.Record),
		replaced: make(map[domain.StorageKey][]domain.Record),
	}
}

func (f *fakeLocal) Get(key domain.StorageKey) []domain.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key]
}

func (f *fakeLocal) Replace(key domain.StorageKey, records []domain.Record) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = records
	f.replaced[key] = records
	return true
}

func (f *fakeLocal) MarkSynced() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synced++
}

type fakeMirror struct {
	mu         sync.Mutex
	configured bool
	cloud      map[domain.StorageKey][]domain.Record
	uploads    map[domain.StorageKey]int
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{
		configured: true,
		cloud:      make(map[domain.StorageKey][]domain.Record),
		uploads:    make(map[domain.StorageKey]int),
	}
}

func (f *fakeMirror) Configured() bool { return f.configured }

func (f *fakeMirror) Upload(ctx context.Context, key domain.StorageKey, records []domain.Record) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cloud[key] = records
	f.uploads[key]++
	return true
}

func (f *fakeMirror) Download(ctx context.Context, key domain.StorageKey) []domain.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cloud[key]
}

func (f *fakeMirror) uploadCount(key domain.StorageKey) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads[key]
}

func waitForUploads(t *testing.T, mirror *fakeMirror, key domain.StorageKey, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if mirror.uploadCount(key) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("key %s: got %d uploads, want %d", key, mirror.uploadCount(key), want)
}

func TestCoordinator_DebouncedPush(t *testing.T) {
	local := newFakeLocal()
	local.data[domain.KeyStudents] = []domain.Record{{"id": "s1"}}
	mirror := newFakeMirror()
	c := New(local, mirror, logging.NewNop(), 10*time.Millisecond, nil)
	defer c.Close()

	c.Schedule(domain.KeyStudents)
	waitForUploads(t, mirror, domain.KeyStudents, 1)

	if got := mirror.cloud[domain.KeyStudents]; len(got) != 1 {
		t.Errorf("uploaded %v, want the local array", got)
	}
}

func TestCoordinator_CoalescesBursts(t *testing.T) {
	local := newFakeLocal()
	local.data[domain.KeyStudents] = []domain.Record{{"id": "s1"}}
	mirror := newFakeMirror()
	c := New(local, mirror, logging.NewNop(), 50*time.Millisecond, nil)
	defer c.Close()

	for i := 0; i < 10; i++ {
		c.Schedule(domain.KeyStudents)
	}
	waitForUploads(t, mirror, domain.KeyStudents, 1)

	// Give a late second fire a chance to betray itself.
	time.Sleep(100 * time.Millisecond)
	if got := mirror.uploadCount(domain.KeyStudents); got != 1 {
		t.Errorf("burst produced %d uploads, want 1", got)
	}
}

func TestCoordinator_PerKeyTimers(t *testing.T) {
	local := newFakeLocal()
	local.data[domain.KeyStudents] = []domain.Record{{"id": "s1"}}
	local.data[domain.KeyStaff] = []domain.Record{{"id": "t1"}}
	mirror := newFakeMirror()
	c := New(local, mirror, logging.NewNop(), 10*time.Millisecond, nil)
	defer c.Close()

	c.Schedule(domain.KeyStudents)
	c.Schedule(domain.KeyStaff)

	waitForUploads(t, mirror, domain.KeyStudents, 1)
	waitForUploads(t, mirror, domain.KeyStaff, 1)
}

func TestCoordinator_SkipsUnregisteredKey(t *testing.T) {
	local := newFakeLocal()
	mirror := newFakeMirror()
	c := New(local, mirror, logging.NewNop(), 5*time.Millisecond, nil)
	defer c.Close()

	c.Schedule(domain.StorageKey("kt_scratch_pad"))
	time.Sleep(30 * time.Millisecond)

	if got := mirror.uploadCount("kt_scratch_pad"); got != 0 {
		t.Errorf("unregistered key must never sync, got %d uploads", got)
	}
}

func TestCoordinator_SkipsEmptyArray(t *testing.T) {
	local := newFakeLocal()
	mirror := newFakeMirror()
	c := New(local, mirror, logging.NewNop(), 5*time.Millisecond, nil)
	defer c.Close()

	c.Schedule(domain.KeyStudents)
	time.Sleep(30 * time.Millisecond)

	if got := mirror.uploadCount(domain.KeyStudents); got != 0 {
		t.Errorf("empty local array must not be pushed, got %d uploads", got)
	}
}

func TestCoordinator_ProtectedMinimum(t *testing.T) {
	local := newFakeLocal()
	local.data[domain.KeyStudents] = []domain.Record{{"id": "s1"}, {"id": "s2"}}
	mirror := newFakeMirror()
	protected := map[domain.StorageKey]int{domain.KeyStudents: 10}
	c := New(local, mirror, logging.NewNop(), 5*time.Millisecond, protected)
	defer c.Close()

	c.Schedule(domain.KeyStudents)
	time.Sleep(30 * time.Millisecond)

	if got := mirror.uploadCount(domain.KeyStudents); got != 0 {
		t.Errorf("below-minimum array must not overwrite the cloud, got %d uploads", got)
	}
}

func TestCoordinator_UnconfiguredMirror(t *testing.T) {
	local := newFakeLocal()
	local.data[domain.KeyStudents] = []domain.Record{{"id": "s1"}}
	mirror := newFakeMirror()
	mirror.configured = false
	c := New(local, mirror, logging.NewNop(), 5*time.Millisecond, nil)
	defer c.Close()

	c.Schedule(domain.KeyStudents)
	time.Sleep(30 * time.Millisecond)

	if got := mirror.uploadCount(domain.KeyStudents); got != 0 {
		t.Errorf("offline mode must never upload, got %d", got)
	}
}

func TestCoordinator_FlushFiresImmediately(t *testing.T) {
	local := newFakeLocal()
	local.data[domain.KeyStudents] = []domain.Record{{"id": "s1"}}
	mirror := newFakeMirror()
	c := New(local, mirror, logging.NewNop(), time.Hour, nil)
	defer c.Close()

	c.Schedule(domain.KeyStudents)
	c.Flush(context.Background())

	if got := mirror.uploadCount(domain.KeyStudents); got != 1 {
		t.Errorf("Flush must fire the armed timer now, got %d uploads", got)
	}
}

func TestCoordinator_CloseDropsTimers(t *testing.T) {
	local := newFakeLocal()
	local.data[domain.KeyStudents] = []domain.Record{{"id": "s1"}}
	mirror := newFakeMirror()
	c := New(local, mirror, logging.NewNop(), 20*time.Millisecond, nil)

	c.Schedule(domain.KeyStudents)
	c.Close()
	time.Sleep(60 * time.Millisecond)

	if got := mirror.uploadCount(domain.KeyStudents); got != 0 {
		t.Errorf("Close must drop armed timers, got %d uploads", got)
	}

	c.Schedule(domain.KeyStudents)
	time.Sleep(60 * time.Millisecond)
	if got := mirror.uploadCount(domain.KeyStudents); got != 0 {
		t.Errorf("Schedule after Close must be ignored, got %d uploads", got)
	}
}
