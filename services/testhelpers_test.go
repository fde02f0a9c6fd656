package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sahilchouksey/course-platform-api/database"
	"github.com/sahilchouksey/course-platform-api/utils/cache"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// fakeMediaStore records uploads and deletions in memory. FailDelete makes
// every Delete fail, which the cascade tests use to prove the database is
// never touched when external cleanup fails.
type fakeMediaStore struct {
	mu         sync.Mutex
	objects    map[string]bool
	deleted    []string
	FailDelete bool
	Durations  map[string]float64
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{
		objects:   make(map[string]bool),
		Durations: make(map[string]float64),
	}
}

func (f *fakeMediaStore) Upload(_ context.Context, folder, filename, _ string, _ io.Reader) (UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := fmt.Sprintf("%s/%s", folder, filename)
	f.objects[key] = true
	return UploadResult{
		URL:      "https://cdn.test/" + key,
		Key:      key,
		Duration: f.Durations[filename],
	}, nil
}

func (f *fakeMediaStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailDelete {
		return fmt.Errorf("storage unavailable")
	}
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeMediaStore) KeyFromURL(url string) string {
	const base = "https://cdn.test/"
	if len(url) > len(base) && url[:len(base)] == base {
		return url[len(base):]
	}
	return ""
}

var _ MediaStore = (*fakeMediaStore)(nil)

// fakeCacheStore is a map-backed cache.Store with TTL semantics
type fakeCacheStore struct {
	mu      sync.Mutex
	values  map[string]string
	expires map[string]time.Time
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{
		values:  make(map[string]string),
		expires: make(map[string]time.Time),
	}
}

func (f *fakeCacheStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	exp, hasExp := f.expires[key]
	if hasExp && time.Now().After(exp) {
		delete(f.values, key)
		delete(f.expires, key)
		return "", cache.ErrNotFound
	}
	v, ok := f.values[key]
	if !ok {
		return "", cache.ErrNotFound
	}
	return v, nil
}

func (f *fakeCacheStore) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[key] = fmt.Sprint(value)
	if expiration > 0 {
		f.expires[key] = time.Now().Add(expiration)
	}
	return nil
}

func (f *fakeCacheStore) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, key := range keys {
		delete(f.values, key)
		delete(f.expires, key)
	}
	return nil
}

func (f *fakeCacheStore) Increment(_ context.Context, key string) (int64, error) {
	return 0, nil
}

func (f *fakeCacheStore) Expire(_ context.Context, key string, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.expires[key] = time.Now().Add(expiration)
	return nil
}

var _ cache.Store = (*fakeCacheStore)(nil)
