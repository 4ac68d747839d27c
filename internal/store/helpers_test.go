package store_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pumpkinkking/whereeat/internal/repo"
	"github.com/pumpkinkking/whereeat/internal/store"
)

// mockKVRepo is a hand-written test double for repo.KVRepo.
// Each method is a function field; set only the ones your test needs.
type mockKVRepo struct {
	get    func(ctx context.Context, key string) ([]byte, error)
	put    func(ctx context.Context, key string, value []byte) error
	delete func(ctx context.Context, key string) error
}

func (m *mockKVRepo) Get(ctx context.Context, key string) ([]byte, error) {
	return m.get(ctx, key)
}
func (m *mockKVRepo) Put(ctx context.Context, key string, value []byte) error {
	return m.put(ctx, key, value)
}
func (m *mockKVRepo) Delete(ctx context.Context, key string) error {
	return m.delete(ctx, key)
}

// compile-time check: mockKVRepo must satisfy repo.KVRepo.
var _ repo.KVRepo = (*mockKVRepo)(nil)

// fakeClock returns a clock that advances by one second on every reading,
// so successive mutations always get distinct timestamps.
func fakeClock() func() time.Time {
	t := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// sequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptions() []store.Option {
	return []store.Option{
		store.WithClock(fakeClock()),
		store.WithIDGenerator(sequentialIDs("id")),
		store.WithLogger(discardLogger()),
	}
}

func date(s string) openapi_types.Date {
	t, err := time.Parse(openapi_types.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return openapi_types.Date{Time: t}
}
