// Package storetest opens throwaway sqlite-backed stores for tests.
package storetest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/imrishuroy/trynex-storefront/internal/config"
	"github.com/imrishuroy/trynex-storefront/internal/fallback"
	"github.com/imrishuroy/trynex-storefront/internal/store"
)

// New returns a migrated, empty in-memory store private to t.
func New(t testing.TB) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		URL:          fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		QueryTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

// Seeded is New plus the fallback snapshot loaded as table rows.
func Seeded(t testing.TB) *store.Store {
	t.Helper()
	st := New(t)
	err := st.Seed(context.Background(), fallback.Categories(), fallback.Products(), fallback.Promos(time.Now()))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return st
}
