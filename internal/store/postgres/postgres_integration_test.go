package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/readraise/insights/internal/store"
	"github.com/readraise/insights/internal/store/storetest"
)

func makePGStore(t *testing.T) store.Store {
	t.Helper()
	dsn := os.Getenv("INSIGHTS_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("INSIGHTS_POSTGRES_DSN not set; skipping postgres store integration test")
	}
	db, err := Bootstrap(context.Background(), dsn)
	if err != nil {
		t.Fatalf("postgres bootstrap: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db)
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makePGStore)
}
