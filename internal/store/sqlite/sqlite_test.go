package sqlite

import (
	"context"
	"testing"

	"github.com/readraise/insights/internal/store"
	"github.com/readraise/insights/internal/store/storetest"
)

func makeLiteStore(t *testing.T) store.Store {
	t.Helper()
	db, err := Bootstrap(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("sqlite bootstrap: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db)
}

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeLiteStore)
}
