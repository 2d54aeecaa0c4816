package store

import (
	"database/sql"
	"reflect"
	"strings"
	"testing"
)

func TestRequestTypeStrings(t *testing.T) {
	got := requestTypeStrings([]RequestType{RequestSummarize, RequestCustom})
	if !reflect.DeepEqual(got, []string{"summarize", "custom"}) {
		t.Errorf("got %v", got)
	}
	if got := requestTypeStrings(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice for pq.Array, got %#v", got)
	}
}

func TestSettingsHasAPIKey(t *testing.T) {
	if (Settings{}).HasAPIKey() {
		t.Error("expected no key")
	}
	if !(Settings{APIKey: "sk"}).HasAPIKey() {
		t.Error("expected key")
	}
}

func TestNewPostgresStoreClosesPoolOnFailedMigration(t *testing.T) {
	// Nothing listens on port 1, so the migration lock query fails.
	db, err := sql.Open("pgx", "postgres://user@127.0.0.1:1/assistant?connect_timeout=1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := newPostgresStore(db); err == nil {
		t.Fatal("expected migration error")
	}

	err = db.Ping()
	if err == nil || !strings.Contains(err.Error(), "database is closed") {
		t.Errorf("expected closed pool, got %v", err)
	}
}
