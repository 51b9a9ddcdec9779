package db

import (
	"testing"
	"testing/fstest"
)

func TestPendingMigrationsOrderAndFilter(t *testing.T) {
	fsys := fstest.MapFS{
		"002_trades.up.sql":      {Data: []byte("select 1")},
		"001_init.up.sql":        {Data: []byte("select 1")},
		"001_init.down.sql":      {Data: []byte("select 1")},
		"README.md":              {Data: []byte("x")},
		"nested/003_skip.up.sql": {Data: []byte("select 1")},
	}

	files, err := PendingMigrations(fsys)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"001_init.up.sql", "002_trades.up.sql"}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files = %v, want %v", files, want)
		}
	}
}
