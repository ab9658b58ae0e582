package integration_tests

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rubiojr/qboard/pkg/board"
	"github.com/rubiojr/qboard/pkg/core"
	"github.com/rubiojr/qboard/pkg/storage"
)

// openBoard opens a board on dbPath, closing it when the test ends.
func openBoard(t *testing.T, dbPath string, opts storage.Options) *board.Service {
	t.Helper()
	st, err := storage.Open(context.Background(), dbPath, opts)
	if err != nil {
		t.Fatalf("Failed to open store %s: %v", dbPath, err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})
	return board.New(st, nil, nil)
}

func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "qboard.db")
}

func mustRegister(t *testing.T, svc *board.Service, name string) core.User {
	t.Helper()
	u, err := svc.RegisterUser(context.Background(), name, name+"@example.com")
	if err != nil {
		t.Fatalf("Failed to register %s: %v", name, err)
	}
	return u
}

func mustAsk(t *testing.T, svc *board.Service, author core.User, subject, body string) core.Question {
	t.Helper()
	q, err := svc.Ask(context.Background(), author, subject, body)
	if err != nil {
		t.Fatalf("Failed to ask %q: %v", subject, err)
	}
	return q
}
