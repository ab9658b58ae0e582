package integration_tests

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rubiojr/qboard/pkg/board"
	"github.com/rubiojr/qboard/pkg/core"
	"github.com/rubiojr/qboard/pkg/storage"
)

// Two stores on the same file behave like two qboard processes sharing a
// database: endorsements from both must land exactly once.
func TestConcurrentEndorsementsAcrossStores(t *testing.T) {
	ctx := context.Background()
	path := tempDBPath(t)
	first := openBoard(t, path, storage.Options{})
	second := openBoard(t, path, storage.Options{})

	author := mustRegister(t, first, "author")
	q := mustAsk(t, first, author, "shared question", "body")

	const voters = 12
	users := make([]core.User, voters)
	for i := range users {
		users[i] = mustRegister(t, first, fmt.Sprintf("voter%02d", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, voters*4)
	for _, u := range users {
		for _, svc := range []*board.Service{first, second, first, second} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := svc.Endorse(ctx, u, q.ID); err != nil {
					errs <- err
				}
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Endorse failed: %v", err)
	}

	got, err := second.GetQuestion(ctx, q.ID)
	if err != nil {
		t.Fatalf("Failed to load question: %v", err)
	}
	if got.VoterCount != voters || len(got.Voters) != voters {
		t.Errorf("Expected %d distinct voters, got count=%d list=%d", voters, got.VoterCount, len(got.Voters))
	}
}

func TestWritesVisibleAcrossStores(t *testing.T) {
	ctx := context.Background()
	path := tempDBPath(t)
	writer := openBoard(t, path, storage.Options{})
	reader := openBoard(t, path, storage.Options{})

	alice := mustRegister(t, writer, "alice")
	for i := range 12 {
		mustAsk(t, writer, alice, fmt.Sprintf("question %d", i), "shared")
	}

	page, err := reader.Search(ctx, "shared", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if page.TotalElements != 12 || page.TotalPages != 2 || len(page.Items) != 2 {
		t.Errorf("Unexpected page from second store: total=%d pages=%d items=%d",
			page.TotalElements, page.TotalPages, len(page.Items))
	}
}
