package board

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/qboard/pkg/core"
	"github.com/rubiojr/qboard/pkg/realtime"
	"github.com/rubiojr/qboard/pkg/storage"
)

func newTestService(t *testing.T) (*Service, *Metrics) {
	t.Helper()
	st, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "board.db"), storage.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	m := NewMetrics(prometheus.NewRegistry())
	return New(st, realtime.NewHub(16), m), m
}

func nextEvent(t *testing.T, ch <-chan realtime.Event) realtime.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	default:
		t.Fatal("no event published")
		return realtime.Event{}
	}
}

func TestAskAnswerEndorse(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(t)
	id, events := svc.Hub().Register()
	defer svc.Hub().Unregister(id)

	alice, err := svc.RegisterUser(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	bob, err := svc.RegisterUser(ctx, "bob", "bob@example.com")
	require.NoError(t, err)

	q, err := svc.Ask(ctx, alice, "Spring vs Go", "which one?")
	require.NoError(t, err)
	e := nextEvent(t, events)
	assert.Equal(t, realtime.QuestionCreated, e.Type)
	assert.Equal(t, q.ID, e.QuestionID)
	assert.Equal(t, "alice", e.Username)
	assert.Equal(t, "Spring vs Go", e.Subject)

	a, err := svc.Answer(ctx, bob, q.ID, "Go")
	require.NoError(t, err)
	e = nextEvent(t, events)
	assert.Equal(t, realtime.AnswerCreated, e.Type)
	assert.Equal(t, a.ID, e.AnswerID)

	require.NoError(t, svc.Endorse(ctx, bob, q.ID))
	require.NoError(t, svc.Endorse(ctx, bob, q.ID))
	e = nextEvent(t, events)
	assert.Equal(t, realtime.QuestionVoted, e.Type)
	assert.Equal(t, 0, len(events), "duplicate endorsement must not publish")

	require.NoError(t, svc.EndorseAnswer(ctx, alice, a.ID))
	e = nextEvent(t, events)
	assert.Equal(t, realtime.AnswerVoted, e.Type)
	assert.Equal(t, q.ID, e.QuestionID)

	got, err := svc.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.VoterCount)
	require.Len(t, got.Answers, 1)
	assert.Equal(t, 1, got.Answers[0].VoterCount)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Endorsements.WithLabelValues("question", "added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Endorsements.WithLabelValues("question", "duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Endorsements.WithLabelValues("answer", "added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues(realtime.QuestionCreated)))
}

func TestSearchCountsAndPages(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(t)
	alice, err := svc.RegisterUser(ctx, "alice", "")
	require.NoError(t, err)
	_, err = svc.Ask(ctx, alice, "go modules", "vendoring?")
	require.NoError(t, err)

	page, err := svc.Search(ctx, "vendor", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalElements)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches))

	_, err = svc.Search(ctx, "", -1)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestQuestionsByAuthorUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.QuestionsByAuthor(context.Background(), "ghost", 0)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestModifyAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id, events := svc.Hub().Register()
	defer svc.Hub().Unregister(id)

	alice, err := svc.RegisterUser(ctx, "alice", "")
	require.NoError(t, err)
	q, err := svc.Ask(ctx, alice, "draft", "body")
	require.NoError(t, err)
	a, err := svc.Answer(ctx, alice, q.ID, "self answer")
	require.NoError(t, err)
	nextEvent(t, events)
	nextEvent(t, events)

	q, err = svc.ModifyQuestion(ctx, alice, q.ID, "final", "body v2")
	require.NoError(t, err)
	assert.Equal(t, "final", q.Subject)
	assert.NotNil(t, q.ModifyDate)
	assert.Equal(t, realtime.QuestionModified, nextEvent(t, events).Type)

	a, err = svc.ModifyAnswer(ctx, alice, a.ID, "better answer")
	require.NoError(t, err)
	assert.Equal(t, "better answer", a.Body)
	assert.Equal(t, realtime.AnswerModified, nextEvent(t, events).Type)

	require.NoError(t, svc.DeleteAnswer(ctx, alice, a.ID))
	e := nextEvent(t, events)
	assert.Equal(t, realtime.AnswerDeleted, e.Type)
	assert.Equal(t, q.ID, e.QuestionID)

	require.NoError(t, svc.DeleteQuestion(ctx, alice, q.ID))
	assert.Equal(t, realtime.QuestionDeleted, nextEvent(t, events).Type)

	err = svc.DeleteQuestion(ctx, alice, q.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, 0, len(events))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Stats{Users: 1}, stats)
}

func TestNewDefaults(t *testing.T) {
	st, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "board.db"), storage.Options{})
	require.NoError(t, err)
	defer st.Close()

	svc := New(st, nil, nil)
	assert.NotNil(t, svc.Hub())
	assert.Same(t, st, svc.Store())
}
