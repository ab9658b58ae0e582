package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/qboard/pkg/core"
	"github.com/rubiojr/qboard/pkg/query"
)

func ids(qs []core.Question) []int64 {
	out := make([]int64, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestSearchScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	q := mustQuestion(t, s, "Spring vs Go", "which is better", alice)
	mustAnswer(t, s, q, "Go is simpler", bob)
	mustQuestion(t, s, "Unrelated", "nothing to see", alice)

	page, err := s.Search(ctx, "bob", 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{q.ID}, ids(page.Items))
	assert.Equal(t, 1, page.TotalElements)

	page, err = s.Search(ctx, "go", 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{q.ID}, ids(page.Items))
	assert.Equal(t, "alice", page.Items[0].Author.Username)
	assert.Equal(t, 1, page.Items[0].AnswerCount)
}

func TestSearchDeduplicatesAnswerFanOut(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	q := mustQuestion(t, s, "needle in subject", "needle in body", alice)
	for i := range 4 {
		mustAnswer(t, s, q, fmt.Sprintf("needle answer %d", i), bob)
	}

	page, err := s.Search(ctx, "needle", 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{q.ID}, ids(page.Items))
	assert.Equal(t, 1, page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
}

func TestSearchMatchesEveryField(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	asker := mustUser(t, s, "asker")
	helper := mustUser(t, s, "zed_helper")
	quiz := mustUser(t, s, "quizmaster")

	bySubject := mustQuestion(t, s, "kiwi subject", "plain", asker)
	byBody := mustQuestion(t, s, "plain", "kiwi body", asker)
	byAuthor := mustQuestion(t, s, "plain", "plain", quiz)
	byAnswer := mustQuestion(t, s, "plain", "plain", asker)
	mustAnswer(t, s, byAnswer, "kiwi answer", asker)
	byAnswerAuthor := mustQuestion(t, s, "plain", "plain", asker)
	mustAnswer(t, s, byAnswerAuthor, "plain", helper)
	mustQuestion(t, s, "plain", "plain", asker)

	tests := []struct {
		keyword string
		want    []int64
	}{
		{"kiwi", []int64{byAnswer.ID, byBody.ID, bySubject.ID}},
		{"quizmaster", []int64{byAuthor.ID}},
		{"zed_helper", []int64{byAnswerAuthor.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			page, err := s.Search(ctx, tt.keyword, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(page.Items))
		})
	}
}

func TestSearchCaseFollowsSQLiteLike(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")
	q := mustQuestion(t, s, "Golang generics", "body", alice)

	page, err := s.Search(ctx, "GOLANG", 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{q.ID}, ids(page.Items))
}

func TestSearchPagination(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")

	const count = 23
	for i := range count {
		mustQuestion(t, s, fmt.Sprintf("question %02d", i), "body", alice)
	}

	first, err := s.Search(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, count, first.TotalElements)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, core.PageSize, first.Size)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, "question 22", first.Items[0].Subject)

	last, err := s.Search(ctx, "", first.TotalPages-1)
	require.NoError(t, err)
	assert.Len(t, last.Items, count%core.PageSize)
	assert.Equal(t, "question 00", last.Items[len(last.Items)-1].Subject)

	beyond, err := s.Search(ctx, "", 7)
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.NotNil(t, beyond.Items)
	assert.Equal(t, count, beyond.TotalElements)
	assert.Equal(t, 3, beyond.TotalPages)
	assert.Equal(t, 7, beyond.Number)
}

func TestSearchLastPageFullWhenEvenlyDivisible(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")
	for i := range 20 {
		mustQuestion(t, s, fmt.Sprintf("q%d", i), "body", alice)
	}

	page, err := s.Search(ctx, "", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, core.PageSize)
}

func TestSearchSortOrderAcrossPages(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	for i := range 15 {
		q := mustQuestion(t, s, fmt.Sprintf("topic %d", i), "body", alice)
		if i%3 == 0 {
			mustAnswer(t, s, q, "topic answer", bob)
		}
	}

	var all []core.Question
	for p := 0; p < 2; p++ {
		page, err := s.Search(ctx, "topic", p)
		require.NoError(t, err)
		all = append(all, page.Items...)
	}
	require.Len(t, all, 15)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreateDate.After(all[i-1].CreateDate),
			"result %d is newer than result %d", i, i-1)
	}
}

func TestSearchNegativePage(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Search(context.Background(), "", -1)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestSearchWildcards(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")
	literal := mustQuestion(t, s, "100% done", "body", alice)
	mustQuestion(t, s, "half done", "body", alice)

	page, err := s.Search(ctx, "%", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalElements, "wildcards are interpreted by default")

	s.SetEscapeWildcards(true)
	page, err = s.Search(ctx, "%", 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{literal.ID}, ids(page.Items))
}

func TestQuestionsByAuthor(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	a1 := mustQuestion(t, s, "first", "body", alice)
	mustQuestion(t, s, "bob's", "body", bob)
	a2 := mustQuestion(t, s, "second", "body", alice)

	page, err := s.QuestionsByAuthor(ctx, alice.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{a2.ID, a1.ID}, ids(page.Items))
	assert.Equal(t, 2, page.TotalElements)
}

func TestPageQuestionsRejectsForeignPredicates(t *testing.T) {
	s := newTestStore(t)
	p := query.Predicate{Table: query.AnswerTable, Alias: query.AnswerAlias}
	_, err := s.PageQuestions(context.Background(), p, 0)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}
