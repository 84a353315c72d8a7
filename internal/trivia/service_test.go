package trivia

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubQuestionStore struct {
	questions []Question
	nextID    int64
	err       error
	searched  []string
	byCat     []int64
}

func newStubQuestionStore(qs ...Question) *stubQuestionStore {
	s := &stubQuestionStore{nextID: 1}
	for _, q := range qs {
		if q.ID >= s.nextID {
			s.nextID = q.ID + 1
		}
		s.questions = append(s.questions, q)
	}
	return s
}

func (s *stubQuestionStore) List(context.Context) ([]Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]Question(nil), s.questions...), nil
}

func (s *stubQuestionStore) ListByCategory(_ context.Context, categoryID int64) ([]Question, error) {
	s.byCat = append(s.byCat, categoryID)
	if s.err != nil {
		return nil, s.err
	}
	var out []Question
	for _, q := range s.questions {
		if q.Category == categoryID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *stubQuestionStore) Search(_ context.Context, term string) ([]Question, error) {
	s.searched = append(s.searched, term)
	if s.err != nil {
		return nil, s.err
	}
	var out []Question
	for _, q := range s.questions {
		if strings.Contains(strings.ToLower(q.Question), strings.ToLower(term)) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *stubQuestionStore) Get(_ context.Context, id int64) (Question, error) {
	if s.err != nil {
		return Question{}, s.err
	}
	for _, q := range s.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return Question{}, ErrQuestionNotFound
}

func (s *stubQuestionStore) Insert(_ context.Context, q Question) (Question, error) {
	if s.err != nil {
		return Question{}, s.err
	}
	q.ID = s.nextID
	s.nextID++
	s.questions = append(s.questions, q)
	return q, nil
}

func (s *stubQuestionStore) Delete(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	for i, q := range s.questions {
		if q.ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			return nil
		}
	}
	return ErrQuestionNotFound
}

type stubCategoryStore struct {
	categories []Category
	err        error
	calls      int
}

func (s *stubCategoryStore) List(context.Context) ([]Category, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]Category(nil), s.categories...), nil
}

func defaultCategories() *stubCategoryStore {
	return &stubCategoryStore{categories: []Category{{ID: 2, Type: "Art"}, {ID: 1, Type: "Science"}}}
}

func numberedQuestions(n int, category int64) []Question {
	out := make([]Question, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Question{
			ID:         int64(i),
			Question:   fmt.Sprintf("Question %d", i),
			Answer:     fmt.Sprintf("Answer %d", i),
			Category:   category,
			Difficulty: 1 + i%5,
		})
	}
	return out
}

func newTestService(qs QuestionRepository, cs CategoryRepository, opts ServiceOptions) *Service {
	return NewService(qs, cs, opts, zerolog.Nop())
}

func ptr[T any](v T) *T { return &v }

func flex(v int64) *FlexInt {
	f := FlexInt(v)
	return &f
}

func TestCategoriesReturnsMapping(t *testing.T) {
	svc := newTestService(newStubQuestionStore(), defaultCategories(), ServiceOptions{})

	got, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{1: "Science", 2: "Art"}, got)

	again, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestCategoriesEmptyIsNotFound(t *testing.T) {
	svc := newTestService(newStubQuestionStore(), &stubCategoryStore{}, ServiceOptions{})

	_, err := svc.Categories(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.ErrorIs(t, err, ErrNoCategories)
}

func TestCategoriesEmptyAllowed(t *testing.T) {
	svc := newTestService(newStubQuestionStore(), &stubCategoryStore{}, ServiceOptions{AllowEmptyResults: true})

	got, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCategoriesRepositoryFailure(t *testing.T) {
	svc := newTestService(newStubQuestionStore(), &stubCategoryStore{err: errors.New("db down")}, ServiceOptions{})

	_, err := svc.Categories(context.Background())
	assert.Equal(t, KindUnprocessable, KindOf(err))
}

func TestListQuestionsSecondPage(t *testing.T) {
	svc := newTestService(newStubQuestionStore(numberedQuestions(12, 1)...), defaultCategories(), ServiceOptions{})

	page, err := svc.ListQuestions(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, page.Questions, 2)
	assert.Equal(t, 12, page.TotalQuestions)
	assert.Equal(t, int64(11), page.Questions[0].ID)
	assert.Equal(t, map[int64]string{1: "Science", 2: "Art"}, page.Categories)
	assert.Nil(t, page.CurrentCategory)
}

func TestListQuestionsPastLastPage(t *testing.T) {
	svc := newTestService(newStubQuestionStore(numberedQuestions(12, 1)...), defaultCategories(), ServiceOptions{})

	page, err := svc.ListQuestions(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, page.Questions)
	assert.Equal(t, 12, page.TotalQuestions)
}

func TestListQuestionsRepositoryFailure(t *testing.T) {
	store := newStubQuestionStore()
	store.err = errors.New("boom")
	svc := newTestService(store, defaultCategories(), ServiceOptions{})

	_, err := svc.ListQuestions(context.Background(), 1)
	assert.Equal(t, KindUnprocessable, KindOf(err))

	svc = newTestService(newStubQuestionStore(), &stubCategoryStore{err: errors.New("boom")}, ServiceOptions{})
	_, err = svc.ListQuestions(context.Background(), 1)
	assert.Equal(t, KindUnprocessable, KindOf(err))
}

func TestSearchIsCaseInsensitiveSubset(t *testing.T) {
	store := newStubQuestionStore(
		Question{ID: 1, Question: "What movie earned Tom Hanks his third Oscar?", Answer: "Apollo 13", Category: 5, Difficulty: 4},
		Question{ID: 2, Question: "Whose autobiography is entitled 'I Know Why the Caged Bird Sings'?", Answer: "Maya Angelou", Category: 4, Difficulty: 2},
		Question{ID: 3, Question: "What was the title of the 1990 fantasy?", Answer: "Edward Scissorhands", Category: 5, Difficulty: 3},
	)
	svc := newTestService(store, defaultCategories(), ServiceOptions{})

	upper, err := svc.Search(context.Background(), SearchRequest{SearchTerm: ptr("TITLE")})
	require.NoError(t, err)
	lower, err := svc.Search(context.Background(), SearchRequest{SearchTerm: ptr("title")})
	require.NoError(t, err)

	assert.Equal(t, upper, lower)
	assert.Equal(t, 2, upper.TotalQuestions)
	assert.Nil(t, upper.CurrentCategory)

	all, _ := store.List(context.Background())
	allFormatted := FormatQuestions(all)
	for _, q := range upper.Questions {
		assert.Contains(t, allFormatted, q)
	}
}

func TestSearchEmptyTermMatchesEverything(t *testing.T) {
	svc := newTestService(newStubQuestionStore(numberedQuestions(14, 1)...), defaultCategories(), ServiceOptions{})

	got, err := svc.Search(context.Background(), SearchRequest{SearchTerm: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, 14, got.TotalQuestions)
	assert.Len(t, got.Questions, 14, "search results are not paginated")
}

func TestSearchNoMatchesIsNotFound(t *testing.T) {
	svc := newTestService(newStubQuestionStore(numberedQuestions(3, 1)...), defaultCategories(), ServiceOptions{})

	_, err := svc.Search(context.Background(), SearchRequest{SearchTerm: ptr("wtyfhf")})
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.ErrorIs(t, err, ErrNoMatches)
}

func TestSearchNoMatchesAllowed(t *testing.T) {
	svc := newTestService(newStubQuestionStore(), defaultCategories(), ServiceOptions{AllowEmptyResults: true})

	got, err := svc.Search(context.Background(), SearchRequest{SearchTerm: ptr("wtyfhf")})
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalQuestions)
	assert.NotNil(t, got.Questions)
}

func TestSearchMissingTerm(t *testing.T) {
	store := newStubQuestionStore(numberedQuestions(3, 1)...)
	svc := newTestService(store, defaultCategories(), ServiceOptions{})

	_, err := svc.Search(context.Background(), SearchRequest{})
	assert.Equal(t, KindUnprocessable, KindOf(err))
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Empty(t, store.searched)
}

func TestQuestionsByCategory(t *testing.T) {
	qs := append(numberedQuestions(3, 1), Question{ID: 10, Question: "Art Q", Answer: "A", Category: 2, Difficulty: 1})
	svc := newTestService(newStubQuestionStore(qs...), defaultCategories(), ServiceOptions{})

	got, err := svc.QuestionsByCategory(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalQuestions)
	require.NotNil(t, got.CurrentCategory)
	assert.Equal(t, int64(1), *got.CurrentCategory)
	for _, q := range got.Questions {
		assert.Equal(t, int64(1), q.Category)
	}
}

func TestQuestionsByCategoryEmptyIsSuccess(t *testing.T) {
	svc := newTestService(newStubQuestionStore(numberedQuestions(3, 1)...), defaultCategories(), ServiceOptions{})

	got, err := svc.QuestionsByCategory(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalQuestions)
	assert.Empty(t, got.Questions)
}

func TestQuestionsByCategoryRejectsNonInteger(t *testing.T) {
	store := newStubQuestionStore(numberedQuestions(3, 1)...)
	svc := newTestService(store, defaultCategories(), ServiceOptions{})

	_, err := svc.QuestionsByCategory(context.Background(), "science")
	assert.Equal(t, KindUnprocessable, KindOf(err))
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.Empty(t, store.byCat, "repository must not be queried with a malformed id")
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	store := newStubQuestionStore(numberedQuestions(2, 1)...)
	svc := newTestService(store, defaultCategories(), ServiceOptions{})

	created, err := svc.CreateQuestion(context.Background(), CreateRequest{
		Question:   ptr("Which planet is largest?"),
		Answer:     ptr("Jupiter"),
		Category:   flex(1),
		Difficulty: flex(2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	got, err := store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, Question{ID: 3, Question: "Which planet is largest?", Answer: "Jupiter", Category: 1, Difficulty: 2}, got)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	full := CreateRequest{Question: ptr("Q"), Answer: ptr("A"), Category: flex(1), Difficulty: flex(1)}
	cases := map[string]func(r *CreateRequest){
		"question":       func(r *CreateRequest) { r.Question = nil },
		"blank question": func(r *CreateRequest) { r.Question = ptr("  ") },
		"answer":         func(r *CreateRequest) { r.Answer = nil },
		"category":       func(r *CreateRequest) { r.Category = nil },
		"difficulty":     func(r *CreateRequest) { r.Difficulty = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			store := newStubQuestionStore()
			svc := newTestService(store, defaultCategories(), ServiceOptions{})
			req := full
			mutate(&req)

			_, err := svc.CreateQuestion(context.Background(), req)
			assert.Equal(t, KindUnprocessable, KindOf(err))
			assert.ErrorIs(t, err, ErrMissingField)
			assert.Empty(t, store.questions)
		})
	}
}

func TestCreateRepositoryFailure(t *testing.T) {
	store := newStubQuestionStore()
	store.err = errors.New("constraint violation")
	svc := newTestService(store, defaultCategories(), ServiceOptions{})

	_, err := svc.CreateQuestion(context.Background(), CreateRequest{Question: ptr("Q"), Answer: ptr("A"), Category: flex(1), Difficulty: flex(1)})
	assert.Equal(t, KindUnprocessable, KindOf(err))
}

func TestDeleteThenGetIsAbsent(t *testing.T) {
	store := newStubQuestionStore(numberedQuestions(3, 1)...)
	svc := newTestService(store, defaultCategories(), ServiceOptions{})

	deleted, err := svc.DeleteQuestion(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted.ID)

	_, err = store.Get(context.Background(), 2)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestDeleteMissingIsUnprocessable(t *testing.T) {
	store := newStubQuestionStore(numberedQuestions(3, 1)...)
	svc := newTestService(store, defaultCategories(), ServiceOptions{})

	_, err := svc.DeleteQuestion(context.Background(), 1000)
	assert.Equal(t, KindUnprocessable, KindOf(err))
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	assert.Len(t, store.questions, 3)
}

func TestPlayQuizSmallCategoryWarns(t *testing.T) {
	qs := append(numberedQuestions(8, 1),
		Question{ID: 20, Question: "Sports 1", Answer: "A", Category: 6, Difficulty: 1},
		Question{ID: 21, Question: "Sports 2", Answer: "A", Category: 6, Difficulty: 1},
		Question{ID: 22, Question: "Sports 3", Answer: "A", Category: 6, Difficulty: 1},
	)
	svc := newTestService(newStubQuestionStore(qs...), defaultCategories(), ServiceOptions{})

	res, err := svc.PlayQuiz(context.Background(), QuizRequest{
		PreviousQuestions: &[]int64{},
		QuizCategory:      &QuizCategory{ID: flex(6)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.Question.Category)
	assert.NotEmpty(t, res.Warning)
}

func TestPlayQuizAllCategoriesUsesFullSet(t *testing.T) {
	store := newStubQuestionStore(append(numberedQuestions(5, 1),
		Question{ID: 6, Question: "Art", Answer: "A", Category: 2, Difficulty: 1})...)
	svc := newTestService(store, defaultCategories(), ServiceOptions{Pick: func(n int) int { return n - 1 }})

	res, err := svc.PlayQuiz(context.Background(), QuizRequest{
		PreviousQuestions: &[]int64{1},
		QuizCategory:      &QuizCategory{ID: flex(AllCategories)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.Question.ID)
	assert.Empty(t, res.Warning)
	assert.Empty(t, store.byCat)
}

func TestPlayQuizExhaustedPool(t *testing.T) {
	svc := newTestService(newStubQuestionStore(numberedQuestions(2, 3)...), defaultCategories(), ServiceOptions{})

	_, err := svc.PlayQuiz(context.Background(), QuizRequest{
		PreviousQuestions: &[]int64{1, 2},
		QuizCategory:      &QuizCategory{ID: flex(3)},
	})
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.ErrorIs(t, err, ErrNoQuestionsAvailable)
}

func TestPlayQuizMissingFields(t *testing.T) {
	svc := newTestService(newStubQuestionStore(numberedQuestions(2, 3)...), defaultCategories(), ServiceOptions{})

	_, err := svc.PlayQuiz(context.Background(), QuizRequest{QuizCategory: &QuizCategory{ID: flex(3)}})
	assert.Equal(t, KindUnprocessable, KindOf(err))

	_, err = svc.PlayQuiz(context.Background(), QuizRequest{PreviousQuestions: &[]int64{}})
	assert.Equal(t, KindUnprocessable, KindOf(err))

	_, err = svc.PlayQuiz(context.Background(), QuizRequest{PreviousQuestions: &[]int64{}, QuizCategory: &QuizCategory{Type: "click"}})
	assert.Equal(t, KindUnprocessable, KindOf(err))
}

func TestPlayQuizRepositoryFailure(t *testing.T) {
	store := newStubQuestionStore()
	store.err = errors.New("db down")
	svc := newTestService(store, defaultCategories(), ServiceOptions{})

	_, err := svc.PlayQuiz(context.Background(), QuizRequest{PreviousQuestions: &[]int64{}, QuizCategory: &QuizCategory{ID: flex(0)}})
	assert.Equal(t, KindUnprocessable, KindOf(err))
}
