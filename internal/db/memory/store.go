package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// DefaultCategories mirrors the seed migration.
var DefaultCategories = []trivia.Category{
	{ID: 1, Type: "Science"},
	{ID: 2, Type: "Art"},
	{ID: 3, Type: "Geography"},
	{ID: 4, Type: "History"},
	{ID: 5, Type: "Entertainment"},
	{ID: 6, Type: "Sports"},
}

// Store keeps questions and categories in process memory.
// It satisfies both trivia.QuestionRepository and trivia.CategoryRepository
// through the Questions and Categories views.
type Store struct {
	mu         sync.RWMutex
	questions  map[int64]trivia.Question
	categories []trivia.Category
	nextID     int64
}

// NewStore returns a store holding categories and no questions.
func NewStore(categories []trivia.Category) *Store {
	cats := append([]trivia.Category(nil), categories...)
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Type < cats[j].Type })
	return &Store{
		questions:  make(map[int64]trivia.Question),
		categories: cats,
		nextID:     1,
	}
}

// Questions exposes the question repository view.
func (s *Store) Questions() *QuestionRepository { return &QuestionRepository{s: s} }

// Categories exposes the category repository view.
func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s: s} }

// QuestionRepository is the in-memory trivia.QuestionRepository.
type QuestionRepository struct{ s *Store }

var _ trivia.QuestionRepository = (*QuestionRepository)(nil)

func (r *QuestionRepository) List(_ context.Context) ([]trivia.Question, error) {
	return r.s.filter(func(trivia.Question) bool { return true }), nil
}

func (r *QuestionRepository) ListByCategory(_ context.Context, categoryID int64) ([]trivia.Question, error) {
	return r.s.filter(func(q trivia.Question) bool { return q.Category == categoryID }), nil
}

func (r *QuestionRepository) Search(_ context.Context, term string) ([]trivia.Question, error) {
	needle := strings.ToLower(term)
	return r.s.filter(func(q trivia.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), needle)
	}), nil
}

func (r *QuestionRepository) Get(_ context.Context, id int64) (trivia.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q, ok := r.s.questions[id]
	if !ok {
		return trivia.Question{}, trivia.ErrQuestionNotFound
	}
	return q, nil
}

func (r *QuestionRepository) Insert(_ context.Context, q trivia.Question) (trivia.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q.ID = r.s.nextID
	r.s.nextID++
	r.s.questions[q.ID] = q
	return q, nil
}

func (r *QuestionRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.questions[id]; !ok {
		return trivia.ErrQuestionNotFound
	}
	delete(r.s.questions, id)
	return nil
}

// CategoryRepository is the in-memory trivia.CategoryRepository.
type CategoryRepository struct{ s *Store }

var _ trivia.CategoryRepository = (*CategoryRepository)(nil)

func (r *CategoryRepository) List(_ context.Context) ([]trivia.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]trivia.Category(nil), r.s.categories...), nil
}

// filter returns matching questions ordered by id.
func (s *Store) filter(keep func(trivia.Question) bool) []trivia.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]trivia.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
