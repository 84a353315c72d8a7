package trivia

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// ServiceOptions tunes query and quiz behavior.
type ServiceOptions struct {
	// WarnThreshold defaults to DefaultWarnThreshold.
	WarnThreshold int
	// AllowEmptyResults turns empty category listings and searches into
	// successful empty responses instead of NOT_FOUND.
	AllowEmptyResults bool
	// Pick defaults to math/rand/v2.IntN.
	Pick Picker
}

// Service implements the trivia query handlers and the quiz selector.
type Service struct {
	questions  QuestionRepository
	categories CategoryRepository
	opts       ServiceOptions
	logger     zerolog.Logger
}

// NewService wires repositories into the query handlers.
func NewService(questions QuestionRepository, categories CategoryRepository, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.WarnThreshold <= 0 {
		opts.WarnThreshold = DefaultWarnThreshold
	}
	return &Service{
		questions:  questions,
		categories: categories,
		opts:       opts,
		logger:     logger.With().Str("component", "trivia_service").Logger(),
	}
}

// Categories returns every category keyed by id.
func (s *Service) Categories(ctx context.Context) (map[int64]string, error) {
	const op = "categories"
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, unprocessable(op, err)
	}
	if len(cats) == 0 && !s.opts.AllowEmptyResults {
		return nil, notFound(op, ErrNoCategories)
	}
	return CategoryMap(cats), nil
}

// ListQuestions returns one page of questions with the overall total and category map.
func (s *Service) ListQuestions(ctx context.Context, page int) (QuestionPage, error) {
	const op = "list questions"
	all, err := s.questions.List(ctx)
	if err != nil {
		return QuestionPage{}, unprocessable(op, err)
	}
	formatted := FormatQuestions(all)

	cats, err := s.categories.List(ctx)
	if err != nil {
		return QuestionPage{}, unprocessable(op, err)
	}

	return QuestionPage{
		Questions:      Paginate(formatted, page),
		TotalQuestions: len(formatted),
		Categories:     CategoryMap(cats),
	}, nil
}

// Search returns every question whose text contains the term, ignoring case.
func (s *Service) Search(ctx context.Context, req SearchRequest) (QuestionList, error) {
	const op = "search questions"
	if req.SearchTerm == nil {
		return QuestionList{}, unprocessable(op, fmt.Errorf("%w: searchTerm", ErrMissingField))
	}
	matches, err := s.questions.Search(ctx, *req.SearchTerm)
	if err != nil {
		return QuestionList{}, unprocessable(op, err)
	}
	if len(matches) == 0 && !s.opts.AllowEmptyResults {
		return QuestionList{}, notFound(op, ErrNoMatches)
	}
	return QuestionList{
		Questions:      FormatQuestions(matches),
		TotalQuestions: len(matches),
	}, nil
}

// QuestionsByCategory returns every question in the category named by rawID.
// A non-integer id is rejected before the repository is consulted.
func (s *Service) QuestionsByCategory(ctx context.Context, rawID string) (QuestionList, error) {
	const op = "questions by category"
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return QuestionList{}, unprocessable(op, fmt.Errorf("%w: %q", ErrInvalidID, rawID))
	}
	qs, err := s.questions.ListByCategory(ctx, id)
	if err != nil {
		return QuestionList{}, unprocessable(op, err)
	}
	return QuestionList{
		Questions:       FormatQuestions(qs),
		TotalQuestions:  len(qs),
		CurrentCategory: &id,
	}, nil
}

// CreateQuestion validates req and persists a new question.
func (s *Service) CreateQuestion(ctx context.Context, req CreateRequest) (Created, error) {
	const op = "create question"
	q, err := req.toQuestion()
	if err != nil {
		return Created{}, unprocessable(op, err)
	}
	stored, err := s.questions.Insert(ctx, q)
	if err != nil {
		return Created{}, unprocessable(op, err)
	}
	s.logger.Info().Int64("question_id", stored.ID).Int64("category", stored.Category).Msg("question created")
	return Created{ID: stored.ID}, nil
}

// DeleteQuestion removes the question with id. Deleting a missing question fails.
func (s *Service) DeleteQuestion(ctx context.Context, id int64) (Deleted, error) {
	const op = "delete question"
	if _, err := s.questions.Get(ctx, id); err != nil {
		return Deleted{}, unprocessable(op, err)
	}
	if err := s.questions.Delete(ctx, id); err != nil {
		return Deleted{}, unprocessable(op, err)
	}
	s.logger.Info().Int64("question_id", id).Msg("question deleted")
	return Deleted{ID: id}, nil
}

// PlayQuiz draws a random question from the requested category that the
// player has not seen yet.
func (s *Service) PlayQuiz(ctx context.Context, req QuizRequest) (QuizResult, error) {
	const op = "play quiz"
	if req.PreviousQuestions == nil {
		return QuizResult{}, unprocessable(op, fmt.Errorf("%w: previous_questions", ErrMissingField))
	}
	if req.QuizCategory == nil || req.QuizCategory.ID == nil {
		return QuizResult{}, unprocessable(op, fmt.Errorf("%w: quiz_category.id", ErrMissingField))
	}

	categoryID := req.QuizCategory.ID.Int64()
	var (
		pool []Question
		err  error
	)
	if categoryID == AllCategories {
		pool, err = s.questions.List(ctx)
	} else {
		pool, err = s.questions.ListByCategory(ctx, categoryID)
	}
	if err != nil {
		return QuizResult{}, unprocessable(op, err)
	}

	sel, err := SelectQuizQuestion(pool, *req.PreviousQuestions, s.opts.WarnThreshold, s.opts.Pick)
	if err != nil {
		if errors.Is(err, ErrNoQuestionsAvailable) {
			s.logger.Debug().Int64("category", categoryID).Int("previous", len(*req.PreviousQuestions)).Msg("quiz pool exhausted")
			return QuizResult{}, notFound(op, err)
		}
		return QuizResult{}, unprocessable(op, err)
	}

	return QuizResult{Question: sel.Question.Format(), Warning: sel.Warning}, nil
}

func (r CreateRequest) toQuestion() (Question, error) {
	switch {
	case r.Question == nil || strings.TrimSpace(*r.Question) == "":
		return Question{}, fmt.Errorf("%w: question", ErrMissingField)
	case r.Answer == nil || strings.TrimSpace(*r.Answer) == "":
		return Question{}, fmt.Errorf("%w: answer", ErrMissingField)
	case r.Category == nil:
		return Question{}, fmt.Errorf("%w: category", ErrMissingField)
	case r.Difficulty == nil:
		return Question{}, fmt.Errorf("%w: difficulty", ErrMissingField)
	}
	return Question{
		Question:   *r.Question,
		Answer:     *r.Answer,
		Category:   r.Category.Int64(),
		Difficulty: int(r.Difficulty.Int64()),
	}, nil
}
