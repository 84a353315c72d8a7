package trivia

import "context"

// QuestionRepository provides persistent access to questions.
// Listings are ordered by id.
type QuestionRepository interface {
	List(ctx context.Context) ([]Question, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]Question, error)
	// Search matches term as a case-insensitive substring of the question text.
	Search(ctx context.Context, term string) ([]Question, error)
	// Get returns ErrQuestionNotFound when id does not exist.
	Get(ctx context.Context, id int64) (Question, error)
	// Insert ignores q.ID and returns the stored record with its assigned id.
	Insert(ctx context.Context, q Question) (Question, error)
	// Delete returns ErrQuestionNotFound when id does not exist.
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository provides read access to categories, ordered by type.
type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
}
