package trivia

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the transport layer.
type Kind int

const (
	KindUnprocessable Kind = iota
	KindNotFound
	KindBadRequest
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	default:
		return "unprocessable"
	}
}

var (
	// ErrQuestionNotFound is returned by repositories when no row matches an id.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNoCategories is returned when the category table is empty.
	ErrNoCategories = errors.New("no categories")
	// ErrNoMatches is returned when a search matches nothing.
	ErrNoMatches = errors.New("no questions match search term")
	// ErrNoQuestionsAvailable is returned when every eligible quiz question was already served.
	ErrNoQuestionsAvailable = errors.New("no questions available")
	// ErrMissingField is returned when a required request field is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidID is returned when an identifier is not an integer.
	ErrInvalidID = errors.New("invalid identifier")
)

// Error tags a failure with its Kind and the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func notFound(op string, err error) error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}

func unprocessable(op string, err error) error {
	return &Error{Kind: KindUnprocessable, Op: op, Err: err}
}

// KindOf reports the Kind of err. Untagged errors are unprocessable.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnprocessable
}
