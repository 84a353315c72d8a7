package trivia

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AllCategories is the quiz category id that draws from every question.
const AllCategories int64 = 0

// Question is a persisted trivia question.
type Question struct {
	ID         int64
	Question   string
	Answer     string
	Category   int64
	Difficulty int
}

// FormattedQuestion is the projection of a Question sent to clients.
type FormattedQuestion struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// Format projects q into its client representation.
func (q Question) Format() FormattedQuestion {
	return FormattedQuestion{
		ID:         q.ID,
		Question:   q.Question,
		Answer:     q.Answer,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
}

// Category groups questions under a display label.
type Category struct {
	ID   int64
	Type string
}

// FormatQuestions projects every question, preserving order.
func FormatQuestions(qs []Question) []FormattedQuestion {
	out := make([]FormattedQuestion, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.Format())
	}
	return out
}

// CategoryMap builds the id -> type mapping the client expects.
func CategoryMap(cs []Category) map[int64]string {
	out := make(map[int64]string, len(cs))
	for _, c := range cs {
		out[c.ID] = c.Type
	}
	return out
}

// FlexInt decodes a JSON number or a numeric JSON string. The reference
// client sends select values as strings ("3") and literals as numbers.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("expected integer, got null")
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("expected integer, got %s", data)
	}
	*f = FlexInt(v)
	return nil
}

// Int64 returns the decoded value.
func (f FlexInt) Int64() int64 { return int64(f) }

// SearchRequest is the body of a question search.
type SearchRequest struct {
	SearchTerm *string `json:"searchTerm"`
}

// CreateRequest is the body of a question creation.
type CreateRequest struct {
	Question   *string  `json:"question"`
	Answer     *string  `json:"answer"`
	Category   *FlexInt `json:"category"`
	Difficulty *FlexInt `json:"difficulty"`
}

// QuizCategory identifies the category a quiz draws from. ID 0 means all.
type QuizCategory struct {
	ID   *FlexInt `json:"id"`
	Type string   `json:"type,omitempty"`
}

// QuizRequest is the body of a quiz round.
type QuizRequest struct {
	PreviousQuestions *[]int64     `json:"previous_questions"`
	QuizCategory      *QuizCategory `json:"quiz_category"`
}

// QuestionPage is the payload of the paginated question listing.
type QuestionPage struct {
	Questions       []FormattedQuestion `json:"questions"`
	TotalQuestions  int                 `json:"total_questions"`
	Categories      map[int64]string    `json:"categories"`
	CurrentCategory *int64              `json:"current_category"`
}

// QuestionList is the payload of search and category filtering.
type QuestionList struct {
	Questions       []FormattedQuestion `json:"questions"`
	TotalQuestions  int                 `json:"total_questions"`
	CurrentCategory *int64              `json:"current_category"`
}

// Created reports the id assigned to a new question.
type Created struct {
	ID int64 `json:"created"`
}

// Deleted reports the id of a removed question.
type Deleted struct {
	ID int64 `json:"deleted"`
}

// QuizResult carries the chosen question and, when the pool is small, a warning.
type QuizResult struct {
	Question FormattedQuestion `json:"question"`
	Warning  string            `json:"warning,omitempty"`
}
