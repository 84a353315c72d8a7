// Package importer loads questions from Open Trivia DB into the question
// repository, mapping remote categories onto the local category set.
package importer

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// Source yields remote questions.
type Source interface {
	Fetch(ctx context.Context, amount int, difficulty string) ([]OpenTDBQuestion, error)
}

// Report summarises an import run.
type Report struct {
	Fetched    int
	Imported   int
	Duplicates int
	Unmapped   int
}

// Importer copies remote questions into local storage.
type Importer struct {
	source     Source
	questions  trivia.QuestionRepository
	categories trivia.CategoryRepository
	logger     zerolog.Logger
}

func New(source Source, questions trivia.QuestionRepository, categories trivia.CategoryRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		source:     source,
		questions:  questions,
		categories: categories,
		logger:     logger.With().Str("component", "importer").Logger(),
	}
}

var difficultyScale = map[string]int{
	"easy":   1,
	"medium": 3,
	"hard":   5,
}

// Import fetches amount questions and inserts those whose category maps
// onto a local one and whose text is not already stored.
func (im *Importer) Import(ctx context.Context, amount int, difficulty string) (Report, error) {
	var report Report

	cats, err := im.categories.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list categories: %w", err)
	}
	byName := make(map[string]int64, len(cats))
	for _, c := range cats {
		byName[strings.ToLower(c.Type)] = c.ID
	}

	remote, err := im.source.Fetch(ctx, amount, difficulty)
	if err != nil {
		return report, fmt.Errorf("fetch questions: %w", err)
	}
	report.Fetched = len(remote)

	for _, rq := range remote {
		categoryID, ok := byName[localCategoryName(rq.Category)]
		if !ok {
			report.Unmapped++
			im.logger.Debug().Str("category", rq.Category).Msg("no local category; skipping")
			continue
		}

		q := trivia.Question{
			Question:   html.UnescapeString(rq.Question),
			Answer:     html.UnescapeString(rq.CorrectAnswer),
			Category:   categoryID,
			Difficulty: difficultyScale[rq.Difficulty],
		}
		if q.Difficulty == 0 {
			q.Difficulty = difficultyScale["medium"]
		}

		dup, err := im.exists(ctx, q.Question)
		if err != nil {
			return report, err
		}
		if dup {
			report.Duplicates++
			continue
		}

		if _, err := im.questions.Insert(ctx, q); err != nil {
			return report, fmt.Errorf("insert question: %w", err)
		}
		report.Imported++
	}

	im.logger.Info().
		Int("fetched", report.Fetched).
		Int("imported", report.Imported).
		Int("duplicates", report.Duplicates).
		Int("unmapped", report.Unmapped).
		Msg("import finished")
	return report, nil
}

func (im *Importer) exists(ctx context.Context, text string) (bool, error) {
	matches, err := im.questions.Search(ctx, text)
	if err != nil {
		return false, fmt.Errorf("check duplicate: %w", err)
	}
	for _, m := range matches {
		if strings.EqualFold(m.Question, text) {
			return true, nil
		}
	}
	return false, nil
}

// localCategoryName reduces names like "Science & Nature" or
// "Entertainment: Film" to their leading word group, lowercased.
func localCategoryName(remote string) string {
	name := html.UnescapeString(remote)
	if i := strings.Index(name, ":"); i >= 0 {
		name = name[:i]
	}
	if i := strings.Index(name, "&"); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(strings.TrimSpace(name))
}
