package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type TopicModel interface {
	List(ctx context.Context) ([]*Topic, error)
	Suggest(ctx context.Context, query, language string, floor float64, limit int) ([]*TopicSuggestion, error)
}

type Topic struct {
	ID          int64   `json:"id"`
	Slug        string  `json:"slug"`
	NameEnglish string  `json:"nameEnglish"`
	NameArabic  *string `json:"nameArabic"`
	NameRussian *string `json:"nameRussian"`
	Description *string `json:"description"`
	HadithCount int     `json:"hadithCount"`
}

type TopicSuggestion struct {
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Score float64 `json:"score"`
}

// topicNameColumn maps a language to the topic name column shown for it.
func topicNameColumn(language string) string {
	switch language {
	case "ru":
		return "name_russian"
	case "ar":
		return "name_arabic"
	default:
		return "name_english"
	}
}

type topicModel struct {
	DB *sql.DB
}

func NewTopicModel(db *sql.DB) *topicModel {
	return &topicModel{DB: db}
}

func (m *topicModel) List(ctx context.Context) ([]*Topic, error) {
	query := `
		SELECT tp.id, tp.slug, tp.name_english, tp.name_arabic, tp.name_russian, tp.description,
			(SELECT COUNT(*) FROM hadith_topics ht WHERE ht.topic_id = tp.id)
		FROM topics tp
		ORDER BY tp.name_english`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []*Topic{}
	for rows.Next() {
		var t Topic
		err := rows.Scan(
			&t.ID,
			&t.Slug,
			&t.NameEnglish,
			&t.NameArabic,
			&t.NameRussian,
			&t.Description,
			&t.HadithCount,
		)
		if err != nil {
			return nil, err
		}
		topics = append(topics, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return topics, nil
}

// Suggest ranks topics whose localized name resembles the query. Topics
// without a localized name fall back to the English one.
func (m *topicModel) Suggest(ctx context.Context, query, language string, floor float64, limit int) ([]*TopicSuggestion, error) {
	stmt := fmt.Sprintf(`
		SELECT name, slug, score
		FROM (
			SELECT
				COALESCE(NULLIF(%[1]s, ''), name_english) AS name,
				slug,
				word_similarity($1, lower(COALESCE(NULLIF(%[1]s, ''), name_english))) AS score
			FROM topics
		) named
		WHERE score > $2 OR name ILIKE $3
		ORDER BY score DESC, name
		LIMIT $4`, topicNameColumn(language))

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, stmt, query, floor, containsPattern(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suggestions := []*TopicSuggestion{}
	for rows.Next() {
		var s TopicSuggestion
		if err := rows.Scan(&s.Name, &s.Slug, &s.Score); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return suggestions, nil
}
