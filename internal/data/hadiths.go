package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type HadithModel interface {
	TrigramSearch(ctx context.Context, query string, threshold float64, sf SearchFilters, f Filters) ([]*SearchResult, int, error)
	KeywordSearch(ctx context.Context, keywords []string, sf SearchFilters, f Filters) ([]*SearchResult, int, error)
	SubstringSearch(ctx context.Context, query string, sf SearchFilters, f Filters) ([]*SearchResult, int, error)

	CountByNumber(ctx context.Context, number int, sf SearchFilters) (int, error)
	FindByNumber(ctx context.Context, number int, sf SearchFilters, offset, limit int) ([]*SearchResult, error)
	CountByNumberFragment(ctx context.Context, fragment string, number int, sf SearchFilters) (int, error)
	FindByNumberFragment(ctx context.Context, fragment string, number int, sf SearchFilters, offset, limit int) ([]*SearchResult, error)

	SpellWords(ctx context.Context, query, language string, candidateFloor, wordFloor float64, limit int) ([]*WordSuggestion, error)

	List(ctx context.Context, lf ListFilters, f Filters) ([]*SearchResult, int, error)
	Get(ctx context.Context, id int64, language string) (*SearchResult, error)
	Count(ctx context.Context, sf SearchFilters) (int, error)
	FindAt(ctx context.Context, sf SearchFilters, offset int) (*SearchResult, error)
}

type Translation struct {
	ID           int64   `json:"id"`
	HadithID     int64   `json:"hadithId"`
	LanguageCode string  `json:"languageCode"`
	Text         string  `json:"text"`
	Narrator     *string `json:"narrator"`
	Translator   *string `json:"translator"`
	Grade        *string `json:"grade"`
}

// Hadith is a corpus record. CollectionSlug is the slug of the referenced
// collection row, empty for rows that only carry the legacy name.
type Hadith struct {
	ID             int64           `json:"id"`
	Collection     string          `json:"collection"`
	CollectionSlug string          `json:"collectionSlug,omitempty"`
	BookNumber     int             `json:"bookNumber"`
	HadithNumber   int             `json:"hadithNumber"`
	ArabicText     string          `json:"arabicText"`
	ArabicNarrator *string         `json:"arabicNarrator"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	Translations   []Translation   `json:"translations,omitempty"`
}

// SearchResult is a hadith joined with its translation in the requested
// language. Relevance is nil for tiers that do not score.
type SearchResult struct {
	ID             int64           `json:"id"`
	Collection     string          `json:"collection"`
	BookNumber     int             `json:"bookNumber"`
	HadithNumber   int             `json:"hadithNumber"`
	ArabicText     string          `json:"arabicText"`
	ArabicNarrator *string         `json:"arabicNarrator"`
	Translation    *Translation    `json:"translation"`
	Metadata       json.RawMessage `json:"metadata"`
	Relevance      *float64        `json:"relevance"`
}

type WordSuggestion struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

type hadithModel struct {
	DB             *sql.DB
	trigramTimeout time.Duration
}

func NewHadithModel(db *sql.DB, trigramTimeout time.Duration) *hadithModel {
	return &hadithModel{DB: db, trigramTimeout: trigramTimeout}
}

const resultColumns = `
			h.id, h.collection, h.book_number, h.hadith_number,
			h.arabic_text, h.arabic_narrator, h.metadata,
			t.id, t.language_code, t.text, t.narrator, t.translator, t.grade`

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queryArgs struct {
	values []any
}

func (a *queryArgs) add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

func (a queryArgs) clone() *queryArgs {
	values := make([]any, len(a.values), len(a.values)+3)
	copy(values, a.values)
	return &queryArgs{values: values}
}

// escapeLike escapes the LIKE wildcards so user input is matched literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

// filterSQL renders the collection and grade predicates shared by every tier.
// A collection matches either the denormalized name or the referenced slug.
func filterSQL(sf SearchFilters, a *queryArgs) string {
	var b strings.Builder

	if sf.Collection != "" {
		p := a.add(sf.Collection)
		fmt.Fprintf(&b, `
			AND (h.collection = %[1]s
				OR EXISTS (SELECT 1 FROM collections c WHERE c.id = h.collection_id AND c.slug = %[1]s))`, p)
	}

	if sf.Grade != "" {
		lang := a.add(sf.Language)
		grade := a.add(sf.Grade)
		fmt.Fprintf(&b, `
			AND EXISTS (
				SELECT 1 FROM translations g
				WHERE g.hadith_id = h.id AND g.language_code = %s AND lower(g.grade) = lower(%s))`, lang, grade)
	}

	return b.String()
}

// textMatchSQL matches a pattern against the Arabic text or the translation
// in the requested language.
func textMatchSQL(pattern, lang string) string {
	return fmt.Sprintf(`(h.arabic_text ILIKE %[1]s
				OR EXISTS (
					SELECT 1 FROM translations mt
					WHERE mt.hadith_id = h.id AND mt.language_code = %[2]s AND mt.text ILIKE %[1]s))`, pattern, lang)
}

// selection describes a hadith query before the translation join and the
// pagination window are applied.
type selection struct {
	prefix string // optional WITH clause
	from   string // FROM clause, hadiths must be aliased as h
	where  string
	score  string // relevance expression, empty when the tier does not score
	order  string
	args   queryArgs
}

func (s selection) page(ctx context.Context, q queryer, language string, limit, offset int) ([]*SearchResult, int, error) {
	args := s.args.clone()
	lang := args.add(language)
	limitP := args.add(limit)
	offsetP := args.add(offset)

	score := "NULL::float8"
	if s.score != "" {
		score = s.score
	}

	query := fmt.Sprintf(`%s
		SELECT COUNT(*) OVER(), %s, %s
		FROM %s
		LEFT JOIN translations t ON t.hadith_id = h.id AND t.language_code = %s
		WHERE %s
		ORDER BY %s
		LIMIT %s
		OFFSET %s`, s.prefix, resultColumns, score, s.from, lang, s.where, s.order, limitP, offsetP)

	rows, err := q.QueryContext(ctx, query, args.values...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results := []*SearchResult{}
	totalCount := 0

	for rows.Next() {
		var row resultRow
		dest := append([]any{&totalCount}, row.dest()...)
		dest = append(dest, &row.relevance)

		if err := rows.Scan(dest...); err != nil {
			return nil, 0, err
		}
		results = append(results, row.build())
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	// A window past the last row carries no COUNT(*) OVER() value.
	if len(results) == 0 && offset > 0 {
		totalCount, err = s.count(ctx, q)
		if err != nil {
			return nil, 0, err
		}
	}

	return results, totalCount, nil
}

func (s selection) count(ctx context.Context, q queryer) (int, error) {
	query := fmt.Sprintf(`%s
		SELECT COUNT(*)
		FROM %s
		WHERE %s`, s.prefix, s.from, s.where)

	var total int
	if err := q.QueryRowContext(ctx, query, s.args.values...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

type resultRow struct {
	result      SearchResult
	metadata    []byte
	tID         sql.NullInt64
	tLang       sql.NullString
	tText       sql.NullString
	tNarrator   sql.NullString
	tTranslator sql.NullString
	tGrade      sql.NullString
	relevance   sql.NullFloat64
}

func (row *resultRow) dest() []any {
	return []any{
		&row.result.ID,
		&row.result.Collection,
		&row.result.BookNumber,
		&row.result.HadithNumber,
		&row.result.ArabicText,
		&row.result.ArabicNarrator,
		&row.metadata,
		&row.tID,
		&row.tLang,
		&row.tText,
		&row.tNarrator,
		&row.tTranslator,
		&row.tGrade,
	}
}

func (row *resultRow) build() *SearchResult {
	r := row.result

	if len(row.metadata) > 0 {
		r.Metadata = json.RawMessage(row.metadata)
	}

	if row.tID.Valid {
		r.Translation = &Translation{
			ID:           row.tID.Int64,
			HadithID:     r.ID,
			LanguageCode: row.tLang.String,
			Text:         row.tText.String,
			Narrator:     nullString(row.tNarrator),
			Translator:   nullString(row.tTranslator),
			Grade:        nullString(row.tGrade),
		}
	}

	if row.relevance.Valid {
		score := row.relevance.Float64
		r.Relevance = &score
	}

	return &r
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// TrigramSearch runs the word-similarity tier inside a read-only transaction
// so the threshold and statement timeout apply to this query only. A hadith
// matched through several fragments is scored once, at its best similarity.
func (m *hadithModel) TrigramSearch(ctx context.Context, query string, threshold float64, sf SearchFilters, f Filters) ([]*SearchResult, int, error) {
	ctx, cancel := context.WithTimeout(ctx, m.trigramTimeout)
	defer cancel()

	tx, err := m.DB.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`SELECT set_config('pg_trgm.word_similarity_threshold', $1, true),
		        set_config('statement_timeout', $2, true)`,
		strconv.FormatFloat(threshold, 'f', 2, 64),
		strconv.FormatInt(m.trigramTimeout.Milliseconds(), 10),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("set similarity threshold: %w", err)
	}

	var a queryArgs
	q := a.add(query)
	lang := a.add(sf.Language)
	pattern := a.add(containsPattern(query))

	prefix := fmt.Sprintf(`
		WITH matching_ids AS (
			SELECT h.id, word_similarity(%[1]s, h.arabic_text) AS score
			FROM hadiths h
			WHERE h.arabic_text ILIKE %[3]s OR %[1]s <%% h.arabic_text

			UNION ALL

			SELECT mt.hadith_id, word_similarity(%[1]s, mt.text) AS score
			FROM translations mt
			WHERE mt.language_code = %[2]s
				AND (mt.text ILIKE %[3]s OR %[1]s <%% mt.text)
		),
		best_scores AS (
			SELECT id, MAX(score) AS relevance
			FROM matching_ids
			GROUP BY id
		)`, q, lang, pattern)

	s := selection{
		prefix: prefix,
		from:   "best_scores b JOIN hadiths h ON h.id = b.id",
		where:  "TRUE" + filterSQL(sf, &a),
		score:  "b.relevance",
		order:  "b.relevance DESC, h.id",
		args:   a,
	}

	results, total, err := s.page(ctx, tx, sf.Language, f.limit(), f.offset())
	if err != nil {
		return nil, 0, err
	}

	return results, total, tx.Commit()
}

// KeywordSearch requires every keyword to appear in the Arabic text or in the
// translation. Rows come back in insertion order.
func (m *hadithModel) KeywordSearch(ctx context.Context, keywords []string, sf SearchFilters, f Filters) ([]*SearchResult, int, error) {
	if len(keywords) == 0 {
		return []*SearchResult{}, 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a queryArgs
	lang := a.add(sf.Language)

	clauses := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		clauses = append(clauses, textMatchSQL(a.add(containsPattern(kw)), lang))
	}

	s := selection{
		from:  "hadiths h",
		where: strings.Join(clauses, "\n\t\t\tAND ") + filterSQL(sf, &a),
		order: "h.id",
		args:  a,
	}

	return s.page(ctx, m.DB, sf.Language, f.limit(), f.offset())
}

// SubstringSearch is the plain contains match against the whole query.
func (m *hadithModel) SubstringSearch(ctx context.Context, query string, sf SearchFilters, f Filters) ([]*SearchResult, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a queryArgs
	lang := a.add(sf.Language)
	pattern := a.add(containsPattern(query))

	s := selection{
		from:  "hadiths h",
		where: textMatchSQL(pattern, lang) + filterSQL(sf, &a),
		order: "h.id",
		args:  a,
	}

	return s.page(ctx, m.DB, sf.Language, f.limit(), f.offset())
}

func numberSelection(number int, sf SearchFilters) selection {
	var a queryArgs
	n := a.add(number)

	return selection{
		from:  "hadiths h",
		where: "h.hadith_number = " + n + filterSQL(sf, &a),
		order: "h.book_number, h.hadith_number, h.id",
		args:  a,
	}
}

// fragmentSelection matches hadiths whose number contains the fragment, or
// whose text does, excluding exact number matches.
func fragmentSelection(fragment string, number int, sf SearchFilters) selection {
	var a queryArgs
	n := a.add(number)
	pattern := a.add(containsPattern(fragment))
	lang := a.add(sf.Language)

	where := fmt.Sprintf(`h.hadith_number <> %s
			AND (CAST(h.hadith_number AS TEXT) LIKE %s OR %s)`, n, pattern, textMatchSQL(pattern, lang))

	return selection{
		from:  "hadiths h",
		where: where + filterSQL(sf, &a),
		order: "h.book_number, h.hadith_number, h.id",
		args:  a,
	}
}

func (m *hadithModel) CountByNumber(ctx context.Context, number int, sf SearchFilters) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return numberSelection(number, sf).count(ctx, m.DB)
}

func (m *hadithModel) FindByNumber(ctx context.Context, number int, sf SearchFilters, offset, limit int) ([]*SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	results, _, err := numberSelection(number, sf).page(ctx, m.DB, sf.Language, limit, offset)
	return results, err
}

func (m *hadithModel) CountByNumberFragment(ctx context.Context, fragment string, number int, sf SearchFilters) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return fragmentSelection(fragment, number, sf).count(ctx, m.DB)
}

func (m *hadithModel) FindByNumberFragment(ctx context.Context, fragment string, number int, sf SearchFilters, offset, limit int) ([]*SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	results, _, err := fragmentSelection(fragment, number, sf).page(ctx, m.DB, sf.Language, limit, offset)
	return results, err
}

// SpellWords extracts distinct words from translations that resemble the
// query and returns the closest ones.
func (m *hadithModel) SpellWords(ctx context.Context, query, language string, candidateFloor, wordFloor float64, limit int) ([]*WordSuggestion, error) {
	stmt := `
		SELECT word, word_similarity($1, word) AS sim
		FROM (
			SELECT DISTINCT unnest(regexp_split_to_array(lower(text), '[^\wа-яёa-z؀-ۿ]+')) AS word
			FROM translations
			WHERE language_code = $2
				AND word_similarity($1, text) > $3
		) words
		WHERE length(word) > 2
			AND word_similarity($1, word) > $4
		ORDER BY sim DESC, word
		LIMIT $5`

	ctx, cancel := context.WithTimeout(ctx, m.trigramTimeout)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, stmt, query, language, candidateFloor, wordFloor, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suggestions := []*WordSuggestion{}
	for rows.Next() {
		var s WordSuggestion
		if err := rows.Scan(&s.Word, &s.Score); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return suggestions, nil
}

func listSelection(lf ListFilters) selection {
	var a queryArgs
	clauses := []string{"TRUE"}

	if lf.BookNumber > 0 {
		clauses = append(clauses, "h.book_number = "+a.add(lf.BookNumber))
	}
	if lf.HadithNumber > 0 {
		clauses = append(clauses, "h.hadith_number = "+a.add(lf.HadithNumber))
	}

	return selection{
		from:  "hadiths h",
		where: strings.Join(clauses, " AND ") + filterSQL(lf.SearchFilters, &a),
		order: "h.book_number, h.hadith_number, h.id",
		args:  a,
	}
}

func (m *hadithModel) List(ctx context.Context, lf ListFilters, f Filters) ([]*SearchResult, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return listSelection(lf).page(ctx, m.DB, lf.Language, f.limit(), f.offset())
}

func (m *hadithModel) Get(ctx context.Context, id int64, language string) (*SearchResult, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM hadiths h
		LEFT JOIN translations t ON t.hadith_id = h.id AND t.language_code = $2
		WHERE h.id = $1`, resultColumns)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var row resultRow
	err := m.DB.QueryRowContext(ctx, query, id, language).Scan(row.dest()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return row.build(), nil
}

func (m *hadithModel) Count(ctx context.Context, sf SearchFilters) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return listSelection(ListFilters{SearchFilters: sf}).count(ctx, m.DB)
}

func (m *hadithModel) FindAt(ctx context.Context, sf SearchFilters, offset int) (*SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	results, _, err := listSelection(ListFilters{SearchFilters: sf}).page(ctx, m.DB, sf.Language, 1, offset)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrRecordNotFound
	}

	return results[0], nil
}
