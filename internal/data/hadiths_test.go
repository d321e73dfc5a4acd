package data

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestPostgresNumericMatchers(t *testing.T) {
	requireDB(t)

	fixture := seedTestCorpus(t)
	defer fixture.cleanup()

	m := NewModels(testDB, 10*time.Second)
	ctx := context.Background()
	sf := SearchFilters{Language: "en", Collection: fixture.slug}

	exact, err := m.Hadiths.CountByNumber(ctx, 27, sf)
	if err != nil {
		t.Fatalf("CountByNumber() returned an error: %v", err)
	}
	if exact != 1 {
		t.Errorf("expected 1 exact match, got %d", exact)
	}

	others, err := m.Hadiths.FindByNumberFragment(ctx, "27", 27, sf, 0, 10)
	if err != nil {
		t.Fatalf("FindByNumberFragment() returned an error: %v", err)
	}
	if len(others) != 3 {
		t.Fatalf("expected 3 partial matches, got %d", len(others))
	}
	for _, r := range others {
		if r.HadithNumber == 27 {
			t.Errorf("exact match %d leaked into partial matches", r.ID)
		}
		if r.Relevance != nil {
			t.Errorf("expected no relevance for numeric matches, got %v", *r.Relevance)
		}
	}

	count, err := m.Hadiths.CountByNumberFragment(ctx, "27", 27, sf)
	if err != nil {
		t.Fatalf("CountByNumberFragment() returned an error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected partial count 3, got %d", count)
	}

	// Digit strings past the integer column range arrive with number -1.
	count, err = m.Hadiths.CountByNumberFragment(ctx, "12345678901", -1, sf)
	if err != nil {
		t.Fatalf("CountByNumberFragment() returned an error for a long fragment: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no matches for a long fragment, got %d", count)
	}

	exact, err = m.Hadiths.CountByNumber(ctx, -1, sf)
	if err != nil {
		t.Fatalf("CountByNumber(-1) returned an error: %v", err)
	}
	if exact != 0 {
		t.Errorf("expected no exact matches for -1, got %d", exact)
	}
}

func TestPostgresTrigramSearch(t *testing.T) {
	requireDB(t)

	fixture := seedTestCorpus(t)
	defer fixture.cleanup()

	m := NewModels(testDB, 10*time.Second)

	results, total, err := m.Hadiths.TrigramSearch(context.Background(), "intentons", 0.5,
		SearchFilters{Language: "en", Collection: fixture.slug}, Filters{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("TrigramSearch() returned an error: %v", err)
	}

	if total != 1 || len(results) != 1 {
		t.Fatalf("expected a single match, got total=%d len=%d", total, len(results))
	}
	if results[0].Relevance == nil || *results[0].Relevance < 0.5 {
		t.Errorf("expected relevance above threshold, got %v", results[0].Relevance)
	}
	if results[0].Translation == nil || results[0].Translation.LanguageCode != "en" {
		t.Errorf("expected the english translation to be joined")
	}

	_, total, err = m.Hadiths.TrigramSearch(context.Background(), "intentons", 0.5,
		SearchFilters{Language: "en", Collection: fixture.slug}, Filters{Page: 5, PageSize: 10})
	if err != nil {
		t.Fatalf("TrigramSearch() returned an error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total to survive an empty page, got %d", total)
	}
}

func TestPostgresGradeAndCollectionFilters(t *testing.T) {
	requireDB(t)

	fixture := seedTestCorpus(t)
	defer fixture.cleanup()

	m := NewModels(testDB, 10*time.Second)

	results, total, err := m.Hadiths.SubstringSearch(context.Background(), "faith",
		SearchFilters{Language: "en", Collection: fixture.slug, Grade: "sahih"}, Filters{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("SubstringSearch() returned an error: %v", err)
	}

	if total != 1 {
		t.Fatalf("expected 1 graded match, got %d", total)
	}
	if results[0].HadithNumber != 27 {
		t.Errorf("expected hadith 27, got %d", results[0].HadithNumber)
	}
}

type testCorpus struct {
	slug         string
	collectionID int64
	hadithIDs    []int64
	cleanup      func()
}

func seedTestCorpus(t *testing.T) *testCorpus {
	t.Helper()

	fixture := &testCorpus{slug: "test-collection"}

	err := testDB.QueryRow(
		`INSERT INTO collections (slug, name_english) VALUES ($1, 'Test Collection') RETURNING id`,
		fixture.slug,
	).Scan(&fixture.collectionID)
	if err != nil {
		t.Fatalf("failed to insert test collection: %v", err)
	}

	fixture.cleanup = func() {
		testDB.Exec(`DELETE FROM hadiths WHERE id = ANY($1)`, pq.Array(fixture.hadithIDs))
		testDB.Exec(`DELETE FROM collections WHERE id = $1`, fixture.collectionID)
	}

	hadiths := []struct {
		number int
		arabic string
		text   string
		grade  string
	}{
		{1, "إنما الأعمال بالنيات", "Actions are judged by intentions", "Sahih"},
		{27, "الإيمان بضع وسبعون شعبة", "Faith has over seventy branches", "Sahih"},
		{127, "من صام رمضان", "Whoever fasts Ramadan out of faith", "Hasan"},
		{270, "الدين النصيحة", "Religion is sincere advice", "Sahih"},
		{5, "الطهور شطر الإيمان", "Purity is half of faith, see chapter 27", ""},
	}

	tx, err := testDB.Begin()
	if err != nil {
		fixture.cleanup()
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, h := range hadiths {
		var id int64
		err := tx.QueryRow(`
			INSERT INTO hadiths (collection, collection_id, book_number, hadith_number, arabic_text)
			VALUES ('Test Collection', $1, 1, $2, $3)
			RETURNING id`, fixture.collectionID, h.number, h.arabic).Scan(&id)
		if err != nil {
			t.Fatalf("failed to insert test hadith: %v", err)
		}
		fixture.hadithIDs = append(fixture.hadithIDs, id)
	}

	stmt, err := tx.Prepare(pq.CopyIn("translations", "hadith_id", "language_code", "text", "grade"))
	if err != nil {
		t.Fatalf("failed to prepare copy: %v", err)
	}

	for i, h := range hadiths {
		var grade any
		if h.grade != "" {
			grade = h.grade
		}
		if _, err = stmt.Exec(fixture.hadithIDs[i], "en", h.text, grade); err != nil {
			t.Fatalf("failed to copy translation: %v", err)
		}
	}

	if _, err = stmt.Exec(); err != nil {
		t.Fatalf("failed to flush copy: %v", err)
	}
	if err = stmt.Close(); err != nil {
		t.Fatalf("failed to close copy: %v", err)
	}

	if err = tx.Commit(); err != nil {
		fixture.cleanup()
		t.Fatalf("failed to commit test corpus: %v", err)
	}

	return fixture
}
