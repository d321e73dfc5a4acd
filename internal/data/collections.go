package data

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type CollectionModel interface {
	List(ctx context.Context) ([]*Collection, error)
	Get(ctx context.Context, slug string) (*Collection, error)
}

type Collection struct {
	ID          int64   `json:"id"`
	Slug        string  `json:"slug"`
	NameEnglish string  `json:"nameEnglish"`
	NameArabic  *string `json:"nameArabic"`
	Description *string `json:"description"`
	HadithCount int     `json:"hadithCount"`
}

type collectionModel struct {
	DB *sql.DB
}

func NewCollectionModel(db *sql.DB) *collectionModel {
	return &collectionModel{DB: db}
}

const collectionColumns = `
			c.id, c.slug, c.name_english, c.name_arabic, c.description,
			(SELECT COUNT(*) FROM hadiths h WHERE h.collection_id = c.id OR h.collection = c.slug)`

func (m *collectionModel) List(ctx context.Context) ([]*Collection, error) {
	query := `SELECT` + collectionColumns + `
		FROM collections c
		ORDER BY c.name_english`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	collections := []*Collection{}
	for rows.Next() {
		var c Collection
		err := rows.Scan(&c.ID, &c.Slug, &c.NameEnglish, &c.NameArabic, &c.Description, &c.HadithCount)
		if err != nil {
			return nil, err
		}
		collections = append(collections, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return collections, nil
}

func (m *collectionModel) Get(ctx context.Context, slug string) (*Collection, error) {
	query := `SELECT` + collectionColumns + `
		FROM collections c
		WHERE c.slug = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var c Collection
	err := m.DB.QueryRowContext(ctx, query, slug).Scan(
		&c.ID,
		&c.Slug,
		&c.NameEnglish,
		&c.NameArabic,
		&c.Description,
		&c.HadithCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &c, nil
}
