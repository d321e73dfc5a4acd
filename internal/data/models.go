package data

import (
	"database/sql"
	"errors"
	"time"
)

var (
	ErrRecordNotFound = errors.New("record not found")
)

// DefaultTrigramTimeout bounds the statement timeout of the similarity tier.
const DefaultTrigramTimeout = 15 * time.Second

type Models struct {
	Hadiths     HadithModel
	Topics      TopicModel
	Collections CollectionModel
}

func NewModels(db *sql.DB, trigramTimeout time.Duration) Models {
	if trigramTimeout <= 0 {
		trigramTimeout = DefaultTrigramTimeout
	}

	return Models{
		Hadiths:     NewHadithModel(db, trigramTimeout),
		Topics:      NewTopicModel(db),
		Collections: NewCollectionModel(db),
	}
}
