package service

import "errors"

var (
	// ErrSearchFailed is returned when the backing store fails and no
	// fallback tier is left to serve the request.
	ErrSearchFailed = errors.New("search failed")

	ErrHadithNotFound     = errors.New("hadith not found")
	ErrCollectionNotFound = errors.New("collection not found")
)
