package domain

import "errors"

var (
	ErrListingNotFound     = errors.New("listing not found")
	ErrSnapshotNotFound    = errors.New("search snapshot not found")
	ErrUpstreamUnavailable = errors.New("listing repository unavailable")
	ErrUnknownGroupField   = errors.New("unknown group field")
	ErrStaleRequest        = errors.New("request superseded by a newer one")
)

// ErrEmptySearchQuery - пустой поисковый запрос.
var ErrEmptySearchQuery = errors.New("search query is empty")
