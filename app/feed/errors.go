package feed

import "errors"

var (
	ErrNoArticles    = errors.New("no articles found")
	ErrSerialization = errors.New("feed serialization failed")
)
