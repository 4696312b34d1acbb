package scraper

import "errors"

var (
	// ErrInvalidURL is returned before any request is made when the URL
	// lacks an http(s) scheme or a host.
	ErrInvalidURL = errors.New("invalid url")

	// ErrFetch covers transport failures, non-2xx responses and markup
	// that cannot be parsed.
	ErrFetch = errors.New("fetch failed")
)
