package tracker

import (
	"io"
	"net/url"
	"strings"

	"pricetrail/helpers"
	"pricetrail/pkg/errors"
)

// PageFetcher fetches search-results pages for a marketplace profile
type PageFetcher struct {
	profile Profile

	// fetchFunc is swappable for tests
	fetchFunc func(url string) (io.Reader, error)
}

// Ensure PageFetcher implements Fetcher
var _ Fetcher = (*PageFetcher)(nil)

// NewPageFetcher creates a fetcher for the given profile
func NewPageFetcher(profile Profile) *PageFetcher {
	return &PageFetcher{
		profile:   profile,
		fetchFunc: helpers.FetchWithBrowserHeaders,
	}
}

// SearchURL builds the search-results URL for a keyword
func (f *PageFetcher) SearchURL(keyword string) string {
	return strings.Replace(f.profile.SearchURL, "{query}", url.QueryEscape(keyword), 1)
}

// Fetch performs a single blocking GET for the keyword's search page
func (f *PageFetcher) Fetch(keyword string) (io.Reader, error) {
	body, err := f.fetchFunc(f.SearchURL(keyword))
	if err != nil {
		return nil, errors.NewFetch(keyword, "search page fetch failed", err)
	}
	return body, nil
}
