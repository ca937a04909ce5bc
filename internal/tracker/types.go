package tracker

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// ProductQuery is one tracked product read from the input file
type ProductQuery struct {
	Keyword     string
	ResultLimit int
}

// Listing is one scraped title/price pair for a keyword at fetch time
type Listing struct {
	Title string
	Price decimal.Decimal
}

// HistoryRecord is the persisted form of a Listing plus the originating keyword
type HistoryRecord struct {
	Keyword    string          `json:"keyword"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	CapturedAt time.Time       `json:"captured_at"`
}

// Valid reports whether the record may be persisted: a non-empty title
// and a non-negative price
func (r HistoryRecord) Valid() bool {
	return r.Title != "" && !r.Price.IsNegative()
}

// Fetcher retrieves the raw search-results markup for a keyword
type Fetcher interface {
	Fetch(keyword string) (io.Reader, error)
}

// Parser extracts at most limit listings from search-results markup
type Parser interface {
	Parse(markup io.Reader, limit int) ([]Listing, error)
}

// Recorder appends history records to the persistent store and returns
// the number of records actually written
type Recorder interface {
	Append(records []HistoryRecord) (int, error)
}
