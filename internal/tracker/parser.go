package tracker

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"pricetrail/logger"
	"pricetrail/pkg/errors"
)

var (
	currencyStripRegex = regexp.MustCompile(`[^\d.,\-]`)
	// US-format thousands grouping, e.g. 1,299.00
	thousandsRegex = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

// ListingParser extracts listings from search-results markup using the
// selectors of a marketplace profile
type ListingParser struct {
	profile Profile
}

// Ensure ListingParser implements Parser
var _ Parser = (*ListingParser)(nil)

// NewListingParser creates a parser for the given profile
func NewListingParser(profile Profile) *ListingParser {
	return &ListingParser{profile: profile}
}

// Parse returns at most limit listings in source order. Containers with
// unparseable prices are skipped, never abort the batch. Zero matching
// containers yields an empty result, not an error.
func (p *ListingParser) Parse(markup io.Reader, limit int) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(markup)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeValidation, "", "markup parse failed", err)
	}

	var listings []Listing
	doc.Find(p.profile.Listing).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if limit >= 0 && len(listings) >= limit {
			return false
		}

		listing, err := p.parseListing(s)
		if err != nil {
			logger.Debug("skipping listing: %v", err)
			return true
		}
		if listing == nil {
			return true
		}

		listings = append(listings, *listing)
		return true
	})

	return listings, nil
}

// parseListing extracts one listing from a container selection.
// A nil, nil return means the container is skipped without error.
func (p *ListingParser) parseListing(s *goquery.Selection) (*Listing, error) {
	if p.excluded(s) {
		return nil, nil
	}

	title := strings.TrimSpace(s.Find(p.profile.Title).Text())
	if title == "" {
		return nil, nil
	}

	priceText := p.priceText(s)
	if priceText == "" {
		return nil, nil
	}

	price, err := NormalizePrice(priceText)
	if err != nil {
		return nil, errors.NewPriceParse(title, priceText, err)
	}

	return &Listing{Title: title, Price: price}, nil
}

// excluded checks the profile's exclusion rule, used to drop listings
// such as auctions from the results
func (p *ListingParser) excluded(s *goquery.Selection) bool {
	if p.profile.Exclude == "" || p.profile.ExcludeText == "" {
		return false
	}
	text := strings.ToLower(s.Find(p.profile.Exclude).Text())
	return strings.Contains(text, strings.ToLower(p.profile.ExcludeText))
}

// priceText picks the first price node whose text contains a digit and
// does not carry the exclusion marker
func (p *ListingParser) priceText(s *goquery.Selection) string {
	var found string
	s.Find(p.profile.Price).EachWithBreak(func(i int, priceSel *goquery.Selection) bool {
		text := strings.TrimSpace(priceSel.Text())
		if text == "" || !strings.ContainsAny(text, "0123456789") {
			return true
		}
		if p.profile.ExcludeText != "" && strings.Contains(strings.ToLower(text), strings.ToLower(p.profile.ExcludeText)) {
			return true
		}
		found = text
		return false
	})
	return found
}

// NormalizePrice converts a marketplace price string to a decimal value,
// stripping currency symbols and US-format thousands separators.
// "$1,299.00" becomes 1299.00. Comma-as-decimal locales are rejected
// rather than guessed at.
func NormalizePrice(text string) (decimal.Decimal, error) {
	cleaned := currencyStripRegex.ReplaceAllString(text, "")

	if strings.Contains(cleaned, ",") {
		if !thousandsRegex.MatchString(cleaned) {
			return decimal.Zero, errors.NewValidation("", "ambiguous separator in price "+text)
		}
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	if cleaned == "" {
		return decimal.Zero, errors.NewValidation("", "no numeric content in price "+text)
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, err
	}
	return price, nil
}
