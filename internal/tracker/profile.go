package tracker

import (
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"pricetrail/pkg/errors"
)

// Profile describes how to find listings on one marketplace's
// search-results page. All layout-specific selectors live here, so a
// layout change is absorbed by swapping or editing a profile.
type Profile struct {
	Name string `yaml:"name"`

	// SearchURL is the results-page URL with a {query} placeholder
	SearchURL string `yaml:"search_url"`

	// Listing selects one result container node
	Listing string `yaml:"listing"`
	// Title and Price select within a container
	Title string `yaml:"title"`
	Price string `yaml:"price"`

	// Exclude selects a node within a container whose text is checked
	// against ExcludeText; matching containers are skipped entirely
	Exclude     string `yaml:"exclude"`
	ExcludeText string `yaml:"exclude_text"`
}

// DefaultProfile returns the built-in profile for eBay search results
func DefaultProfile() Profile {
	return Profile{
		Name:        "ebay",
		SearchURL:   "https://www.ebay.com/sch/i.html?_nkw={query}&_sop=15",
		Listing:     "li.s-card",
		Title:       "div.s-card__title",
		Price:       "span.s-card__price",
		Exclude:     "div.su-card-container__attributes",
		ExcludeText: "bid",
	}
}

// LoadProfile reads a selector profile from a YAML file, falling back
// to the built-in default when path is empty
func LoadProfile(path string) (Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, errors.NewConfiguration("cannot read selector profile", err)
	}

	profile := DefaultProfile()
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Profile{}, errors.NewConfiguration("cannot parse selector profile", err)
	}

	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// Validate checks that the profile can drive a fetch and a parse
func (p Profile) Validate() error {
	if p.SearchURL == "" || !strings.Contains(p.SearchURL, "{query}") {
		return errors.NewConfiguration("profile search_url must contain a {query} placeholder", nil)
	}
	if p.Listing == "" {
		return errors.NewConfiguration("profile listing selector is required", nil)
	}
	if p.Title == "" {
		return errors.NewConfiguration("profile title selector is required", nil)
	}
	if p.Price == "" {
		return errors.NewConfiguration("profile price selector is required", nil)
	}
	return nil
}
