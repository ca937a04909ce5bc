package tracker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPageHTML = `<html><body>
	<ul>
		<li class="s-card">
			<div class="s-card__title">Nike Air Max 90</div>
			<span class="s-card__price">$129.99</span>
		</li>
		<li class="s-card">
			<div class="s-card__title">Nike Air Max 95</div>
			<span class="s-card__price">$1,299.00</span>
		</li>
		<li class="s-card">
			<div class="su-card-container__attributes">12 bids</div>
			<div class="s-card__title">Auction Sneaker</div>
			<span class="s-card__price">$5.00</span>
		</li>
		<li class="s-card">
			<div class="s-card__title">Broken Price Sneaker</div>
			<span class="s-card__price">$10.00 to $20.00</span>
		</li>
		<li class="s-card">
			<div class="s-card__title">Nike Air Max 97</div>
			<span class="s-card__price">$89.50</span>
		</li>
		<li class="s-card">
			<div class="s-card__title">Nike Air Max Plus</div>
			<span class="s-card__price">$74.00</span>
		</li>
	</ul>
</body></html>`

func TestParseListings(t *testing.T) {
	parser := NewListingParser(DefaultProfile())

	listings, err := parser.Parse(strings.NewReader(resultsPageHTML), 10)
	require.NoError(t, err)

	// auction and range-priced listings are skipped, the rest kept in source order
	require.Len(t, listings, 4)
	assert.Equal(t, "Nike Air Max 90", listings[0].Title)
	assert.Equal(t, "129.99", listings[0].Price.String())
	assert.Equal(t, "Nike Air Max 95", listings[1].Title)
	assert.Equal(t, "1299", listings[1].Price.String())
	assert.Equal(t, "Nike Air Max 97", listings[2].Title)
	assert.Equal(t, "Nike Air Max Plus", listings[3].Title)
}

func TestParseRespectsLimit(t *testing.T) {
	parser := NewListingParser(DefaultProfile())

	for _, limit := range []int{0, 1, 2, 3, 100} {
		listings, err := parser.Parse(strings.NewReader(resultsPageHTML), limit)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(listings), limit, "limit %d exceeded", limit)
	}

	listings, err := parser.Parse(strings.NewReader(resultsPageHTML), 3)
	require.NoError(t, err)
	assert.Len(t, listings, 3)
}

func TestParseNoMatchesIsEmptyNotError(t *testing.T) {
	parser := NewListingParser(DefaultProfile())

	listings, err := parser.Parse(strings.NewReader("<html><body><p>no results</p></body></html>"), 5)
	assert.NoError(t, err)
	assert.Empty(t, listings)
}

func TestParseSkipsEmptyTitles(t *testing.T) {
	html := `<html><body>
		<li class="s-card">
			<div class="s-card__title">  </div>
			<span class="s-card__price">$10.00</span>
		</li>
		<li class="s-card">
			<div class="s-card__title">Real Item</div>
			<span class="s-card__price">$20.00</span>
		</li>
	</body></html>`

	parser := NewListingParser(DefaultProfile())
	listings, err := parser.Parse(strings.NewReader(html), 5)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Real Item", listings[0].Title)
}

func TestNormalizePrice(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"$1,299.00", "1299", false},
		{"$129.99", "129.99", false},
		{"US $24.99", "24.99", false},
		{"1,234,567.89", "1234567.89", false},
		{"$0", "0", false},
		{"£45.00", "45", false},
		{"free", "", true},
		{"", "", true},
		// comma-decimal locales are rejected, not guessed
		{"1.299,00", "", true},
		{"12,34", "", true},
	}

	for _, tc := range testCases {
		price, err := NormalizePrice(tc.input)
		if tc.wantErr {
			assert.Error(t, err, "input %q should not parse", tc.input)
			continue
		}
		assert.NoError(t, err, "input %q should parse", tc.input)
		assert.Equal(t, tc.expected, price.String(), "input %q", tc.input)
	}
}
