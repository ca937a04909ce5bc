package tracker

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetrail/helpers"
	"pricetrail/pkg/errors"
	"pricetrail/services/publisher"
)

// MockFetcher implements the Fetcher interface for testing
type MockFetcher struct {
	pages map[string]string
	errs  map[string]error
}

var _ Fetcher = (*MockFetcher)(nil)

func (m *MockFetcher) Fetch(keyword string) (io.Reader, error) {
	if err, ok := m.errs[keyword]; ok {
		return nil, err
	}
	return strings.NewReader(m.pages[keyword]), nil
}

// MockRecorder implements the Recorder interface for testing
type MockRecorder struct {
	records []HistoryRecord
	err     error
}

var _ Recorder = (*MockRecorder)(nil)

func (m *MockRecorder) Append(records []HistoryRecord) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.records = append(m.records, records...)
	return len(records), nil
}

// MockPublisher implements the publisher.Publisher interface for testing
type MockPublisher struct {
	messages map[string][][]byte
}

var _ publisher.Publisher = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{messages: make(map[string][][]byte)}
}

func (m *MockPublisher) Publish(key string, message []byte) error {
	messageCopy := make([]byte, len(message))
	copy(messageCopy, message)
	m.messages[key] = append(m.messages[key], messageCopy)
	return nil
}

func (m *MockPublisher) Trim() error { return nil }

func (m *MockPublisher) Close() error { return nil }

// MockLogger implements the helpers.LoggerInterface for testing
type MockLogger struct {
	errors []string
	infos  []string
}

var _ helpers.LoggerInterface = (*MockLogger)(nil)

func (m *MockLogger) LogError(keyword string, err error) {
	m.errors = append(m.errors, keyword+": "+err.Error())
}

func (m *MockLogger) LogInfo(format string, args ...interface{}) {
	m.infos = append(m.infos, fmt.Sprintf(format, args...))
}

func page(titlesAndPrices ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i+1 < len(titlesAndPrices); i += 2 {
		b.WriteString(`<li class="s-card"><div class="s-card__title">`)
		b.WriteString(titlesAndPrices[i])
		b.WriteString(`</div><span class="s-card__price">`)
		b.WriteString(titlesAndPrices[i+1])
		b.WriteString(`</span></li>`)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func TestTrackerRun(t *testing.T) {
	fetcher := &MockFetcher{
		pages: map[string]string{
			"air max": page("Nike Air Max 90", "$129.99", "Nike Air Max 95", "$149.99"),
			"dunk":    page("Nike Dunk Low", "$110.00"),
		},
	}
	recorder := &MockRecorder{}
	pub := NewMockPublisher()
	log := &MockLogger{}

	tr := New(fetcher, NewListingParser(DefaultProfile()), recorder, pub, log, nil)
	summary := tr.Run([]ProductQuery{
		{Keyword: "air max", ResultLimit: 5},
		{Keyword: "dunk", ResultLimit: 5},
	})

	assert.NotEmpty(t, summary.RunID)
	require.Len(t, summary.Results, 2)
	assert.Equal(t, 2, summary.Results[0].Recorded)
	assert.Equal(t, 1, summary.Results[1].Recorded)
	assert.Equal(t, 3, summary.TotalRecorded())
	assert.Equal(t, 0, summary.Failed())

	// every record carries the keyword and the run capture time
	require.Len(t, recorder.records, 3)
	assert.Equal(t, "air max", recorder.records[0].Keyword)
	assert.Equal(t, "Nike Air Max 90", recorder.records[0].Title)
	assert.True(t, recorder.records[0].CapturedAt.Equal(recorder.records[1].CapturedAt))
	assert.False(t, recorder.records[0].CapturedAt.IsZero())

	// recorded rows were published under their keyword
	assert.Len(t, pub.messages["air max"], 2)
	assert.Len(t, pub.messages["dunk"], 1)
	assert.Contains(t, string(pub.messages["air max"][0]), summary.RunID)
	assert.Contains(t, string(pub.messages["air max"][0]), "Nike Air Max 90")
}

func TestTrackerFailureIsolation(t *testing.T) {
	fetcher := &MockFetcher{
		pages: map[string]string{
			"good": page("Good Item", "$10.00"),
		},
		errs: map[string]error{
			"bad": errors.NewFetch("bad", "search page fetch failed", fmt.Errorf("connection refused")),
		},
	}
	recorder := &MockRecorder{}
	log := &MockLogger{}

	tr := New(fetcher, NewListingParser(DefaultProfile()), recorder, nil, log, nil)
	summary := tr.Run([]ProductQuery{
		{Keyword: "bad", ResultLimit: 3},
		{Keyword: "good", ResultLimit: 3},
	})

	// the failing keyword contributes zero rows and does not stop the run
	require.Len(t, summary.Results, 2)
	assert.Equal(t, 0, summary.Results[0].Recorded)
	assert.Error(t, summary.Results[0].Err)
	assert.Equal(t, 1, summary.Results[1].Recorded)
	assert.NoError(t, summary.Results[1].Err)
	assert.Equal(t, 1, summary.Failed())

	require.Len(t, recorder.records, 1)
	assert.Equal(t, "good", recorder.records[0].Keyword)

	require.NotEmpty(t, log.errors)
	assert.Contains(t, log.errors[0], "bad")
}

func TestTrackerEmptyResultIsNotAFailure(t *testing.T) {
	fetcher := &MockFetcher{
		pages: map[string]string{
			"obscure": "<html><body><p>nothing for sale</p></body></html>",
		},
	}
	recorder := &MockRecorder{}

	tr := New(fetcher, NewListingParser(DefaultProfile()), recorder, nil, &MockLogger{}, nil)
	summary := tr.Run([]ProductQuery{{Keyword: "obscure", ResultLimit: 3}})

	require.Len(t, summary.Results, 1)
	assert.NoError(t, summary.Results[0].Err)
	assert.Equal(t, 0, summary.Results[0].Recorded)
	assert.Empty(t, recorder.records)
}

func TestTrackerRespectsResultLimit(t *testing.T) {
	fetcher := &MockFetcher{
		pages: map[string]string{
			"air max": page(
				"Item 1", "$1.00",
				"Item 2", "$2.00",
				"Item 3", "$3.00",
				"Item 4", "$4.00",
				"Item 5", "$5.00",
			),
		},
	}
	recorder := &MockRecorder{}

	tr := New(fetcher, NewListingParser(DefaultProfile()), recorder, nil, &MockLogger{}, nil)
	summary := tr.Run([]ProductQuery{{Keyword: "air max", ResultLimit: 3}})

	assert.Equal(t, 3, summary.TotalRecorded())
	require.Len(t, recorder.records, 3)
	for _, r := range recorder.records {
		assert.True(t, r.Price.GreaterThanOrEqual(decimal.Zero))
	}
}

func TestDelayFuncs(t *testing.T) {
	fixed := FixedDelay(2)
	assert.Equal(t, int64(2), int64(fixed()))

	random := RandomDelay(10, 20)
	for i := 0; i < 50; i++ {
		d := random()
		assert.GreaterOrEqual(t, int64(d), int64(10))
		assert.Less(t, int64(d), int64(20))
	}

	// degenerate range falls back to the minimum
	assert.Equal(t, int64(5), int64(RandomDelay(5, 5)()))
}
