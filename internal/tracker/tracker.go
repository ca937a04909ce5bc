package tracker

import (
	"encoding/json"
	mathrand "math/rand"
	"time"

	"github.com/google/uuid"

	"pricetrail/helpers"
	"pricetrail/services/publisher"
)

// DelayFunc returns how long to wait before the next keyword fetch
type DelayFunc func() time.Duration

// FixedDelay waits the same duration between keywords
func FixedDelay(d time.Duration) DelayFunc {
	return func() time.Duration { return d }
}

// RandomDelay waits a uniformly random duration in [min, max]
func RandomDelay(min, max time.Duration) DelayFunc {
	if max <= min {
		return FixedDelay(min)
	}
	return func() time.Duration {
		return min + time.Duration(mathrand.Int63n(int64(max-min)))
	}
}

// KeywordResult is the outcome of tracking one keyword
type KeywordResult struct {
	Keyword  string
	Recorded int
	Err      error
}

// Summary aggregates the results of a tracking run
type Summary struct {
	RunID   string
	Results []KeywordResult
}

// TotalRecorded returns the number of history records written in the run
func (s Summary) TotalRecorded() int {
	total := 0
	for _, r := range s.Results {
		total += r.Recorded
	}
	return total
}

// Failed returns the number of keywords that yielded an error
func (s Summary) Failed() int {
	failed := 0
	for _, r := range s.Results {
		if r.Err != nil {
			failed++
		}
	}
	return failed
}

// notification is the payload published for each recorded history row
type notification struct {
	RunID string `json:"run_id"`
	HistoryRecord
}

// Tracker drives the fetch-parse-record pipeline once per keyword
type Tracker struct {
	fetcher  Fetcher
	parser   Parser
	recorder Recorder
	pub      publisher.Publisher
	log      helpers.LoggerInterface
	delay    DelayFunc

	now func() time.Time
}

// New creates a tracker. pub may be nil to disable notifications and
// delay may be nil to disable pacing between keywords.
func New(fetcher Fetcher, parser Parser, recorder Recorder, pub publisher.Publisher, log helpers.LoggerInterface, delay DelayFunc) *Tracker {
	if log == nil {
		log = helpers.NewRunLogger()
	}
	return &Tracker{
		fetcher:  fetcher,
		parser:   parser,
		recorder: recorder,
		pub:      pub,
		log:      log,
		delay:    delay,
		now:      time.Now,
	}
}

// Run tracks every query in order. A failing keyword contributes zero
// records and never aborts the batch; each keyword is attempted exactly
// once.
func (t *Tracker) Run(queries []ProductQuery) Summary {
	summary := Summary{
		RunID:   uuid.NewString(),
		Results: make([]KeywordResult, 0, len(queries)),
	}

	for i, q := range queries {
		if i > 0 && t.delay != nil {
			if d := t.delay(); d > 0 {
				time.Sleep(d)
			}
		}

		t.log.LogInfo("(%d/%d) tracking %q [run %s]", i+1, len(queries), q.Keyword, summary.RunID)
		result := t.trackOne(summary.RunID, q)
		if result.Err != nil {
			t.log.LogError(q.Keyword, result.Err)
		} else {
			t.log.LogInfo("recorded %d listing(s) for %q", result.Recorded, q.Keyword)
		}
		summary.Results = append(summary.Results, result)
	}

	return summary
}

// trackOne runs the pipeline for a single keyword
func (t *Tracker) trackOne(runID string, q ProductQuery) KeywordResult {
	result := KeywordResult{Keyword: q.Keyword}

	markup, err := t.fetcher.Fetch(q.Keyword)
	if err != nil {
		result.Err = err
		return result
	}

	listings, err := t.parser.Parse(markup, q.ResultLimit)
	if err != nil {
		result.Err = err
		return result
	}
	if len(listings) == 0 {
		// a keyword with no current listings is a valid outcome
		return result
	}

	capturedAt := t.now()
	records := make([]HistoryRecord, 0, len(listings))
	for _, l := range listings {
		records = append(records, HistoryRecord{
			Keyword:    q.Keyword,
			Title:      l.Title,
			Price:      l.Price,
			CapturedAt: capturedAt,
		})
	}

	recorded, err := t.recorder.Append(records)
	if err != nil {
		result.Err = err
		return result
	}
	result.Recorded = recorded

	t.notify(runID, records)
	return result
}

// notify publishes recorded rows when a publisher is configured.
// Publish failures are logged, never fatal to the keyword.
func (t *Tracker) notify(runID string, records []HistoryRecord) {
	if t.pub == nil {
		return
	}
	for _, r := range records {
		data, err := json.Marshal(notification{RunID: runID, HistoryRecord: r})
		if err != nil {
			t.log.LogError(r.Keyword, err)
			continue
		}
		if err := t.pub.Publish(r.Keyword, data); err != nil {
			t.log.LogError(r.Keyword, err)
		}
	}
}
