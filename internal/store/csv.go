package store

import (
	"encoding/csv"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"pricetrail/internal/tracker"
	"pricetrail/logger"
	"pricetrail/pkg/errors"
)

// header is the fixed column set of the historical store
var header = []string{"keyword", "title", "price", "captured_at"}

// CSVStore is the append-only historical store backed by a CSV file.
// The file is created with a header row on first append; existing rows
// are never rewritten.
type CSVStore struct {
	path string
}

// Ensure CSVStore implements tracker.Recorder
var _ tracker.Recorder = (*CSVStore)(nil)

// NewCSVStore creates a store for the given file path
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file path
func (s *CSVStore) Path() string {
	return s.path
}

// Append writes one row per valid record and returns how many were
// written. Records with an empty title or negative price are dropped
// before persistence.
func (s *CSVStore) Append(records []tracker.HistoryRecord) (int, error) {
	valid := records[:0:0]
	for _, r := range records {
		if r.Valid() {
			valid = append(valid, r)
		} else {
			logger.ForStore().Warn().
				Str("keyword", r.Keyword).
				Str("title", r.Title).
				Msg("dropping invalid record")
		}
	}
	if len(valid) == 0 {
		return 0, nil
	}

	_, statErr := os.Stat(s.path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, errors.NewConfiguration("cannot open history store "+s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(header); err != nil {
			return 0, errors.NewConfiguration("cannot write history header", err)
		}
	}
	for _, r := range valid {
		if err := w.Write(recordToRow(r)); err != nil {
			return 0, errors.NewConfiguration("cannot write history row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, errors.NewConfiguration("cannot flush history store", err)
	}

	return len(valid), nil
}

// ReadAll returns every history record in file order. Rows that fail to
// parse are skipped with a warning so one corrupt line cannot hide the
// rest of the history.
func (s *CSVStore) ReadAll() ([]tracker.HistoryRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.NewConfiguration("cannot open history store "+s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	// header row
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.NewConfiguration("cannot read history header", err)
	}

	var records []tracker.HistoryRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewConfiguration("cannot read history row", err)
		}

		record, err := rowToRecord(row)
		if err != nil {
			logger.ForStore().Warn().Err(err).Msg("skipping unreadable history row")
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// Export writes records to a fresh CSV file with the store header,
// replacing any existing file. Used for filtered plot exports, not for
// the historical store itself.
func Export(path string, records []tracker.HistoryRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewConfiguration("cannot create export file "+path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return errors.NewConfiguration("cannot write export header", err)
	}
	for _, r := range records {
		if err := w.Write(recordToRow(r)); err != nil {
			return errors.NewConfiguration("cannot write export row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.NewConfiguration("cannot flush export file", err)
	}
	return nil
}

func recordToRow(r tracker.HistoryRecord) []string {
	return []string{
		r.Keyword,
		r.Title,
		r.Price.String(),
		r.CapturedAt.Format(time.RFC3339),
	}
}

func rowToRecord(row []string) (tracker.HistoryRecord, error) {
	if len(row) < 4 {
		return tracker.HistoryRecord{}, errors.NewValidation("", "history row has too few columns")
	}

	price, err := decimal.NewFromString(row[2])
	if err != nil {
		return tracker.HistoryRecord{}, err
	}
	capturedAt, err := time.Parse(time.RFC3339, row[3])
	if err != nil {
		return tracker.HistoryRecord{}, err
	}

	return tracker.HistoryRecord{
		Keyword:    row[0],
		Title:      row[1],
		Price:      price,
		CapturedAt: capturedAt,
	}, nil
}
