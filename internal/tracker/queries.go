package tracker

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"pricetrail/pkg/errors"
)

// queryColumns are the accepted header names for the keyword column
var queryColumns = []string{"keyword", "product"}

// LoadQueries reads product queries from a CSV file. The header must
// contain a "keyword" or "product" column; other columns are ignored.
// Each query is given the provided per-keyword result limit.
func LoadQueries(path string, resultLimit int) ([]ProductQuery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewConfiguration("cannot open input file "+path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewConfiguration("cannot read input header", err)
	}

	col := -1
	for i, name := range header {
		for _, accepted := range queryColumns {
			if strings.EqualFold(strings.TrimSpace(name), accepted) {
				col = i
				break
			}
		}
		if col >= 0 {
			break
		}
	}
	if col < 0 {
		return nil, errors.NewConfiguration(`input file must contain a "keyword" or "product" column`, nil)
	}

	var queries []ProductQuery
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewConfiguration("cannot read input row", err)
		}
		if col >= len(row) {
			continue
		}
		keyword := strings.TrimSpace(row[col])
		if keyword == "" {
			continue
		}
		queries = append(queries, ProductQuery{Keyword: keyword, ResultLimit: resultLimit})
	}

	return queries, nil
}
