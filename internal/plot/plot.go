package plot

import (
	"fmt"
	"sort"
	"strings"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"pricetrail/internal/tracker"
	"pricetrail/pkg/errors"
)

// Filter selects the history records whose keyword or title contains
// the substring, case-insensitively. It is a pure function over the
// full historical sequence and preserves input order.
func Filter(records []tracker.HistoryRecord, substr string) []tracker.HistoryRecord {
	needle := strings.ToLower(strings.TrimSpace(substr))

	var matched []tracker.HistoryRecord
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Keyword), needle) ||
			strings.Contains(strings.ToLower(r.Title), needle) {
			matched = append(matched, r)
		}
	}
	return matched
}

// Render draws a scatter of price against capture time and saves it to
// outPath (format chosen by extension, e.g. .png). Returns a no-data
// error when records is empty.
func Render(records []tracker.HistoryRecord, keyword, outPath string) error {
	if len(records) == 0 {
		return errors.NewNoData(keyword)
	}

	ordered := make([]tracker.HistoryRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CapturedAt.Before(ordered[j].CapturedAt)
	})

	pts := make(plotter.XYs, len(ordered))
	for i, r := range ordered {
		price, _ := r.Price.Float64()
		pts[i].X = float64(r.CapturedAt.Unix())
		pts[i].Y = price
	}

	p := gplot.New()
	p.Title.Text = fmt.Sprintf("Price History: %s", keyword)
	p.X.Label.Text = "Captured At"
	p.Y.Label.Text = "Price"
	p.X.Tick.Marker = gplot.TimeTicks{Format: "2006-01-02 15:04"}
	p.Add(plotter.NewGrid())

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.NewValidation(keyword, "cannot build scatter: "+err.Error())
	}
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, outPath); err != nil {
		return errors.NewConfiguration("cannot save chart to "+outPath, err)
	}
	return nil
}
