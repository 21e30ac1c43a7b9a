// Package performance turns uploaded GPX tracks into recent-performance
// entries for an athlete profile. Athletes record a session on a watch or
// phone, upload the file, and get distance and duration metrics appended
// to their time series without typing anything in.
package performance

import (
	"time"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/sportexhq/sportex/internal/model"
)

// Metric keys written by the importer. They are part of the documented
// stats vocabulary so list filters can target them.
const (
	MetricDistanceKM  = "distance_km"
	MetricDurationMin = "duration_min"
)

// ImportGPX parses raw GPX bytes and derives performance entries from the
// first recorded track. A file with no track points yields no entries and
// no error; a file that doesn't parse is the caller's problem to report.
func ImportGPX(data []byte) ([]model.PerformanceEntry, error) {
	gpxData, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, err
	}

	if len(gpxData.Tracks) == 0 {
		return nil, nil
	}

	var (
		distanceMeters float64
		first, last    time.Time
	)
	for _, track := range gpxData.Tracks {
		distanceMeters += track.Length2D()
		for _, segment := range track.Segments {
			for _, point := range segment.Points {
				if point.Timestamp.IsZero() {
					continue
				}
				if first.IsZero() || point.Timestamp.Before(first) {
					first = point.Timestamp
				}
				if point.Timestamp.After(last) {
					last = point.Timestamp
				}
			}
		}
	}

	if distanceMeters == 0 && first.IsZero() {
		return nil, nil
	}

	// Sessions are dated by their first recorded point; an untimed track
	// falls back to the upload day.
	day := first
	if day.IsZero() {
		day = time.Now().UTC()
	}
	date := day.UTC().Format("2006-01-02")

	entries := []model.PerformanceEntry{
		{Date: date, Metric: MetricDistanceKM, Value: round1(distanceMeters / 1000)},
	}
	if !first.IsZero() && last.After(first) {
		entries = append(entries, model.PerformanceEntry{
			Date:   date,
			Metric: MetricDurationMin,
			Value:  round1(last.Sub(first).Minutes()),
		})
	}
	return entries, nil
}

// round1 rounds to one decimal place, matching how stats are displayed.
func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
