package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sworrl/WanderMage-sub002/internal/model"
)

var csvHeader = []string{"trip_id", "name", "status", "start", "end", "stops", "miles", "route", "notes"}

// WriteCSV writes the trip journal as a flat CSV, one row per trip. Stops
// collapse into a single route column (labels joined with " > ") since CSV
// has no second sheet to spread them over.
func WriteCSV(w io.Writer, trips []model.Trip) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}

	for _, t := range trips {
		rec := []string{
			t.ID,
			t.Name,
			string(t.Status),
			fmtDate(t.StartDate),
			fmtDate(t.EndDate),
			strconv.Itoa(len(t.Stops)),
			strconv.FormatFloat(t.Miles, 'f', -1, 64),
			routeSummary(t.Stops),
			t.Notes,
		}
		if err := cw.Write(rec); err != nil {
			return eris.Wrapf(err, "export: write csv row for trip %s", t.ID)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}

func routeSummary(stops []model.Stop) string {
	labels := make([]string, len(stops))
	for i, s := range stops {
		labels[i] = s.Label
	}
	return strings.Join(labels, " > ")
}
