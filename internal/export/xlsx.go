package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sworrl/WanderMage-sub002/internal/model"
)

// WriteXLSX writes the trip journal as a two-sheet workbook: Trips with one
// row per trip, Stops with one row per stop. Miles, counts, and coordinates
// are written as numeric cells so spreadsheet formulas work on them.
func WriteXLSX(w io.Writer, trips []model.Trip) error {
	f := xlsx.NewFile()

	tripSheet, err := f.AddSheet("Trips")
	if err != nil {
		return eris.Wrap(err, "export: add trips sheet")
	}
	stopSheet, err := f.AddSheet("Stops")
	if err != nil {
		return eris.Wrap(err, "export: add stops sheet")
	}

	headerRow(tripSheet, "Trip ID", "Name", "Status", "Start", "End", "Stops", "Miles", "Notes")
	headerRow(stopSheet, "Trip ID", "Trip Name", "Order", "Label", "State", "Latitude", "Longitude", "Nights")

	for _, t := range trips {
		row := tripSheet.AddRow()
		row.AddCell().SetString(t.ID)
		row.AddCell().SetString(t.Name)
		row.AddCell().SetString(string(t.Status))
		row.AddCell().SetString(fmtDate(t.StartDate))
		row.AddCell().SetString(fmtDate(t.EndDate))
		row.AddCell().SetInt(len(t.Stops))
		row.AddCell().SetFloat(t.Miles)
		row.AddCell().SetString(t.Notes)

		for _, s := range t.Stops {
			sr := stopSheet.AddRow()
			sr.AddCell().SetString(t.ID)
			sr.AddCell().SetString(t.Name)
			sr.AddCell().SetInt(s.Order)
			sr.AddCell().SetString(s.Label)
			sr.AddCell().SetString(s.State)
			sr.AddCell().SetFloat(s.Latitude)
			sr.AddCell().SetFloat(s.Longitude)
			sr.AddCell().SetInt(s.Nights)
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

func headerRow(sheet *xlsx.Sheet, cols ...string) {
	row := sheet.AddRow()
	for _, c := range cols {
		row.AddCell().SetString(c)
	}
}
