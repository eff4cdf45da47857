package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/swimtrend/internal/model"
)

// SheetName is the worksheet holding the derived table.
const SheetName = "swims"

func writeXLSX(w io.Writer, rows []model.TrajectoryRow) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := xlsxRecord(r)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// xlsxRecord keeps finite numbers numeric. Spreadsheets have no inf or NaN,
// so those cells hold their text form.
func xlsxRecord(r model.TrajectoryRow) []any {
	var days any
	if r.TimeDiffDays != nil {
		days = *r.TimeDiffDays
	}
	return []any{
		xlsxNumber(r.Time),
		model.FormatDate(r.Date),
		xlsxNumber(r.CurrentBest),
		days,
		xlsxNumber(r.TimeFromBest),
		xlsxNumber(r.PercentImprovement),
		xlsxNumber(r.ScaledPercentImprovement),
		xlsxNumber(r.AbsDev),
		xlsxNumber(r.ModifiedZScore),
	}
}

func xlsxNumber(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return model.FormatFloat(v)
	}
	return v
}
