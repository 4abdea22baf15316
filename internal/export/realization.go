// Package export renders the realization report (Pagu, Realisasi, Sisa per
// project) as XLSX and CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"grantledger/internal/balance"
)

// SheetName is the worksheet holding the report rows.
const SheetName = "Realization"

var headers = []string{"No", "Project", "Leader", "Pagu", "Realisasi", "Sisa", "Realization %"}

// Filename returns the attachment name for a report generated at t.
func Filename(t time.Time, ext string) string {
	return fmt.Sprintf("realization_%s.%s", t.Format("20060102"), ext)
}

// WriteXLSX writes ov as a single-sheet workbook with a totals row.
func WriteXLSX(w io.Writer, ov *balance.Overview) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	row := 2
	for i, p := range ov.Projects {
		cells := []interface{}{i + 1, p.ProjectName, p.LeaderName, p.Pagu, p.Realisasi, p.Sisa, balance.Percent(p.Realisasi, p.Pagu)}
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", row), &cells); err != nil {
			return err
		}
		row++
	}

	totals := []interface{}{"", "Total", "", ov.TotalAllocated, ov.TotalSpent, ov.Remaining, ov.RealizationPercent}
	if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", row), &totals); err != nil {
		return err
	}

	if err := f.SetCellStyle(SheetName, "A1", "G1", headerStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), headerStyle); err != nil {
		return err
	}
	if row > 2 {
		if err := f.SetCellStyle(SheetName, "D2", fmt.Sprintf("F%d", row-1), amountStyle); err != nil {
			return err
		}
	}

	widths := map[string]float64{"A": 6, "B": 40, "C": 25, "D": 16, "E": 16, "F": 16, "G": 14}
	for col, width := range widths {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// WriteCSV writes ov as comma-separated rows with a UTF-8 BOM so that
// spreadsheet programs pick the right encoding.
func WriteCSV(w io.Writer, ov *balance.Overview) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for i, p := range ov.Projects {
		record := []string{
			strconv.Itoa(i + 1),
			p.ProjectName,
			p.LeaderName,
			strconv.FormatInt(p.Pagu, 10),
			strconv.FormatInt(p.Realisasi, 10),
			strconv.FormatInt(p.Sisa, 10),
			strconv.FormatFloat(balance.Percent(p.Realisasi, p.Pagu), 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{
		"", "Total", "",
		strconv.FormatInt(ov.TotalAllocated, 10),
		strconv.FormatInt(ov.TotalSpent, 10),
		strconv.FormatInt(ov.Remaining, 10),
		strconv.FormatFloat(ov.RealizationPercent, 'f', 2, 64),
	}); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
