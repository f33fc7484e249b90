package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/yigit/egresados/internal/importer"
)

// ReportSheet is the sheet name of the unresolved rows report
const ReportSheet = "No resueltos"

// ReportHeaders are the fixed column headers of the unresolved rows report
var ReportHeaders = []string{"Fila", "Nombre", "Email", "Motivo", "Plan", "Vía de ingreso", "Año de ingreso", "Cohorte"}

// WriteUnresolvedReport writes rows as an xlsx workbook to w
func WriteUnresolvedReport(w io.Writer, rows []importer.UnresolvedRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ReportSheet); err != nil {
		return fmt.Errorf("failed to name report sheet: %w", err)
	}

	header := make([]interface{}, len(ReportHeaders))
	for i, h := range ReportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(ReportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(ReportHeaders))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ReportSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style report header: %w", err)
	}
	if err := f.SetColWidth(ReportSheet, "B", "D", 36); err != nil {
		return fmt.Errorf("failed to size report columns: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.Row, r.Name, r.Email, r.Reason, r.PlanText, r.AdmissionChannel, r.AdmissionYear, r.CohortYear,
		}
		if err := f.SetSheetRow(ReportSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write report row %d: %w", r.Row, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write report workbook: %w", err)
	}
	return nil
}
