// Package export writes dashboard snapshots as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/shared/biztime"
)

const (
	summarySheet = "Resumo"
	maxSheetName = 31

	// ContentType is the MIME type of the workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WriteXLSX writes snapshot as a workbook: one summary sheet, then one sheet
// per chart holding its categories and a native Excel chart.
func WriteXLSX(w io.Writer, snapshot *dto.DashboardSnapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummary(f, snapshot, headerStyle); err != nil {
		return err
	}

	for _, chart := range snapshot.Charts {
		if err := writeChart(f, chart, headerStyle); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, snapshot *dto.DashboardSnapshot, headerStyle int) error {
	rows := [][]any{
		{"Sprint", snapshot.SprintName},
		{"Situação da carga", string(snapshot.Outcome)},
		{"Atualizado em", biztime.Display(snapshot.FetchedAt)},
	}
	if snapshot.Error != "" {
		rows = append(rows, []any{"Erro", snapshot.Error})
	}
	rows = append(rows, []any{})
	for _, field := range snapshot.Fields {
		rows = append(rows, []any{field.Caption, field.Value})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
		if len(row) > 0 {
			if err := f.SetCellStyle(summarySheet, cell, cell, headerStyle); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(summarySheet, "A", "B", 28)
}

func writeChart(f *excelize.File, chart dto.ChartSpec, headerStyle int) error {
	sheet := sheetName(chart)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}

	header := []any{axisTitle(chart.XAxisTitle, "Categoria"), axisTitle(chart.YAxisTitle, "Tickets"), "Tickets (códigos)"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", headerStyle); err != nil {
		return err
	}

	for i, cat := range chart.Categories {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{cat.Label, cat.Count, strings.Join(cat.Codes, ", ")}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write chart row: %w", err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "C", 24); err != nil {
		return err
	}

	// Excel cannot plot an empty range.
	if len(chart.Categories) == 0 {
		return nil
	}

	last := len(chart.Categories) + 1
	series := excelize.ChartSeries{
		Name:       fmt.Sprintf("'%s'!$B$1", sheet),
		Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, last),
		Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, last),
	}

	xlsxChart := &excelize.Chart{
		Type:      excelize.Col,
		Series:    []excelize.ChartSeries{series},
		Title:     []excelize.RichTextRun{{Text: chart.Title}},
		Legend:    excelize.ChartLegend{Position: "none"},
		PlotArea:  excelize.ChartPlotArea{ShowVal: true},
		Dimension: excelize.ChartDimension{Width: 720, Height: uint(chart.Layout.Height)},
	}
	if chart.Kind == dto.ChartKindPie {
		xlsxChart.Type = excelize.Pie
		xlsxChart.Legend = excelize.ChartLegend{Position: "right"}
		xlsxChart.PlotArea = excelize.ChartPlotArea{ShowPercent: true}
	}
	if xlsxChart.Dimension.Height == 0 {
		xlsxChart.Dimension.Height = 480
	}

	if err := f.AddChart(sheet, "E2", xlsxChart); err != nil {
		return fmt.Errorf("failed to add chart %q: %w", chart.ID, err)
	}
	return nil
}

func sheetName(chart dto.ChartSpec) string {
	name := chart.ID
	if name == "" {
		name = string(chart.Field)
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

func axisTitle(title, fallback string) string {
	if title == "" {
		return fallback
	}
	return title
}
