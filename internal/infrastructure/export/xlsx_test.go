package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
)

func exportSnapshot() *dto.DashboardSnapshot {
	return &dto.DashboardSnapshot{
		Layout:     "sprint",
		SprintName: "Sprint 187",
		Outcome:    dto.OutcomeReady,
		Fields: []dto.SummaryField{
			{ID: "total-tickets", Caption: "Total de Tickets", Value: "3"},
			{ID: "total-completed", Caption: "Total de Concluídos", Value: "2"},
		},
		Charts: []dto.ChartSpec{
			{
				ID:         "situacao-bar-chart",
				Kind:       dto.ChartKindBar,
				Title:      "Tickets por Situação",
				XAxisTitle: "Situação",
				YAxisTitle: "Número de Tickets",
				Categories: []dto.ChartCategory{
					{Label: "Concluído", Count: 2, Codes: []string{"TK-1", "TK-3"}},
					{Label: "Em Execução", Count: 1, Codes: []string{"TK-2"}},
				},
				Layout: dto.ChartLayout{Height: 600},
			},
			{
				ID:         "situacao-pie-chart",
				Kind:       dto.ChartKindPie,
				Title:      "Proporção de Tickets por Situação",
				Categories: []dto.ChartCategory{},
			},
		},
		FetchedAt: time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC),
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, exportSnapshot()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Resumo", "situacao-bar-chart", "situacao-pie-chart"}, f.GetSheetList())

	summary, err := f.GetRows("Resumo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sprint", "Sprint 187"}, summary[0])
	assert.Equal(t, []string{"Total de Tickets", "3"}, summary[4])

	bars, err := f.GetRows("situacao-bar-chart")
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, []string{"Situação", "Número de Tickets", "Tickets (códigos)"}, bars[0])
	assert.Equal(t, []string{"Concluído", "2", "TK-1, TK-3"}, bars[1])

	pie, err := f.GetRows("situacao-pie-chart")
	require.NoError(t, err)
	assert.Len(t, pie, 1)
}

func TestSheetName_Truncates(t *testing.T) {
	name := sheetName(dto.ChartSpec{ID: "a-very-long-chart-identifier-that-overflows"})
	assert.Len(t, name, 31)
}
