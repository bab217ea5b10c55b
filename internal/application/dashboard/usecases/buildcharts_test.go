package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
)

func TestBuild_EmptyResultSet(t *testing.T) {
	b := NewChartBuilder()

	for _, kind := range []dto.ChartKind{dto.ChartKindBar, dto.ChartKindPie} {
		spec := b.Build(sprint.ResultSet{}, dto.ChartDefinition{ID: "c", Kind: kind, Field: sprint.FieldStatus})
		assert.NotNil(t, spec.Categories)
		assert.Empty(t, spec.Categories)
		assert.Equal(t, 600, spec.Layout.Height)
	}
}

func TestBuild_PerUserBar(t *testing.T) {
	rs := fixtureResultSet()
	spec := NewChartBuilder().Build(rs, dto.ChartDefinition{
		ID:    "usuario-bar-chart",
		Kind:  dto.ChartKindBar,
		Field: sprint.FieldAssignedUser,
	})

	require.Len(t, spec.Categories, rs.Distinct(sprint.FieldAssignedUser))
	assert.Equal(t, rs.Len(), spec.Total())

	codes := 0
	for _, c := range spec.Categories {
		assert.Len(t, c.Codes, c.Count)
		codes += len(c.Codes)
	}
	assert.Equal(t, rs.Len(), codes)
}

func TestBuild_StatusBarLayout(t *testing.T) {
	spec := NewChartBuilder().Build(fixtureResultSet(), dto.ChartDefinition{
		ID:    "situacao-bar-chart",
		Kind:  dto.ChartKindBar,
		Field: sprint.FieldStatus,
	})

	assert.Equal(t, dto.ChartLayout{
		Height:          600,
		Margin:          dto.ChartMargin{Left: 20, Right: 20, Top: 50, Bottom: 150},
		BarGap:          0.2,
		XAxisTickAngle:  0,
		UniformTextMin:  8,
		UniformTextMode: "hide",
		TextPosition:    "inside",
	}, spec.Layout)
}

func TestBuild_PieFractions(t *testing.T) {
	spec := NewChartBuilder().Build(fixtureResultSet(), dto.ChartDefinition{
		ID:    "situacao-pie-chart",
		Kind:  dto.ChartKindPie,
		Field: sprint.FieldStatus,
	})

	require.Len(t, spec.Categories, 4)
	sum := 0.0
	for _, c := range spec.Categories {
		sum += c.Fraction
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Empty(t, spec.Layout.TextPosition)
}

func TestBuild_CollatedOrder(t *testing.T) {
	rs := sprint.ResultSet{
		{Code: "1", StatusDescription: "Testes"},
		{Code: "2", StatusDescription: "Execução"},
		{Code: "3", StatusDescription: "Em Análise"},
		{Code: "4", StatusDescription: "Ênfase"},
		{Code: "5", StatusDescription: "Concluído"},
	}

	spec := NewChartBuilder().Build(rs, dto.ChartDefinition{Kind: dto.ChartKindBar, Field: sprint.FieldStatus})

	labels := make([]string, 0, len(spec.Categories))
	for _, c := range spec.Categories {
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{"Concluído", "Em Análise", "Ênfase", "Execução", "Testes"}, labels)
}

func TestBuild_StableAcrossRuns(t *testing.T) {
	b := NewChartBuilder()
	def := dto.ChartDefinition{Kind: dto.ChartKindBar, Field: sprint.FieldResponsibleUser}

	first := b.Build(fixtureResultSet(), def)
	second := b.Build(fixtureResultSet(), def)

	assert.Equal(t, first.Categories, second.Categories)
}
