package usecases

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
)

// DefaultChartLayout is the layout shared by every chart.
func DefaultChartLayout(kind dto.ChartKind) dto.ChartLayout {
	layout := dto.ChartLayout{
		Height:          600,
		Margin:          dto.ChartMargin{Left: 20, Right: 20, Top: 50, Bottom: 150},
		BarGap:          0.2,
		XAxisTickAngle:  0,
		UniformTextMin:  8,
		UniformTextMode: "hide",
	}
	if kind == dto.ChartKindBar {
		layout.TextPosition = "inside"
	}
	return layout
}

// ChartBuilder turns a result set into chart specs. Categories are ordered
// by pt-BR collation of their labels.
type ChartBuilder struct {
	tag language.Tag
}

func NewChartBuilder() *ChartBuilder {
	return &ChartBuilder{tag: language.BrazilianPortuguese}
}

func (b *ChartBuilder) Build(rs sprint.ResultSet, def dto.ChartDefinition) dto.ChartSpec {
	spec := dto.ChartSpec{
		ID:         def.ID,
		Kind:       def.Kind,
		Field:      def.Field,
		Title:      def.Title,
		XAxisTitle: def.XAxisTitle,
		YAxisTitle: def.YAxisTitle,
		Labels:     def.Labels,
		ShowCodes:  def.ShowCodes,
		Categories: []dto.ChartCategory{},
		Layout:     DefaultChartLayout(def.Kind),
	}
	if rs.IsEmpty() {
		return spec
	}

	index := make(map[string]int)
	for _, r := range rs {
		label := r.Value(def.Field)
		i, ok := index[label]
		if !ok {
			i = len(spec.Categories)
			index[label] = i
			spec.Categories = append(spec.Categories, dto.ChartCategory{Label: label, Codes: []string{}})
		}
		spec.Categories[i].Count++
		spec.Categories[i].Codes = append(spec.Categories[i].Codes, r.Code)
	}

	total := float64(rs.Len())
	for i := range spec.Categories {
		spec.Categories[i].Fraction = float64(spec.Categories[i].Count) / total
	}

	// collate.Collator keeps internal buffers, so one per build.
	col := collate.New(b.tag)
	slices.SortStableFunc(spec.Categories, func(a, c dto.ChartCategory) int {
		return col.CompareString(a.Label, c.Label)
	})
	return spec
}

// BuildAll builds every chart of the preset.
func (b *ChartBuilder) BuildAll(rs sprint.ResultSet, defs []dto.ChartDefinition) []dto.ChartSpec {
	charts := make([]dto.ChartSpec, 0, len(defs))
	for _, def := range defs {
		charts = append(charts, b.Build(rs, def))
	}
	return charts
}
