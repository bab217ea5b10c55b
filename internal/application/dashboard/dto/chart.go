package dto

import "github.com/Picoli-Igor/Dash2/internal/domain/sprint"

type ChartKind string

const (
	ChartKindBar ChartKind = "bar"
	ChartKindPie ChartKind = "pie"
)

// ChartDefinition describes which chart to build from a result set.
type ChartDefinition struct {
	ID         string
	Kind       ChartKind
	Field      sprint.Field
	Title      string
	XAxisTitle string
	YAxisTitle string
	Labels     map[string]string
	// ShowCodes prints the ticket codes inside the bars.
	ShowCodes bool
}

type ChartMargin struct {
	Left   int `json:"l" yaml:"l"`
	Right  int `json:"r" yaml:"r"`
	Top    int `json:"t" yaml:"t"`
	Bottom int `json:"b" yaml:"b"`
}

type ChartLayout struct {
	Height          int         `json:"height" yaml:"height"`
	Margin          ChartMargin `json:"margin" yaml:"margin"`
	BarGap          float64     `json:"bargap" yaml:"bargap"`
	XAxisTickAngle  int         `json:"xaxis_tickangle" yaml:"xaxis_tickangle"`
	UniformTextMin  int         `json:"uniformtext_minsize" yaml:"uniformtext_minsize"`
	UniformTextMode string      `json:"uniformtext_mode" yaml:"uniformtext_mode"`
	TextPosition    string      `json:"textposition,omitempty" yaml:"textposition,omitempty"`
}

// ChartCategory is one bar or pie slice.
type ChartCategory struct {
	Label    string   `json:"label" yaml:"label"`
	Count    int      `json:"count" yaml:"count"`
	Fraction float64  `json:"fraction" yaml:"fraction"`
	Codes    []string `json:"codes" yaml:"codes"`
}

// ChartSpec is a renderer-agnostic chart description. It carries data only.
type ChartSpec struct {
	ID         string            `json:"id" yaml:"id"`
	Kind       ChartKind         `json:"kind" yaml:"kind"`
	Field      sprint.Field      `json:"field" yaml:"field"`
	Title      string            `json:"title" yaml:"title"`
	XAxisTitle string            `json:"xaxis_title,omitempty" yaml:"xaxis_title,omitempty"`
	YAxisTitle string            `json:"yaxis_title,omitempty" yaml:"yaxis_title,omitempty"`
	Labels     map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	ShowCodes  bool              `json:"show_codes" yaml:"show_codes"`
	Categories []ChartCategory   `json:"categories" yaml:"categories"`
	Layout     ChartLayout       `json:"layout" yaml:"layout"`
}

// Total sums the category counts.
func (c ChartSpec) Total() int {
	total := 0
	for _, cat := range c.Categories {
		total += cat.Count
	}
	return total
}
