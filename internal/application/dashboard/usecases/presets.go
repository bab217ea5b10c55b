package usecases

import (
	"fmt"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint/valueobjects"
)

const (
	LayoutBasic   = "basic"
	LayoutSummary = "summary"
	LayoutSprint  = "sprint"
)

type fieldSource int

const (
	sourceTotal fieldSource = iota
	sourceDistinctUsers
	sourceDistinctResponsibles
	sourceDistinctStatuses
	sourceBucket
)

// FieldDefinition binds a summary box to one value of SummaryCounts.
type FieldDefinition struct {
	ID        string
	Caption   string
	source    fieldSource
	bucketKey string
}

// Preset is one of the dashboard variants: which summary boxes and charts
// are shown and whether tickets are grouped into status buckets.
type Preset struct {
	Name       string
	Fields     []FieldDefinition
	Charts     []dto.ChartDefinition
	UseBuckets bool
}

var (
	totalField = FieldDefinition{ID: "total-tickets", Caption: "Total de Tickets", source: sourceTotal}

	countLabels = map[string]string{"count": "Nº Tickets"}
)

// LookupPreset returns the named preset. For the sprint preset one summary
// box is added per bucket, in bucket order.
func LookupPreset(name string, buckets *valueobjects.BucketSet) (Preset, error) {
	switch name {
	case LayoutBasic:
		return Preset{
			Name:   LayoutBasic,
			Fields: []FieldDefinition{},
			Charts: []dto.ChartDefinition{
				countBar("situacao-bar-chart", sprint.FieldStatus, "Contagem de Tickets por Situação"),
				countBar("usuario-bar-chart", sprint.FieldAssignedUser, "Contagem de Tickets por Usuário"),
				countBar("responsavel-bar-chart", sprint.FieldResponsibleUser, "Contagem de Tickets por Responsável"),
			},
		}, nil
	case LayoutSummary:
		return Preset{
			Name: LayoutSummary,
			Fields: []FieldDefinition{
				totalField,
				{ID: "total-users", Caption: "Total de Usuários", source: sourceDistinctUsers},
				{ID: "total-responsaveis", Caption: "Total de Responsáveis", source: sourceDistinctResponsibles},
				{ID: "total-situacoes", Caption: "Total de Situações", source: sourceDistinctStatuses},
			},
			Charts: []dto.ChartDefinition{
				{
					ID:    "situacao-pie-chart",
					Kind:  dto.ChartKindPie,
					Field: sprint.FieldStatus,
					Title: "Proporção de Tickets por Situação",
				},
				countBar("usuario-bar-chart", sprint.FieldAssignedUser, "Contagem de Tickets por Usuário"),
				countBar("responsavel-bar-chart", sprint.FieldResponsibleUser, "Contagem de Tickets por Responsável"),
			},
		}, nil
	case LayoutSprint:
		if buckets == nil {
			buckets = valueobjects.DefaultBucketSet()
		}
		fields := []FieldDefinition{totalField}
		for _, b := range buckets.Buckets() {
			fields = append(fields, FieldDefinition{
				ID:        "total-" + b.Key(),
				Caption:   b.Label(),
				source:    sourceBucket,
				bucketKey: b.Key(),
			})
		}
		return Preset{
			Name:       LayoutSprint,
			Fields:     fields,
			UseBuckets: true,
			Charts: []dto.ChartDefinition{
				{
					ID:         "situacao-bar-chart",
					Kind:       dto.ChartKindBar,
					Field:      sprint.FieldStatus,
					Title:      "Tickets por Situação",
					XAxisTitle: "Situação",
					YAxisTitle: "Número de Tickets",
					Labels:     map[string]string{"status": "Situação", "count": "Nº de Tickets"},
					ShowCodes:  true,
				},
				{
					ID:         "usuario-bar-chart",
					Kind:       dto.ChartKindBar,
					Field:      sprint.FieldAssignedUser,
					Title:      "Tickets por Usuário",
					XAxisTitle: "Usuário",
					YAxisTitle: "Número de Tickets",
					Labels:     map[string]string{"code": "Número do Ticket", "count": "Nº Tickets"},
					ShowCodes:  true,
				},
				{
					ID:         "responsavel-bar-chart",
					Kind:       dto.ChartKindBar,
					Field:      sprint.FieldResponsibleUser,
					Title:      "Tickets por Responsável",
					XAxisTitle: "Usuário Responsável",
					YAxisTitle: "Número de Tickets",
					Labels: map[string]string{
						"code":             "Número do Ticket",
						"responsible_user": "Usuário Responsável",
						"count":            "Nº Tickets",
					},
					ShowCodes: true,
				},
			},
		}, nil
	}
	return Preset{}, fmt.Errorf("unknown dashboard layout %q", name)
}

func countBar(id string, field sprint.Field, title string) dto.ChartDefinition {
	return dto.ChartDefinition{
		ID:     id,
		Kind:   dto.ChartKindBar,
		Field:  field,
		Title:  title,
		Labels: countLabels,
	}
}

func (f FieldDefinition) value(s dto.SummaryCounts) int {
	switch f.source {
	case sourceTotal:
		return s.Total
	case sourceDistinctUsers:
		return s.DistinctUsers
	case sourceDistinctResponsibles:
		return s.DistinctResponsibles
	case sourceDistinctStatuses:
		return s.DistinctStatuses
	case sourceBucket:
		b, _ := s.Bucket(f.bucketKey)
		return b.Count
	}
	return 0
}

// RenderFields formats the preset's summary boxes from s.
func (p Preset) RenderFields(s dto.SummaryCounts) []dto.SummaryField {
	fields := make([]dto.SummaryField, 0, len(p.Fields))
	for _, f := range p.Fields {
		fields = append(fields, dto.SummaryField{ID: f.ID, Caption: f.Caption, Value: fmt.Sprintf("%d", f.value(s))})
	}
	return fields
}

// FillFields gives every summary box the same value. Used for the blank
// and error states of the login form.
func (p Preset) FillFields(value string) []dto.SummaryField {
	fields := make([]dto.SummaryField, 0, len(p.Fields))
	for _, f := range p.Fields {
		fields = append(fields, dto.SummaryField{ID: f.ID, Caption: f.Caption, Value: value})
	}
	return fields
}

// BlankCharts returns one empty chart per definition.
func (p Preset) BlankCharts() []dto.ChartSpec {
	charts := make([]dto.ChartSpec, 0, len(p.Charts))
	for _, def := range p.Charts {
		charts = append(charts, dto.ChartSpec{
			ID:         def.ID,
			Kind:       def.Kind,
			Field:      def.Field,
			Categories: []dto.ChartCategory{},
		})
	}
	return charts
}
