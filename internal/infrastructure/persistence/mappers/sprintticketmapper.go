package mappers

import (
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
	"github.com/Picoli-Igor/Dash2/internal/domain/sprint/valueobjects"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/persistence/models"
)

// SprintTicketMapper converts query rows to domain records.
type SprintTicketMapper interface {
	ToDomain(row *models.SprintTicketRow) sprint.TicketRecord

	// ToResultSet keeps row order and never returns nil.
	ToResultSet(rows []models.SprintTicketRow) sprint.ResultSet
}

// SprintTicketMapperImpl is the concrete implementation of SprintTicketMapper.
type SprintTicketMapperImpl struct{}

func NewSprintTicketMapper() SprintTicketMapper {
	return &SprintTicketMapperImpl{}
}

func (m *SprintTicketMapperImpl) ToDomain(row *models.SprintTicketRow) sprint.TicketRecord {
	return sprint.TicketRecord{
		ID:                row.TicketID,
		Code:              row.TicketCode,
		AssignedUser:      row.AssignedUser,
		ResponsibleUser:   row.ResponsibleUser,
		StatusDescription: row.StatusDescription,
		StatusCode:        valueobjects.StatusCode(row.StatusCode),
		SprintName:        row.SprintName,
	}
}

func (m *SprintTicketMapperImpl) ToResultSet(rows []models.SprintTicketRow) sprint.ResultSet {
	rs := make(sprint.ResultSet, 0, len(rows))
	for i := range rows {
		rs = append(rs, m.ToDomain(&rows[i]))
	}
	return rs
}
