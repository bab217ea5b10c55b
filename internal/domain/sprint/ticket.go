// Package sprint holds the ticket rows of one sprint as read from the
// helpdesk database, and the contract of the source that reads them.
package sprint

import "github.com/Picoli-Igor/Dash2/internal/domain/sprint/valueobjects"

// TicketRecord is one row of the sprint query. Assigned and responsible
// users and the status are always present because the query inner-joins them.
type TicketRecord struct {
	ID                int64
	Code              string
	AssignedUser      string
	ResponsibleUser   string
	StatusDescription string
	StatusCode        valueobjects.StatusCode
	SprintName        string
}

// Field selects one categorical column of a TicketRecord.
type Field string

const (
	FieldStatus          Field = "status"
	FieldAssignedUser    Field = "assigned_user"
	FieldResponsibleUser Field = "responsible_user"
)

func (f Field) IsValid() bool {
	switch f {
	case FieldStatus, FieldAssignedUser, FieldResponsibleUser:
		return true
	}
	return false
}

// Value returns the column selected by f, or "" for an unknown field.
func (r TicketRecord) Value(f Field) string {
	switch f {
	case FieldStatus:
		return r.StatusDescription
	case FieldAssignedUser:
		return r.AssignedUser
	case FieldResponsibleUser:
		return r.ResponsibleUser
	}
	return ""
}
