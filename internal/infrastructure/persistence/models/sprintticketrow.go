package models

// SprintTicketRow is one row of the sprint ticket query.
type SprintTicketRow struct {
	TicketID          int64  `gorm:"column:ticket_id"`
	TicketCode        string `gorm:"column:ticket_code"`
	AssignedUser      string `gorm:"column:assigned_user"`
	ResponsibleUser   string `gorm:"column:responsible_user"`
	StatusDescription string `gorm:"column:status_description"`
	StatusCode        int    `gorm:"column:status_code"`
	SprintName        string `gorm:"column:sprint_name"`
}
