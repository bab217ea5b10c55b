// Package models maps the helpdesk tables the dashboard reads. The schema is
// owned by the helpdesk application; these models are never migrated against
// a real server.
package models

// TicketModel is the ticket table.
type TicketModel struct {
	OID                int64  `gorm:"column:OID;primaryKey"`
	CodigoTicket       string `gorm:"column:CodigoTicket;size:50"`
	Usuario            int64  `gorm:"column:Usuario"`
	UsuarioResponsavel int64  `gorm:"column:UsuarioResponsavel"`
	Sprints            int64  `gorm:"column:Sprints"`
	Situacao           int64  `gorm:"column:Situacao"`
}

func (TicketModel) TableName() string {
	return "ticket"
}

// SecuritySystemUserModel is the user table, joined once for the assigned
// user and once for the responsible user.
type SecuritySystemUserModel struct {
	Oid      int64  `gorm:"column:Oid;primaryKey"`
	UserName string `gorm:"column:UserName;size:100"`
}

func (SecuritySystemUserModel) TableName() string {
	return "SecuritySystemUser"
}

type SprintModel struct {
	OID  int64  `gorm:"column:OID;primaryKey"`
	Nome string `gorm:"column:Nome;size:100"`
}

func (SprintModel) TableName() string {
	return "Sprint"
}

// SituacaoModel is the status table. CodigoSituacao is stored as text on
// some installations, hence the cast in the query.
type SituacaoModel struct {
	OID               int64  `gorm:"column:OID;primaryKey"`
	DescricaoSituacao string `gorm:"column:DescricaoSituacao;size:100"`
	CodigoSituacao    string `gorm:"column:CodigoSituacao;size:10"`
}

func (SituacaoModel) TableName() string {
	return "Situacao"
}
