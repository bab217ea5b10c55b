package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"gorm.io/gorm"

	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/database"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/persistence/mappers"
	"github.com/Picoli-Igor/Dash2/internal/infrastructure/persistence/models"
	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
)

// sprintTicketQuery selects every ticket of one sprint with its assigned
// user, responsible user and status. Inner joins drop tickets missing any
// of them.
const sprintTicketQuery = `
SELECT ticket.OID AS ticket_id,
       ticket.CodigoTicket AS ticket_code,
       usuario.UserName AS assigned_user,
       usuarioresponsavel.UserName AS responsible_user,
       Situacao.DescricaoSituacao AS status_description,
       CAST(Situacao.CodigoSituacao AS INT) AS status_code,
       sprint.Nome AS sprint_name
FROM ticket
INNER JOIN SecuritySystemUser AS usuario ON usuario.Oid = ticket.Usuario
INNER JOIN SecuritySystemUser AS usuarioresponsavel ON usuarioresponsavel.Oid = ticket.UsuarioResponsavel
INNER JOIN Sprint AS sprint ON sprint.OID = ticket.Sprints
INNER JOIN Situacao ON Situacao.OID = ticket.Situacao
WHERE sprint.OID = ?
ORDER BY ticket.OID`

// accessDeniedNumbers are the SQL Server errors for a refused login or a
// database the login may not open.
var accessDeniedNumbers = map[int32]bool{
	4060:  true,
	18452: true,
	18456: true,
	18470: true,
	18486: true,
	18487: true,
	18488: true,
}

// isAccessDenied recognises refused logins. Some driver versions flatten
// the server error into text, hence the message check.
func isAccessDenied(err error) bool {
	var sqlErr mssql.Error
	if errors.As(err, &sqlErr) {
		return accessDeniedNumbers[sqlErr.Number]
	}
	return strings.Contains(err.Error(), "Login failed for user")
}

// Connector opens a connection for one fetch.
type Connector interface {
	Open(ctx context.Context, params sprint.ConnectionParams) (*gorm.DB, error)
}

type SprintTicketRepositoryImpl struct {
	connector Connector
	mapper    mappers.SprintTicketMapper
	logger    logger.Interface
}

func NewSprintTicketRepository(connector Connector, logger logger.Interface) sprint.TicketSource {
	return &SprintTicketRepositoryImpl{
		connector: connector,
		mapper:    mappers.NewSprintTicketMapper(),
		logger:    logger,
	}
}

// FetchSprintTickets opens a connection, runs the sprint query and closes
// the connection on every path.
func (r *SprintTicketRepositoryImpl) FetchSprintTickets(ctx context.Context, params sprint.ConnectionParams, sprintID int) (sprint.ResultSet, error) {
	db, err := r.connector.Open(ctx, params)
	if err != nil {
		if errors.Is(err, sprint.ErrInvalidConnectionParams) {
			return nil, err
		}
		if isAccessDenied(err) {
			return nil, fmt.Errorf("%w: %w: %s: %w", sprint.ErrSourceUnavailable, sprint.ErrAccessDenied, params.String(), err)
		}
		return nil, fmt.Errorf("%w: failed to connect to %s: %w", sprint.ErrSourceUnavailable, params.String(), err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			r.logger.Warnw("failed to close source connection",
				"params", params,
				"error", err,
			)
		}
	}()

	var rows []models.SprintTicketRow
	if err := db.WithContext(ctx).Raw(sprintTicketQuery, sprintID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to query sprint %d: %w", sprint.ErrSourceUnavailable, sprintID, err)
	}

	r.logger.Debugw("sprint tickets fetched",
		"sprint_id", sprintID,
		"rows", len(rows),
	)
	return r.mapper.ToResultSet(rows), nil
}
