package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Picoli-Igor/Dash2/internal/domain/sprint"
	"github.com/Picoli-Igor/Dash2/internal/shared/config"
	appLogger "github.com/Picoli-Igor/Dash2/internal/shared/logger"
)

const applicationName = "dash2"

// DialectorFunc builds the gorm dialector for one set of connection params.
type DialectorFunc func(params sprint.ConnectionParams) (gorm.Dialector, error)

// Opener opens a short-lived connection per fetch. Connections are never
// pooled across fetches because every fetch may target a different server.
type Opener struct {
	dialector      DialectorFunc
	connectTimeout time.Duration
	log            appLogger.Interface
}

// NewSQLServerOpener opens connections with the SQL Server driver. Driver
// warnings and errors go to log.
func NewSQLServerOpener(cfg *config.SourceConfig, log appLogger.Interface) *Opener {
	return &Opener{
		dialector: func(params sprint.ConnectionParams) (gorm.Dialector, error) {
			dsn, err := BuildDSN(params, cfg)
			if err != nil {
				return nil, err
			}
			return sqlserver.Open(dsn), nil
		},
		connectTimeout: cfg.ConnectTimeout,
		log:            log,
	}
}

// NewOpener opens connections through dialector without driver logging.
// Tests use it with SQLite.
func NewOpener(dialector DialectorFunc, connectTimeout time.Duration) *Opener {
	return &Opener{dialector: dialector, connectTimeout: connectTimeout, log: appLogger.NewNopLogger()}
}

// Open connects and pings. The caller must Close the returned handle.
func (o *Opener) Open(ctx context.Context, params sprint.ConnectionParams) (*gorm.DB, error) {
	dialector, err := o.dialector(params)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newGormLogger(o.log),
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	pingCtx := ctx
	if o.connectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, o.connectTimeout)
		defer cancel()
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close closes the connection behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// BuildDSN renders params as a sqlserver:// URL. The server may be given as
// host, host,port, host:port or host\instance, optionally followed by a port.
// "." and "(local)" name the local machine.
func BuildDSN(params sprint.ConnectionParams, cfg *config.SourceConfig) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	host, instance, port, err := splitServer(params.Server)
	if err != nil {
		return "", fmt.Errorf("%w: %v", sprint.ErrInvalidConnectionParams, err)
	}
	switch {
	case port > 0:
		host = net.JoinHostPort(host, strconv.Itoa(port))
	case strings.Contains(host, ":"):
		host = "[" + host + "]"
	}

	query := url.Values{}
	query.Set("database", params.Database)
	query.Set("app name", applicationName)
	if cfg != nil {
		if cfg.ConnectTimeout > 0 {
			seconds := strconv.Itoa(int(cfg.ConnectTimeout / time.Second))
			query.Set("dial timeout", seconds)
			query.Set("connection timeout", seconds)
		}
		if cfg.Encrypt != "" {
			query.Set("encrypt", cfg.Encrypt)
		}
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(params.Username, params.Password),
		Host:     host,
		RawQuery: query.Encode(),
	}
	if instance != "" {
		u.Path = instance
	}
	return u.String(), nil
}

// splitServer takes the port off first so that "host\instance,port" keeps
// both parts.
func splitServer(server string) (host, instance string, port int, err error) {
	host, port, err = sprint.ConnectionParams{Server: server}.HostPort()
	if err != nil {
		return "", "", 0, err
	}
	if i := strings.Index(host, `\`); i >= 0 {
		host, instance = host[:i], host[i+1:]
	}
	switch strings.ToLower(host) {
	case ".", "(local)":
		host = "localhost"
	}
	if host == "" {
		return "", "", 0, fmt.Errorf("missing host in server %q", server)
	}
	return host, instance, port, nil
}

func newGormLogger(log appLogger.Interface) logger.Interface {
	return logger.New(
		&gormWriter{log: log},
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// gormWriter routes gorm output into the application logger.
type gormWriter struct {
	log appLogger.Interface
}

func (w *gormWriter) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	switch {
	case strings.Contains(msg, "[error]") || strings.Contains(msg, "ERROR"):
		w.log.Errorw("database error", "details", msg)
	case strings.Contains(msg, "SLOW SQL") || strings.Contains(msg, "slow sql"):
		w.log.Warnw("slow query", "details", msg)
	default:
		w.log.Debugw("database query", "details", msg)
	}
}
