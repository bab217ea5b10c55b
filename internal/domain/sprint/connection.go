package sprint

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
)

// ConnectionParams identifies the database to read from. It is built per
// call, from configuration or from the login form, and never kept globally.
type ConnectionParams struct {
	Server   string
	Database string
	Username string
	Password string
}

// Validate reports missing fields and malformed server addresses.
func (p ConnectionParams) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Server) == "" {
		missing = append(missing, "server")
	}
	if strings.TrimSpace(p.Database) == "" {
		missing = append(missing, "database")
	}
	if strings.TrimSpace(p.Username) == "" {
		missing = append(missing, "username")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConnectionParams, strings.Join(missing, ", "))
	}
	if _, _, err := p.HostPort(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionParams, err)
	}
	return nil
}

// HostPort splits Server into host and port. Both the SQL Server "host,port"
// form and "host:port" are accepted; a bare host yields port 0.
func (p ConnectionParams) HostPort() (string, int, error) {
	server := strings.TrimSpace(p.Server)
	sep := strings.LastIndex(server, ",")
	if sep < 0 {
		host, port, err := net.SplitHostPort(server)
		if err != nil {
			return server, 0, nil
		}
		server, sep = host+","+port, len(host)
	}

	host := server[:sep]
	port, err := strconv.Atoi(server[sep+1:])
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid port in server %q", p.Server)
	}
	if host == "" {
		return "", 0, fmt.Errorf("missing host in server %q", p.Server)
	}
	return host, port, nil
}

// LogValue keeps the password out of logs.
func (p ConnectionParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("server", p.Server),
		slog.String("database", p.Database),
		slog.String("username", p.Username),
	)
}

func (p ConnectionParams) String() string {
	return fmt.Sprintf("%s@%s/%s", p.Username, p.Server, p.Database)
}
