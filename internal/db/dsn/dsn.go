// Package dsn builds database connection strings from the storage configuration.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/rokkenjima/watchface/internal/config"
)

const (
	defaultMySQLPort    = 3306
	defaultPostgresPort = 5432
)

// MySQL builds a go-sql-driver DSN, used by the gorm driver and the kv storage alike.
func MySQL(s config.Storage) string {
	port := s.Port
	if port == 0 {
		port = defaultMySQLPort
	}

	out := fmt.Sprintf("%s:%s@tcp(%s)/%s",
		s.User,
		s.Password,
		net.JoinHostPort(s.Host, strconv.Itoa(port)),
		s.Name,
	)

	if s.Extras != "" {
		out += "?" + s.Extras
	}

	return out
}

// Postgres builds a postgres:// connection URI.
func Postgres(s config.Storage) string {
	port := s.Port
	if port == 0 {
		port = defaultPostgresPort
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(s.Host, strconv.Itoa(port)),
		Path:     "/" + s.Name,
		RawQuery: s.Extras,
	}

	if s.User != "" {
		u.User = url.UserPassword(s.User, s.Password)
	}

	return u.String()
}
