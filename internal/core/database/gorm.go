package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Opts covers the SQL drivers. Mongo has its own MongoOpts.
type Opts struct {
	Driver             string // postgres | mysql | sqlite
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
}

var logLevels = map[string]logger.LogLevel{
	"silent": logger.Silent,
	"error":  logger.Error,
	"warn":   logger.Warn,
	"info":   logger.Info,
}

// NewGorm opens, tunes and pings a SQL connection. Timestamps are written in UTC.
func NewGorm(o Opts) (*gorm.DB, error) {
	dial, err := dialector(o)
	if err != nil {
		return nil, err
	}
	lvl, ok := logLevels[o.LogLevel]
	if !ok {
		lvl = logger.Warn
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger:                 logger.Default.LogMode(lvl),
		NowFunc:                func() time.Time { return time.Now().UTC() },
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		// unique violations surface as gorm.ErrDuplicatedKey on every driver
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", o.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	switch {
	case o.Driver == "sqlite":
		// single writer, otherwise "database is locked"
		sqlDB.SetMaxOpenConns(1)
	case o.MaxOpenConns > 0:
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetimeMin > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database: ping %s: %w", o.Driver, err)
	}
	return db, nil
}

func dialector(o Opts) (gorm.Dialector, error) {
	switch o.Driver {
	case "postgres":
		return postgres.Open(o.DSN), nil
	case "mysql":
		return mysql.Open(mysqlDSN(o.DSN, o.Username, o.Password)), nil
	case "sqlite":
		return sqlite.Open(o.DSN), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, o.Driver)
}

// mysqlDSN accepts either a native go-sql-driver DSN or a mysql:// URL and returns the
// native form. Explicit user and password win over whatever the URL carries.
// parseTime is forced on so DATETIME columns scan into time.Time.
func mysqlDSN(dsn, user, pass string) string {
	in := strings.TrimSpace(dsn)
	if !strings.HasPrefix(in, "mysql://") {
		return in
	}
	u, err := url.Parse(in)
	if err != nil {
		return in
	}
	if u.User != nil {
		if user == "" {
			user = u.User.Username()
		}
		if p, ok := u.User.Password(); ok && pass == "" {
			pass = p
		}
	}
	q := u.Query()
	q.Set("parseTime", "true")
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}

	var b strings.Builder
	if user != "" {
		b.WriteString(user)
		if pass != "" {
			b.WriteString(":" + pass)
		}
		b.WriteString("@")
	}
	fmt.Fprintf(&b, "tcp(%s)/%s?%s", u.Host, strings.TrimPrefix(u.Path, "/"), q.Encode())
	return b.String()
}
