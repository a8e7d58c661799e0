package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"mold-tracker/internal/config"
	"mold-tracker/internal/storage"
)

const (
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

type Storage struct {
	db *sql.DB
}

func New(cfg config.Config) (*Storage, error) {
	const op = "storage.mysql.New"

	dsn := mysql.Config{
		User:                 cfg.DB.User,
		Passwd:               cfg.DB.Password,
		Net:                  "tcp",
		Addr:                 net.JoinHostPort(cfg.DB.Host, strconv.Itoa(cfg.DB.Port)),
		DBName:               cfg.DB.Name,
		ParseTime:            cfg.DB.ParseTime,
		AllowNativePasswords: true,
	}

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// NewWithDB wraps an already opened connection pool.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// conflict maps lock errors of concurrent writers to storage.ErrConflict.
func conflict(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && (mysqlErr.Number == errDeadlock || mysqlErr.Number == errLockWaitTimeout) {
		return fmt.Errorf("%w: %v", storage.ErrConflict, err)
	}
	return err
}
