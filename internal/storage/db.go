package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/lib/pq"              // registers the "postgres" driver

	"recruit-api/internal/domain"
)

const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

type Options struct {
	// Driver is the database/sql driver name, DriverPQ or DriverPGX.
	Driver          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// PingTimeout bounds how long NewDB waits for the server to come up.
	PingTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Driver:          DriverPQ,
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 5 * time.Minute,
		PingTimeout:     30 * time.Second,
	}
}

type DB struct {
	connection *sql.DB
}

func NewDB(dataSourceName string) (*DB, error) {
	return NewDBWithOptions(dataSourceName, DefaultOptions())
}

func NewDBWithOptions(dataSourceName string, opts Options) (*DB, error) {
	if opts.Driver == "" {
		opts.Driver = DriverPQ
	}
	if opts.Driver != DriverPQ && opts.Driver != DriverPGX {
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := sql.Open(opts.Driver, dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	deadline := time.Now().Add(opts.PingTimeout)
	backoff := 500 * time.Millisecond
	for {
		err := db.Ping()
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		log.Printf("postgres not ready yet: %v", err)
		time.Sleep(backoff)
		if backoff < 5*time.Second {
			backoff *= 2
		}
	}

	return &DB{connection: db}, nil
}

func (db *DB) Close() {
	if err := db.connection.Close(); err != nil {
		log.Println("Error closing the database connection:", err)
	}
}

// GetConnection returns the underlying database connection for advanced queries
func (db *DB) GetConnection() *sql.DB {
	return db.connection
}

// InTx runs fn inside a read-committed transaction. Locks taken by the Tx
// methods are held until fn returns.
func (db *DB) InTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	sqlTx, err := db.connection.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return classify(err, "begin transaction")
	}
	if err := fn(ctx, &pgTx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			log.Printf("rollback failed: %v", rbErr)
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return classify(err, "commit transaction")
	}
	return nil
}
