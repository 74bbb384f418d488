// Package schema creates the GeoStore tables with explicit, ordered DDL.
//
// Tables are dropped referencing-first and created referenced-first inside
// one transaction, so the foreign keys never block the rebuild whatever
// state the previous run left behind. A Category/Resource pair is then
// written and deleted to make sure both tables accept rows before any
// test uses them.
package schema

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"geostore/pkg/common/database"
	"geostore/pkg/common/logger"
	"geostore/pkg/model"
)

const smokeTestStatement = "smoke test"

var namespacePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// BootstrapError reports the statement that stopped the schema bootstrap.
type BootstrapError struct {
	Statement string
	Err       error
}

func (e *BootstrapError) Error() string {
	if e.Statement == "" {
		return fmt.Sprintf("schema bootstrap failed: %v", e.Err)
	}
	return fmt.Sprintf("schema bootstrap failed at %q: %v", e.Statement, e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }

// Bootstrapper rebuilds the schema on one connection.
type Bootstrapper struct {
	db        *gorm.DB
	namespace string
	log       *zerolog.Logger
}

// New returns a Bootstrapper for db. namespace is the postgres schema the
// tables are built in; sqlite ignores it. The connection itself must
// resolve bare table names to the same schema (database.Open sets
// search_path) for the DAOs to see them.
func New(db *gorm.DB, namespace string) *Bootstrapper {
	if namespace == "" {
		namespace = "public"
	}
	return &Bootstrapper{db: db, namespace: namespace, log: logger.WithComponent("schema")}
}

// Statements lists, in execution order, the SQL EnsureSchema runs before
// the smoke test.
func (b *Bootstrapper) Statements() ([]string, error) {
	dialect := b.db.Dialector.Name()
	var stmts []string

	switch dialect {
	case database.Postgres:
		if !namespacePattern.MatchString(b.namespace) {
			return nil, fmt.Errorf("invalid schema name %q", b.namespace)
		}
		stmts = append(stmts,
			fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, b.namespace),
			fmt.Sprintf(`SET LOCAL search_path TO "%s"`, b.namespace),
		)
	case database.SQLite:
		// the database file itself is created on open
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	drops, err := DropOrder()
	if err != nil {
		return nil, err
	}
	for _, name := range drops {
		stmts = append(stmts, "DROP TABLE IF EXISTS "+name)
	}
	creates, err := CreateOrder()
	if err != nil {
		return nil, err
	}
	for _, name := range creates {
		stmt, err := createStatement(dialect, name)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// EnsureSchema drops and recreates every table, then checks each one is
// queryable. Nothing is committed unless every step succeeds.
func (b *Bootstrapper) EnsureSchema(ctx context.Context) error {
	stmts, err := b.Statements()
	if err != nil {
		return b.fail(&BootstrapError{Err: err})
	}

	err = b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return &BootstrapError{Statement: stmt, Err: err}
			}
		}
		if err := smokeTest(tx); err != nil {
			return &BootstrapError{Statement: smokeTestStatement, Err: err}
		}
		return nil
	})
	if err != nil {
		var be *BootstrapError
		if !errors.As(err, &be) {
			be = &BootstrapError{Statement: "commit", Err: err}
		}
		return b.fail(be)
	}

	if err := b.verify(ctx); err != nil {
		return b.fail(err)
	}
	b.log.Info().Int("tables", len(Tables)).Str("dialect", b.db.Dialector.Name()).Msg("database schema initialized")
	return nil
}

func (b *Bootstrapper) fail(err *BootstrapError) error {
	b.log.Error().Err(err.Err).Str("statement", err.Statement).Msg("failed to create database schema")
	return err
}

// smokeTest writes and removes one Category with one Resource.
func smokeTest(tx *gorm.DB) error {
	category := model.Category{Name: "bootstrap_category"}
	if err := tx.Create(&category).Error; err != nil {
		return err
	}
	resource := model.Resource{
		Name:       "bootstrap_resource",
		Creation:   time.Now(),
		Advertised: true,
		CategoryID: category.ID,
	}
	if err := tx.Create(&resource).Error; err != nil {
		return err
	}
	if err := tx.Delete(&resource).Error; err != nil {
		return err
	}
	return tx.Delete(&category).Error
}

func (b *Bootstrapper) verify(ctx context.Context) *BootstrapError {
	for _, t := range Tables {
		q := "SELECT COUNT(*) FROM " + t.Name
		var n int64
		if err := b.db.WithContext(ctx).Raw(q).Scan(&n).Error; err != nil {
			return &BootstrapError{Statement: q, Err: err}
		}
		if n != 0 {
			return &BootstrapError{Statement: q, Err: fmt.Errorf("table %s holds %d rows after rebuild", t.Name, n)}
		}
	}
	return nil
}
