// Package fixture builds the persistence context shared by DAO tests:
// one database connection, a freshly built schema, every DAO and the
// teardown engine that empties the tables before each test.
package fixture

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"geostore/pkg/common/config"
	"geostore/pkg/common/database"
	"geostore/pkg/common/logger"
	"geostore/pkg/common/worker"
	"geostore/pkg/dao"
	"geostore/pkg/schema"
	"geostore/pkg/teardown"
)

// Context is the ready-to-use persistence context.
type Context struct {
	DB     *gorm.DB
	DAOs   *dao.Set
	Schema *schema.Bootstrapper
	Engine *teardown.Engine
	Config *config.Config
}

// New opens the configured database, rebuilds the schema and wires the
// DAOs. A nil cfg means config.Get(). The connection is closed again if
// any step fails.
func New(ctx context.Context, cfg *config.Config) (*Context, error) {
	if cfg == nil {
		cfg = config.Get()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := worker.Init(cfg.Workers); err != nil {
		return nil, fmt.Errorf("worker pool init failed: %w", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	bootstrapper := schema.New(db, cfg.Database.Schema)
	if err := bootstrapper.EnsureSchema(ctx); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	set := dao.NewSet(db)
	engine, err := teardown.NewEngine(teardown.GeoStorePlan(set))
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	logger.WithComponent("fixture").Info().Strs("purge_order", engine.Order()).Msg("persistence context ready")
	return &Context{DB: db, DAOs: set, Schema: bootstrapper, Engine: engine, Config: cfg}, nil
}

// RemoveAll empties every table. See teardown.Engine.RemoveAll.
func (c *Context) RemoveAll(ctx context.Context) error {
	return c.Engine.RemoveAll(ctx)
}

// Counts returns the row count of every table, join table included.
func (c *Context) Counts(ctx context.Context) (map[string]int64, error) {
	return CountTables(ctx, c.DB)
}

// CountTables counts the rows of every schema table on db without
// touching the schema. Tables are counted concurrently on the worker pool.
func CountTables(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	var (
		mu     sync.Mutex
		counts = make(map[string]int64, len(schema.Tables))
	)
	jobs := make([]worker.Job, 0, len(schema.Tables))
	for _, t := range schema.Tables {
		name := t.Name
		jobs = append(jobs, func() error {
			var n int64
			if err := db.WithContext(ctx).Table(name).Count(&n).Error; err != nil {
				return fmt.Errorf("count %s: %w", name, err)
			}
			mu.Lock()
			counts[name] = n
			mu.Unlock()
			return nil
		})
	}
	if err := worker.Run(jobs...); err != nil {
		return nil, err
	}
	return counts, nil
}

// Close releases the database connection.
func (c *Context) Close() error {
	if c.DB == nil {
		return nil
	}
	return database.Close(c.DB)
}
