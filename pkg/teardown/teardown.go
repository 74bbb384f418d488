// Package teardown empties every table before a test without tripping
// foreign keys.
//
// Each entity is declared once in a Plan together with the entities that
// must be purged before it. The Engine sorts the plan and, for every
// entity in turn, removes all rows one by one and then checks that the
// table is empty. The first failure aborts the run. Purges are not
// transactional across entities: every DAO Remove commits on its own, so
// an aborted run can leave some tables emptied and others untouched.
package teardown

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"geostore/pkg/common/graph"
	"geostore/pkg/common/logger"
	"geostore/pkg/dao"
	"geostore/pkg/model"
)

// Step purges one entity type.
type Step interface {
	Entity() string
	Purge(ctx context.Context, log *zerolog.Logger) error
}

type daoStep[E model.Entity] struct {
	entity string
	dao    dao.DAO[E]
}

// For builds the Step that purges entity through d.
func For[E model.Entity](entity string, d dao.DAO[E]) Step {
	return &daoStep[E]{entity: entity, dao: d}
}

func (s *daoStep[E]) Entity() string { return s.entity }

func (s *daoStep[E]) Purge(ctx context.Context, log *zerolog.Logger) error {
	rows, err := s.dao.FindAll(ctx)
	if err != nil {
		return &QueryError{Entity: s.entity, Op: "find", Err: err}
	}
	for i := range rows {
		id := rows[i].Key()
		log.Debug().Str("entity", s.entity).Int64("id", id).Msg("removing")
		removed, err := s.dao.Remove(ctx, &rows[i])
		if err != nil {
			return &RowError{Entity: s.entity, ID: id, Err: err}
		}
		if !removed {
			return &RowError{Entity: s.entity, ID: id, Err: ErrNotRemoved}
		}
	}
	n, err := s.dao.Count(ctx, nil)
	if err != nil {
		return &QueryError{Entity: s.entity, Op: "count", Err: err}
	}
	if n != 0 {
		return &CountError{Entity: s.entity, Remaining: n}
	}
	log.Info().Str("entity", s.entity).Int("removed", len(rows)).Msg("purged")
	return nil
}

// Plan declares purge steps and their ordering constraints.
type Plan struct {
	steps []Step
	after map[string][]string
}

func NewPlan() *Plan {
	return &Plan{after: make(map[string][]string)}
}

// Add declares s; the entities in purgedFirst are purged before it.
func (p *Plan) Add(s Step, purgedFirst ...string) *Plan {
	p.steps = append(p.steps, s)
	if len(purgedFirst) > 0 {
		p.after[s.Entity()] = append(p.after[s.Entity()], purgedFirst...)
	}
	return p
}

// Order returns the entity names in purge order.
func (p *Plan) Order() ([]string, error) {
	names := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		names = append(names, s.Entity())
	}
	return graph.Sort(names, p.after)
}

// Engine runs a validated Plan.
type Engine struct {
	steps []Step
	log   *zerolog.Logger
}

// NewEngine orders p, failing on cycles and undeclared prerequisites.
func NewEngine(p *Plan) (*Engine, error) {
	order, err := p.Order()
	if err != nil {
		return nil, fmt.Errorf("teardown plan: %w", err)
	}
	byName := make(map[string]Step, len(p.steps))
	for _, s := range p.steps {
		byName[s.Entity()] = s
	}
	steps := make([]Step, 0, len(order))
	for _, name := range order {
		steps = append(steps, byName[name])
	}
	return &Engine{steps: steps, log: logger.WithComponent("teardown")}, nil
}

// Order returns the entity names in the order RemoveAll purges them.
func (e *Engine) Order() []string {
	out := make([]string, len(e.steps))
	for i, s := range e.steps {
		out[i] = s.Entity()
	}
	return out
}

// RemoveAll purges every entity in order and stops at the first error,
// which is a *RowError, *CountError or *QueryError.
func (e *Engine) RemoveAll(ctx context.Context) error {
	for _, s := range e.steps {
		if err := e.run(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Purge runs the single step for entity. It fails like RemoveAll when
// rows of dependent entities still reference it.
func (e *Engine) Purge(ctx context.Context, entity string) error {
	for _, s := range e.steps {
		if s.Entity() == entity {
			return e.run(ctx, s)
		}
	}
	return fmt.Errorf("teardown: unknown entity %q", entity)
}

func (e *Engine) run(ctx context.Context, s Step) error {
	if err := s.Purge(ctx, e.log); err != nil {
		e.log.Error().Err(err).Str("entity", s.Entity()).Msg("teardown aborted")
		return err
	}
	return nil
}
