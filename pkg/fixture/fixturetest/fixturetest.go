// Package fixturetest adapts the fixture to the testing package: Setup
// fails the test instead of returning errors.
package fixturetest

import (
	"context"
	"testing"

	"geostore/pkg/common/config"
	"geostore/pkg/common/logger"
	"geostore/pkg/fixture"
)

// Setup returns the shared context with every table emptied. Bootstrap and
// teardown failures are fatal to the calling test; the test body never
// runs against a dirty database.
func Setup(tb testing.TB, cfg *config.Config) *fixture.Context {
	tb.Helper()
	log := logger.WithComponent("fixturetest")
	log.Info().Msgf("################ Running %s", tb.Name())

	c, err := fixture.Shared(context.Background(), cfg)
	if err != nil {
		tb.Fatalf("fixture bootstrap failed: %v", err)
	}
	if err := c.RemoveAll(context.Background()); err != nil {
		tb.Fatalf("fixture teardown failed: %v", err)
	}
	log.Info().Msgf("##### Ending setup for %s ###----------------------", tb.Name())
	return c
}

// CheckDAOs fails the test if any DAO is missing from c.
func CheckDAOs(tb testing.TB, c *fixture.Context) {
	tb.Helper()
	if missing := c.DAOs.Missing(); len(missing) > 0 {
		tb.Fatalf("DAOs not wired: %v", missing)
	}
}
