// Package fixtureapi exposes the fixture over HTTP so test suites outside
// this process can reset the shared database between tests.
package fixtureapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"geostore/pkg/common/logger"
	"geostore/pkg/common/worker"
	"geostore/pkg/fixture"
	"geostore/pkg/schema"
	"geostore/pkg/teardown"
)

type handler struct {
	fc *fixture.Context
}

// RegisterRoutes registers the fixture endpoints under rg.
func RegisterRoutes(rg *gin.RouterGroup, fc *fixture.Context) {
	h := &handler{fc: fc}
	rg.GET("/plan", h.plan)
	rg.GET("/counts", h.counts)
	rg.POST("/purge", h.purge)
	rg.GET("/pool", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pool": worker.StatsSnapshot()})
	})
}

func (h *handler) plan(c *gin.Context) {
	tables, err := schema.CreateOrder()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purge_order": h.fc.Engine.Order(), "create_order": tables})
}

func (h *handler) counts(c *gin.Context) {
	counts, err := h.fc.Counts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

func (h *handler) purge(c *gin.Context) {
	err := h.fc.RemoveAll(c.Request.Context())
	if err == nil {
		logger.WithComponent("api").Info().Msg("database purged")
		c.JSON(http.StatusOK, gin.H{"purged": true})
		return
	}

	var (
		rowErr   *teardown.RowError
		countErr *teardown.CountError
	)
	switch {
	case errors.As(err, &rowErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "entity": rowErr.Entity, "id": rowErr.ID})
	case errors.As(err, &countErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "entity": countErr.Entity, "remaining": countErr.Remaining})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
