package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geostore/pkg/common/config"
	"geostore/pkg/common/fs"
	"geostore/pkg/fixture"
	"geostore/pkg/model"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", t.TempDir()}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPlanPrintsOrdersWithoutTouchingDatabase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GEOSTORE_DATABASE_DIR", dir)

	out, err := runCmd(t, "plan")
	require.NoError(t, err)

	var plan map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, "gs_category", plan["create_order"][0])
	assert.Equal(t, "category", plan["purge_order"][len(plan["purge_order"])-1])

	fsys, err := fs.New(dir)
	require.NoError(t, err)
	exists, err := fsys.DatabaseExists("geostore.db")
	require.NoError(t, err)
	assert.False(t, exists, "plan must not create the database")
}

func seedCategory(t *testing.T, dir string) {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Dir = dir
	fc, err := fixture.New(context.Background(), cfg)
	require.NoError(t, err)
	defer fc.Close()
	require.NoError(t, fc.DAOs.Categories.Persist(context.Background(), &model.Category{Name: "kept"}))
}

func countLines(t *testing.T, out string) map[string]string {
	t.Helper()
	counts := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		require.Len(t, fields, 2, line)
		counts[fields[0]] = fields[1]
	}
	return counts
}

func TestCountsReportsExistingRows(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GEOSTORE_DATABASE_DIR", dir)
	seedCategory(t, dir)

	out, err := runCmd(t, "counts")
	require.NoError(t, err)
	counts := countLines(t, out)
	assert.Len(t, counts, 9)
	assert.Equal(t, "1", counts["gs_category"])
	assert.Equal(t, "0", counts["gs_resource"])

	// counts is read-only: a second run still sees the row
	out, err = runCmd(t, "counts")
	require.NoError(t, err)
	assert.Equal(t, "1", countLines(t, out)["gs_category"])
}

func TestResetThenCountsThenClean(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GEOSTORE_DATABASE_DIR", dir)
	seedCategory(t, dir)

	out, err := runCmd(t, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "database reset")

	out, err = runCmd(t, "counts")
	require.NoError(t, err)
	for name, n := range countLines(t, out) {
		assert.Equal(t, "0", n, name)
	}

	out, err = runCmd(t, "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "removed "+filepath.Join(dir, ".runtime", "geostore.db"))

	out, err = runCmd(t, "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to remove")
}

func TestCleanRejectsPostgres(t *testing.T) {
	t.Setenv("GEOSTORE_DATABASE_DRIVER", "postgres")
	t.Setenv("GEOSTORE_DATABASE_DSN", "host=localhost")

	_, err := runCmd(t, "clean")
	assert.Error(t, err)
}
