package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Discovery:
// - KiCad names are found for every layer
// - Fritzing names are found for every layer
// - KiCad wins when both conventions are present
// - Front copper wins over back copper
// - Missing outline and drill are optional
// - Missing copper returns ErrCopperNotFound
// - Base names with glob metacharacters are matched literally
// - A directory base matches wildcard patterns inside it
// - Related accepts layer names in the project directory only
// - Rediscover picks up a drill file added after the first discovery

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("G04*\n"), 0644))
	}
}

func TestDiscover_KiCad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "blinky-F_Cu.gbr", "blinky-Edge_Cuts.gbr", "blinky-PTH.drl", "blinky-NPTH.drl")

	files, err := Discover(filepath.Join(dir, "blinky"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "blinky-F_Cu.gbr"), files.Copper)
	assert.Equal(t, filepath.Join(dir, "blinky-Edge_Cuts.gbr"), files.Outline)
	assert.Equal(t, filepath.Join(dir, "blinky-PTH.drl"), files.Drill)
	assert.Len(t, files.Paths(), 3)
}

func TestDiscover_Fritzing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "blinky_copperTop.gtl", "blinky_contour.gm1", "blinky_drill.txt")

	files, err := Discover(filepath.Join(dir, "blinky"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "blinky_copperTop.gtl"), files.Copper)
	assert.Equal(t, filepath.Join(dir, "blinky_contour.gm1"), files.Outline)
	assert.Equal(t, filepath.Join(dir, "blinky_drill.txt"), files.Drill)
}

func TestDiscover_Priority(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "b_copperTop.gtl", "b-B_Cu.gbr", "b-F_Cu.gbr", "b_drill.txt", "b.drl")

	files, err := Discover(filepath.Join(dir, "b"))
	require.NoError(t, err)
	assert.Equal(t, "b-F_Cu.gbr", filepath.Base(files.Copper))
	assert.Equal(t, "b.drl", filepath.Base(files.Drill))
}

func TestDiscover_OptionalMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "solo-F_Cu.gbr")

	files, err := Discover(filepath.Join(dir, "solo"))
	require.NoError(t, err)
	assert.Empty(t, files.Outline)
	assert.Empty(t, files.Drill)
	assert.Equal(t, []string{filepath.Join(dir, "solo-F_Cu.gbr")}, files.Paths())
}

func TestDiscover_CopperMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "ghost-Edge_Cuts.gbr")

	_, err := Discover(filepath.Join(dir, "ghost"))
	assert.ErrorIs(t, err, ErrCopperNotFound)
}

func TestDiscover_LiteralBaseName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "amp[v2]-F_Cu.gbr", "ampv-F_Cu.gbr")

	files, err := Discover(filepath.Join(dir, "amp[v2]"))
	require.NoError(t, err)
	assert.Equal(t, "amp[v2]-F_Cu.gbr", filepath.Base(files.Copper))
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "x-F_Cu.gbr", "x-Edge_Cuts.gbr")

	files, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, "x-F_Cu.gbr", filepath.Base(files.Copper))
	assert.Equal(t, "x-Edge_Cuts.gbr", filepath.Base(files.Outline))
}

func TestFiles_Related(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "blinky-F_Cu.gbr")

	files, err := Discover(filepath.Join(dir, "blinky"))
	require.NoError(t, err)

	assert.True(t, files.Related(filepath.Join(dir, "blinky-F_Cu.gbr")))
	assert.True(t, files.Related(filepath.Join(dir, "blinky-PTH.drl")), "not yet exported drill file")
	assert.False(t, files.Related(filepath.Join(dir, "blinky.nc")))
	assert.False(t, files.Related(filepath.Join(dir, "other-F_Cu.gbr")))
	assert.False(t, files.Related(filepath.Join(dir, "sub", "blinky-F_Cu.gbr")))
}

func TestFiles_Rediscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "blinky-F_Cu.gbr")

	files, err := Discover(filepath.Join(dir, "blinky"))
	require.NoError(t, err)
	assert.Empty(t, files.Drill)

	touch(t, dir, "blinky.drl")
	again, err := files.Rediscover()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "blinky.drl"), again.Drill)
	assert.Equal(t, files.Copper, again.Copper)
}
