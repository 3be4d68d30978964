package cli

// Test Plan for Mill Command:
// - mill writes a G-code program for a KiCad board with trace, edge and drill sections
// - mill writes a decodable PNG preview when requested
// - mill with a missing copper layer returns ErrFatalInput and ErrCopperNotFound
// - mill with a cancelled context reports cancellation
// - loadConfig applies only explicitly set flags over the config file
// - loadConfig rejects invalid flag combinations
// - defaultOutput names the program after the project
// - version prints the build information

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvp-joe/gerber2nc/internal/config"
	"github.com/mvp-joe/gerber2nc/internal/converter"
	"github.com/mvp-joe/gerber2nc/internal/project"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boardsDir = "../../testdata/boards"

// copyBoard copies a fixture board into a temp dir so outputs land beside it.
func copyBoard(t *testing.T, flavour string) string {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(boardsDir, flavour)
	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), data, 0644))
	}
	return dir
}

func testOptions(dir string) millOptions {
	cfg := config.Default()
	cfg.Toolpath.Resolution = 0.04
	return millOptions{
		Project: filepath.Join(dir, "blinky"),
		Output:  filepath.Join(dir, "blinky.nc"),
		Quiet:   true,
		Config:  cfg,
	}
}

func TestMill_KiCad(t *testing.T) {
	t.Parallel()

	dir := copyBoard(t, "kicad")
	opts := testOptions(dir)

	require.NoError(t, mill(context.Background(), opts))

	data, err := os.ReadFile(opts.Output)
	require.NoError(t, err)
	program := string(data)

	assert.True(t, strings.HasPrefix(program, "%\n(job "))
	assert.Contains(t, program, "G21  ; Set units to mm")
	assert.Contains(t, program, "(Mill edge cut mark)")
	// 0.8 mm is under the 0.85 mm threshold, 1.0 mm is over it.
	assert.Contains(t, program, "T2 M06")
	assert.Contains(t, program, "T3 M06")
	assert.Contains(t, program, "G0 X0 Y15.4 Z50  ; Return home")
	assert.True(t, strings.HasSuffix(program, "M30  ; End of program\n%\n"))
}

func TestMill_Preview(t *testing.T) {
	t.Parallel()

	dir := copyBoard(t, "fritzing")
	opts := testOptions(dir)
	opts.Preview = filepath.Join(dir, "blinky.png")
	opts.Config.Output.PreviewScale = 10

	require.NoError(t, mill(context.Background(), opts))

	f, err := os.Open(opts.Preview)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	// 13.1 x 5.48 mm at 10 px/mm, rounded up.
	assert.InDelta(t, 131, img.Bounds().Dx(), 1)
	assert.InDelta(t, 55, img.Bounds().Dy(), 1)
}

func TestMill_MissingCopper(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := mill(context.Background(), testOptions(dir))
	require.Error(t, err)
	assert.ErrorIs(t, err, converter.ErrFatalInput)
	assert.ErrorIs(t, err, project.ErrCopperNotFound)
}

func TestMill_Cancelled(t *testing.T) {
	t.Parallel()

	dir := copyBoard(t, "kicad")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mill(ctx, testOptions(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
	assert.NoFileExists(t, filepath.Join(dir, "blinky.nc"))
}

// newFlagCommand returns a command carrying the mill flags without running it.
func newFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "mill"}
	cmd.Flags().AddFlagSet(millCmd.Flags())
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func resetFlag(f *pflag.Flag) {
	_ = f.Value.Set(f.DefValue)
	f.Changed = false
}

// The flag tests share package-level flag variables, so they are not parallel.
func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName+".yaml"), []byte(`
toolpath:
  offset: 0.3
  passes: 5
milling:
  feed_rate: 300
`), 0644))

	cmd := newFlagCommand(t, "--passes", "2", "--cut-depth", "-0.05")
	t.Cleanup(func() { millCmd.Flags().VisitAll(resetFlag) })

	cfg, err := loadConfig(cmd, filepath.Join(dir, "blinky"))
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.Toolpath.Offset, "unset flag keeps file value")
	assert.Equal(t, 2, cfg.Toolpath.Passes)
	assert.Equal(t, -0.05, cfg.Milling.CutDepth)
	assert.Equal(t, 300, cfg.Milling.FeedRate)
}

func TestLoadConfig_InvalidFlags(t *testing.T) {
	cmd := newFlagCommand(t, "--passes", "3", "--spacing", "0")
	t.Cleanup(func() { millCmd.Flags().VisitAll(resetFlag) })

	_, err := loadConfig(cmd, filepath.Join(t.TempDir(), "blinky"))
	assert.ErrorIs(t, err, config.ErrInvalidToolpath)
}

func TestDefaultOutput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "blinky.nc", defaultOutput("boards/blinky"))
	assert.Equal(t, "boards.nc", defaultOutput("boards/"))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, out.String(), "gerber2nc "+Version)
	assert.Contains(t, out.String(), "Git commit: ")
}
