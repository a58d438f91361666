package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/arpchan/arptest"
	"github.com/vxoid/cursedv/internal/errs"
	"github.com/vxoid/cursedv/internal/runner"
)

// execute runs args against an empty config file so the user's own file is
// never read.
func execute(t *testing.T, env runner.Env, args ...string) (string, error) {
	t.Helper()
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, nil, 0o644))

	out := &bytes.Buffer{}
	env.Stdout = out
	flags := []string{"--config=" + cfgFile, "--color=off"}
	_, err := Execute(newRootCmd(env), append(flags, args...))
	return out.String(), err
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, runner.Env{}, "scan")
	require.ErrorIs(t, err, errs.ErrInvalidCommand)
	assert.EqualError(t, err, "invalid command: scan is not valid command")
}

func TestMissingCommand(t *testing.T) {
	_, err := execute(t, runner.Env{})
	assert.ErrorIs(t, err, errs.ErrNotEnough)
}

func TestUnknownOption(t *testing.T) {
	_, err := execute(t, runner.Env{}, "op", "--tip", "10.0.0.1", "--netmask", "255.0.0.0")
	require.ErrorIs(t, err, errs.ErrInvalidOption)
	assert.Contains(t, err.Error(), "There isn't --netmask option")
}

func TestOptionWithoutValue(t *testing.T) {
	_, err := execute(t, runner.Env{}, "op", "--tip")
	assert.ErrorIs(t, err, errs.ErrNotEnough)
}

func TestMissingRequiredOption(t *testing.T) {
	_, err := execute(t, runner.Env{}, "op", "-t", "4")
	require.ErrorIs(t, err, errs.ErrNotEnough)
	assert.EqualError(t, err, "not enough: --tip is required for ports scan")
}

func TestBadOptionValue(t *testing.T) {
	_, err := execute(t, runner.Env{}, "op", "--tip", "10.0.0.300")
	assert.ErrorIs(t, err, errs.ErrParse)
}

func TestPositionalArgumentsRejected(t *testing.T) {
	_, err := execute(t, runner.Env{}, "whohas", "10.0.0.1")
	assert.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestHelpCommand(t *testing.T) {
	out, err := execute(t, runner.Env{}, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "COMMANDS:\n\top\tScans device for open ports|\t--tip")
}

func TestWhoHasThroughCLI(t *testing.T) {
	fake := arptest.New(addr.MustParseIPv4("10.0.0.2"), addr.MustParseMAC("02:00:00:00:00:02"))
	fake.AddHost(addr.MustParseIPv4("10.0.0.1"), addr.MustParseMAC("bb:bb:bb:bb:bb:01"))

	out, err := execute(t, runner.Env{Open: fake.Opener()}, "whohas", "-i", "eth0", "--tip", "10.0.0.1", "--timeout", "100", "-vv")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1\tbb:bb:bb:bb:bb:01\n", out)
}

func TestColorMode(t *testing.T) {
	defer func(old bool) { color.NoColor = old }(color.NoColor)

	require.NoError(t, applyColorMode("on"))
	assert.False(t, color.NoColor)
	require.NoError(t, applyColorMode("off"))
	assert.True(t, color.NoColor)
	assert.ErrorIs(t, applyColorMode("rainbow"), errs.ErrInvalidOption)
}

func TestColorFromConfigFile(t *testing.T) {
	defer func(old bool) { color.NoColor = old }(color.NoColor)

	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("color: sometimes\n"), 0o644))

	_, err := Execute(newRootCmd(runner.Env{Stdout: &bytes.Buffer{}}), []string{"--config=" + cfgFile, "help"})
	assert.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestStatsFlag(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, nil, 0o644))

	stats, err := Execute(newRootCmd(runner.Env{Stdout: &bytes.Buffer{}}), []string{"--config=" + cfgFile, "--stats", "help"})
	require.NoError(t, err)
	assert.True(t, stats)
}

func TestPrintMemStats(t *testing.T) {
	var buf bytes.Buffer
	printMemStats(&buf, func(m *runtime.MemStats) {
		m.TotalAlloc, m.Mallocs, m.Frees, m.HeapAlloc = 4096, 10, 4, 1024
	})
	assert.Equal(t, "Allocated 4096 bytes in 10 allocations (4 frees), 1024 bytes in use\n", buf.String())
}

func TestSpoofRejectsSameHosts(t *testing.T) {
	_, err := execute(t, runner.Env{}, "arpspoof", "-i", "eth0", "--tip", "10.0.0.1", "--sip", "10.0.0.1")
	assert.ErrorIs(t, err, errs.ErrInvalidOption)
}
