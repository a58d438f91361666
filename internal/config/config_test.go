package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/errs"
)

func newCommand(t *testing.T, args []string, names ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().CountP("verbose", "v", "")
	Register(cmd, names...)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadParsesFlags(t *testing.T) {
	cmd := newCommand(t, []string{
		"-i", "eth0", "--netmask", "255.255.255.0", "--threads", "8",
		"--timeout", "250", "--wait", "1000", "--tip", "192.168.1.1",
		"--tmac", "AA:bb:cc:dd:ee:ff", "--mdns", "-vv",
	}, "interface", "netmask", "threads", "timeout", "wait", "tip", "tmac", "mdns")

	cfg, err := Load(cmd, "netdevices", nil)
	require.NoError(t, err)

	assert.Equal(t, "netdevices", cfg.Command())
	iface, ok := cfg.Interface()
	assert.True(t, ok)
	assert.Equal(t, "eth0", iface)
	mask, _ := cfg.Netmask()
	assert.Equal(t, addr.MustParseIPv4("255.255.255.0"), mask)
	threads, _ := cfg.Threads()
	assert.Equal(t, uint64(8), threads)
	timeout, _ := cfg.Timeout()
	assert.Equal(t, 250*time.Millisecond, timeout)
	wait, _ := cfg.Wait()
	assert.Equal(t, time.Second, wait)
	tip, _ := cfg.TargetIP()
	assert.Equal(t, addr.MustParseIPv4("192.168.1.1"), tip)
	tmac, _ := cfg.TargetMAC()
	assert.Equal(t, addr.MustParseMAC("aa:bb:cc:dd:ee:ff"), tmac)
	assert.True(t, cfg.MDNS())
	assert.Equal(t, 2, cfg.Verbose())

	_, ok = cfg.HostIP()
	assert.False(t, ok)
	assert.Nil(t, cfg.HostMACPtr())
}

func TestLoadFlagsBeatFile(t *testing.T) {
	file, err := LoadFile(writeFile(t, "interface: wlan0\nthreads: 4\ntimeout: 500\nbackend: raw\n"))
	require.NoError(t, err)

	cmd := newCommand(t, []string{"--threads", "16"}, "interface", "threads", "timeout")
	cfg, err := Load(cmd, "netdevices", file)
	require.NoError(t, err)

	threads, _ := cfg.Threads()
	assert.Equal(t, uint64(16), threads)
	iface, _ := cfg.Interface()
	assert.Equal(t, "wlan0", iface)
	timeout, _ := cfg.Timeout()
	assert.Equal(t, 500*time.Millisecond, timeout)

	// backend is not an option of this command
	_, ok := cfg.Backend()
	assert.False(t, ok)
}

func TestLoadParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"threads", []string{"--threads", "many"}},
		{"negative threads", []string{"--threads", "-1"}},
		{"tip", []string{"--tip", "10.0.0"}},
		{"tmac", []string{"--tmac", "zz:00:00:00:00:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newCommand(t, tt.args, "threads", "tip", "tmac")
			_, err := Load(cmd, "op", nil)
			assert.ErrorIs(t, err, errs.ErrParse)
		})
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	cmd := newCommand(t, []string{"--backend", "bpf"}, "backend")
	_, err := Load(cmd, "whohas", nil)
	assert.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestLoadFormat(t *testing.T) {
	cmd := newCommand(t, []string{"--json"}, FormatOptions...)
	cfg, err := Load(cmd, "op", nil)
	require.NoError(t, err)
	format, ok := cfg.Format()
	assert.True(t, ok)
	assert.Equal(t, "json", format)
	assert.True(t, cfg.Has("json"))
	assert.False(t, cfg.Has("csv"))

	cmd = newCommand(t, []string{"--json", "--csv"}, FormatOptions...)
	_, err = Load(cmd, "op", nil)
	assert.ErrorIs(t, err, errs.ErrInvalidOption)

	file, err := LoadFile(writeFile(t, "output:\n  format: CSV\n"))
	require.NoError(t, err)
	cmd = newCommand(t, nil, FormatOptions...)
	cfg, err = Load(cmd, "op", file)
	require.NoError(t, err)
	format, _ = cfg.Format()
	assert.Equal(t, "csv", format)

	file.Output.Format = "xml"
	_, err = Load(cmd, "op", file)
	assert.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestLoadFileErrors(t *testing.T) {
	f, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, &File{}, f)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, "threads: [1, 2\n"))
	assert.Error(t, err)
}

func TestFindFileExplicit(t *testing.T) {
	path, err := FindFile("/etc/cursedv.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/cursedv.yaml", path)
}

func TestNewCopiesFields(t *testing.T) {
	threads := uint64(4)
	mac := addr.MustParseMAC("aa:bb:cc:dd:ee:ff")
	f := Fields{Threads: &threads, TargetMAC: &mac}
	cfg := New("op", f)

	threads = 99
	mac[0] = 0
	got, _ := cfg.Threads()
	assert.Equal(t, uint64(4), got)

	ptr := cfg.TargetMACPtr()
	require.NotNil(t, ptr)
	ptr[1] = 0
	again, _ := cfg.TargetMAC()
	assert.Equal(t, addr.MustParseMAC("aa:bb:cc:dd:ee:ff"), again)
}

func TestRegisterSkipsUnknown(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	Register(cmd, "tip", "nope", "json")
	assert.NotNil(t, cmd.Flags().Lookup("tip"))
	assert.NotNil(t, cmd.Flags().Lookup("json"))
	assert.Nil(t, cmd.Flags().Lookup("nope"))
}
