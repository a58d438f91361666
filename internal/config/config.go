// internal/config/config.go
package config

import (
	"time"

	"github.com/vxoid/cursedv/internal/addr"
)

// File maps the YAML configuration file (config.yaml).
type File struct {
	Interface string       `yaml:"interface"`
	Backend   string       `yaml:"backend"`
	Threads   *uint64      `yaml:"threads"`
	Timeout   *uint64      `yaml:"timeout"`
	Wait      *uint64      `yaml:"wait"`
	Color     string       `yaml:"color"`
	Output    OutputConfig `yaml:"output"`
	Files     FilePaths    `yaml:"files"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
}

type FilePaths struct {
	OUIFile string `yaml:"ouifile"`
}

// Fields holds the parsed options of one invocation. Nil pointers are
// options that were not given anywhere.
type Fields struct {
	Interface *string
	Netmask   *addr.IPv4
	Threads   *uint64
	Timeout   *time.Duration
	Wait      *time.Duration

	TargetIP  *addr.IPv4
	HostIP    *addr.IPv4
	GatewayIP *addr.IPv4

	TargetMAC   *addr.MAC
	HostMAC     *addr.MAC
	AttackerMAC *addr.MAC

	Backend   *string
	Format    *string
	OUIFile   *string
	StateFile *string
	PcapFile  *string

	Progress bool
	Diff     bool
	MDNS     bool
	Forward  bool
	Verbose  int
}

// Config is the final, read-only view of the options of one command run.
// It is built once by New and never changed afterwards.
type Config struct {
	command string
	f       Fields
}

// New copies f so later changes by the caller do not leak into the Config.
func New(command string, f Fields) *Config {
	return &Config{command: command, f: Fields{
		Interface:   clone(f.Interface),
		Netmask:     clone(f.Netmask),
		Threads:     clone(f.Threads),
		Timeout:     clone(f.Timeout),
		Wait:        clone(f.Wait),
		TargetIP:    clone(f.TargetIP),
		HostIP:      clone(f.HostIP),
		GatewayIP:   clone(f.GatewayIP),
		TargetMAC:   clone(f.TargetMAC),
		HostMAC:     clone(f.HostMAC),
		AttackerMAC: clone(f.AttackerMAC),
		Backend:     clone(f.Backend),
		Format:      clone(f.Format),
		OUIFile:     clone(f.OUIFile),
		StateFile:   clone(f.StateFile),
		PcapFile:    clone(f.PcapFile),
		Progress:    f.Progress,
		Diff:        f.Diff,
		MDNS:        f.MDNS,
		Forward:     f.Forward,
		Verbose:     f.Verbose,
	}}
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func get[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

func (c *Config) Command() string { return c.command }

func (c *Config) Interface() (string, bool)      { return get(c.f.Interface) }
func (c *Config) Netmask() (addr.IPv4, bool)     { return get(c.f.Netmask) }
func (c *Config) Threads() (uint64, bool)        { return get(c.f.Threads) }
func (c *Config) Timeout() (time.Duration, bool) { return get(c.f.Timeout) }
func (c *Config) Wait() (time.Duration, bool)    { return get(c.f.Wait) }
func (c *Config) TargetIP() (addr.IPv4, bool)    { return get(c.f.TargetIP) }
func (c *Config) HostIP() (addr.IPv4, bool)      { return get(c.f.HostIP) }
func (c *Config) GatewayIP() (addr.IPv4, bool)   { return get(c.f.GatewayIP) }
func (c *Config) TargetMAC() (addr.MAC, bool)    { return get(c.f.TargetMAC) }
func (c *Config) HostMAC() (addr.MAC, bool)      { return get(c.f.HostMAC) }
func (c *Config) AttackerMAC() (addr.MAC, bool)  { return get(c.f.AttackerMAC) }
func (c *Config) Backend() (string, bool)        { return get(c.f.Backend) }
func (c *Config) Format() (string, bool)         { return get(c.f.Format) }
func (c *Config) OUIFile() (string, bool)        { return get(c.f.OUIFile) }
func (c *Config) StateFile() (string, bool)      { return get(c.f.StateFile) }
func (c *Config) PcapFile() (string, bool)       { return get(c.f.PcapFile) }
func (c *Config) Progress() bool                 { return c.f.Progress }
func (c *Config) Diff() bool                     { return c.f.Diff }
func (c *Config) MDNS() bool                     { return c.f.MDNS }
func (c *Config) Forward() bool                  { return c.f.Forward }
func (c *Config) Verbose() int                   { return c.f.Verbose }

// TimeoutPtr returns the timeout in the optional form the core packages take.
func (c *Config) TimeoutPtr() *time.Duration { return clone(c.f.Timeout) }

// TargetMACPtr, HostMACPtr and AttackerMACPtr likewise return copies or nil.
func (c *Config) TargetMACPtr() *addr.MAC   { return clone(c.f.TargetMAC) }
func (c *Config) HostMACPtr() *addr.MAC     { return clone(c.f.HostMAC) }
func (c *Config) AttackerMACPtr() *addr.MAC { return clone(c.f.AttackerMAC) }
