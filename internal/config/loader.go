// internal/config/loader.go
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/errs"
)

// FindFile returns the configuration file to read: explicitPath when given,
// otherwise ~/.config/cursedv/config.yaml if it exists, otherwise "".
func FindFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		return explicitPath, nil
	}
	usr, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("can't get the current user's home directory: %w", err)
	}
	userConfigPath := filepath.Join(usr.HomeDir, ".config", "cursedv", "config.yaml")
	if _, err := os.Stat(userConfigPath); err == nil {
		return userConfigPath, nil
	}
	return "", nil
}

// LoadFile reads and parses path. An empty path yields an empty File.
func LoadFile(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing YAML config file %s: %w", path, err)
	}
	return &f, nil
}

// value returns the file setting for a text option, if the file has one.
func (f *File) value(name string) (string, bool) {
	if f == nil {
		return "", false
	}
	switch name {
	case "interface":
		return f.Interface, f.Interface != ""
	case "backend":
		return f.Backend, f.Backend != ""
	case "ouifile":
		return f.Files.OUIFile, f.Files.OUIFile != ""
	case "threads":
		return optionalUint(f.Threads)
	case "timeout":
		return optionalUint(f.Timeout)
	case "wait":
		return optionalUint(f.Wait)
	}
	return "", false
}

func optionalUint(v *uint64) (string, bool) {
	if v == nil {
		return "", false
	}
	return strconv.FormatUint(*v, 10), true
}

// Load builds the Config of command from the flags of cmd, falling back to
// file for options cmd accepts but the user did not set.
// Priority: flags > config file > unset.
func Load(cmd *cobra.Command, command string, file *File) (*Config, error) {
	var f Fields
	flags := cmd.Flags()

	for _, o := range options {
		if o.Kind != Text || flags.Lookup(o.Name) == nil {
			continue
		}
		text, ok := "", false
		if flags.Changed(o.Name) {
			text, _ = flags.GetString(o.Name)
			ok = true
		} else {
			text, ok = file.value(o.Name)
		}
		if !ok {
			continue
		}
		if err := f.set(o.Name, text); err != nil {
			return nil, err
		}
	}

	f.Progress = boolFlag(cmd, "progress")
	f.Diff = boolFlag(cmd, "diff")
	f.MDNS = boolFlag(cmd, "mdns")
	f.Forward = boolFlag(cmd, "forward")
	f.Verbose, _ = flags.GetCount("verbose")

	format, err := resolveFormat(cmd, file)
	if err != nil {
		return nil, err
	}
	f.Format = format

	return New(command, f), nil
}

func (f *Fields) set(name, text string) error {
	switch name {
	case "interface":
		f.Interface = &text
	case "backend":
		b := strings.ToLower(text)
		if b != "pcap" && b != "raw" {
			return errs.InvalidOption("--backend must be pcap or raw, got %q", text)
		}
		f.Backend = &b
	case "ouifile":
		f.OUIFile = &text
	case "state-file":
		f.StateFile = &text
	case "pcap":
		f.PcapFile = &text
	case "threads":
		n, err := parseUint(text)
		if err != nil {
			return err
		}
		f.Threads = &n
	case "timeout", "wait":
		n, err := parseUint(text)
		if err != nil {
			return err
		}
		d := time.Duration(n) * time.Millisecond
		if name == "timeout" {
			f.Timeout = &d
		} else {
			f.Wait = &d
		}
	case "netmask", "tip", "sip", "gip":
		ip, err := addr.ParseIPv4(text)
		if err != nil {
			return err
		}
		switch name {
		case "netmask":
			f.Netmask = &ip
		case "tip":
			f.TargetIP = &ip
		case "sip":
			f.HostIP = &ip
		default:
			f.GatewayIP = &ip
		}
	case "tmac", "smac", "amac":
		mac, err := addr.ParseMAC(text)
		if err != nil {
			return err
		}
		switch name {
		case "tmac":
			f.TargetMAC = &mac
		case "smac":
			f.HostMAC = &mac
		default:
			f.AttackerMAC = &mac
		}
	default:
		return errs.InvalidOption("There isn't --%s option", name)
	}
	return nil
}

func parseUint(text string) (uint64, error) {
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, errs.Parse("%s is not valid integer (%v)", text, err.(*strconv.NumError).Err)
	}
	return n, nil
}

func boolFlag(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Lookup(name) == nil {
		return false
	}
	v, _ := cmd.Flags().GetBool(name)
	return v
}

// resolveFormat picks the output format from the format switches, or from
// output.format in the file when no switch is set and cmd prints results.
func resolveFormat(cmd *cobra.Command, file *File) (*string, error) {
	var chosen []string
	accepts := false
	for _, name := range FormatOptions {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		accepts = true
		if boolFlag(cmd, name) {
			chosen = append(chosen, name)
		}
	}
	switch {
	case len(chosen) > 1:
		return nil, errs.InvalidOption("the format flags (--%s) are mutually exclusive", strings.Join(chosen, ", --"))
	case len(chosen) == 1:
		return &chosen[0], nil
	case !accepts || file == nil || file.Output.Format == "":
		return nil, nil
	}

	format := strings.ToLower(file.Output.Format)
	for _, name := range FormatOptions {
		if format == name {
			return &format, nil
		}
	}
	if format == "default" {
		return nil, nil
	}
	return nil, errs.InvalidOption("unknown output format %q in config file", file.Output.Format)
}

// Has reports whether the option called name was given.
func (c *Config) Has(name string) bool {
	switch name {
	case "interface":
		return c.f.Interface != nil
	case "netmask":
		return c.f.Netmask != nil
	case "threads":
		return c.f.Threads != nil
	case "timeout":
		return c.f.Timeout != nil
	case "wait":
		return c.f.Wait != nil
	case "tip":
		return c.f.TargetIP != nil
	case "sip":
		return c.f.HostIP != nil
	case "gip":
		return c.f.GatewayIP != nil
	case "tmac":
		return c.f.TargetMAC != nil
	case "smac":
		return c.f.HostMAC != nil
	case "amac":
		return c.f.AttackerMAC != nil
	case "backend":
		return c.f.Backend != nil
	case "ouifile":
		return c.f.OUIFile != nil
	case "state-file":
		return c.f.StateFile != nil
	case "pcap":
		return c.f.PcapFile != nil
	case "progress":
		return c.f.Progress
	case "diff":
		return c.f.Diff
	case "mdns":
		return c.f.MDNS
	case "forward":
		return c.f.Forward
	case "quiet", "plain", "json", "csv":
		return c.f.Format != nil && *c.f.Format == name
	}
	return false
}
