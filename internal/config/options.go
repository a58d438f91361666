// internal/config/options.go
package config

import (
	"github.com/spf13/cobra"
)

// Kind tells how an option is given on the command line.
type Kind int

const (
	// Text options take one value that is parsed later.
	Text Kind = iota
	// Switch options take no value.
	Switch
)

// Option describes one command line option. Commands pick the options they
// accept by name.
type Option struct {
	Name  string
	Short string
	Usage string
	Kind  Kind
}

var options = []Option{
	{Name: "interface", Short: "i", Usage: "Network interface to use (e.g. eth0)", Kind: Text},
	{Name: "netmask", Usage: "Subnet mask to sweep (e.g. 255.255.255.0)", Kind: Text},
	{Name: "threads", Short: "t", Usage: "Number of worker threads", Kind: Text},
	{Name: "timeout", Usage: "Per-read or per-connect timeout in milliseconds", Kind: Text},
	{Name: "wait", Usage: "Pause in milliseconds (grace period after a sweep, delay between spoof rounds)", Kind: Text},
	{Name: "tip", Usage: "Target IPv4 address", Kind: Text},
	{Name: "sip", Usage: "Source/host IPv4 address", Kind: Text},
	{Name: "gip", Usage: "Gateway IPv4 address (skips discovery)", Kind: Text},
	{Name: "tmac", Usage: "Target MAC address", Kind: Text},
	{Name: "smac", Usage: "Source/host MAC address", Kind: Text},
	{Name: "amac", Usage: "Attacker MAC address announced in forged replies", Kind: Text},
	{Name: "backend", Usage: "ARP backend: pcap or raw", Kind: Text},
	{Name: "ouifile", Short: "O", Usage: "IEEE OUI file used to print vendors", Kind: Text},
	{Name: "state-file", Usage: "Save the device list to a JSON state file", Kind: Text},
	{Name: "pcap", Short: "W", Usage: "Write received ARP frames to a pcap file", Kind: Text},
	{Name: "quiet", Short: "q", Usage: "Minimal output", Kind: Switch},
	{Name: "plain", Short: "x", Usage: "Plain output without header and footer", Kind: Switch},
	{Name: "json", Usage: "JSON output", Kind: Switch},
	{Name: "csv", Usage: "CSV output", Kind: Switch},
	{Name: "progress", Usage: "Show a progress bar instead of dots", Kind: Switch},
	{Name: "diff", Usage: "Compare the sweep with --state-file and print the differences", Kind: Switch},
	{Name: "mdns", Usage: "Ask discovered devices for their mDNS hostname", Kind: Switch},
	{Name: "forward", Usage: "Enable kernel IP forwarding while spoofing", Kind: Switch},
}

// FormatOptions are mutually exclusive switches selecting the output format.
var FormatOptions = []string{"quiet", "plain", "json", "csv"}

// LookupOption returns the option called name.
func LookupOption(name string) (Option, bool) {
	for _, o := range options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// Register adds the named options as local flags of cmd. Unknown names are
// skipped.
func Register(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		o, ok := LookupOption(name)
		if !ok {
			continue
		}
		switch o.Kind {
		case Switch:
			cmd.Flags().BoolP(o.Name, o.Short, false, o.Usage)
		default:
			cmd.Flags().StringP(o.Name, o.Short, "", o.Usage)
		}
	}
}
