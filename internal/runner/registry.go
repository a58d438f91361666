// internal/runner/registry.go
package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/vxoid/cursedv/internal/config"
)

// Command is one entry of the command table.
type Command struct {
	Name        string
	Description string
	// Purpose names the operation in "--x is required for <purpose>" errors.
	Purpose  string
	Required []string
	Optional []string
	Handler  func(r *Runner, ctx context.Context) error
}

// Options returns the required options followed by the optional ones.
func (c Command) Options() []string {
	return append(append([]string(nil), c.Required...), c.Optional...)
}

var outputOptions = append([]string{"progress"}, config.FormatOptions...)

var commands []Command

func init() {
	commands = []Command{
		{
			Name:        "op",
			Description: "Scans device for open ports",
			Purpose:     "ports scan",
			Required:    []string{"tip"},
			Optional:    append([]string{"timeout", "threads"}, outputOptions...),
			Handler:     (*Runner).runPortScan,
		},
		{
			Name:        "netdevices",
			Description: "Scans network for devices using arp protocol",
			Purpose:     "network scan",
			Required:    []string{"interface", "netmask"},
			Optional: append([]string{"tip", "timeout", "threads", "wait", "backend", "pcap",
				"ouifile", "mdns", "state-file", "diff"}, outputOptions...),
			Handler: (*Runner).runNetDevices,
		},
		{
			Name:        "whohas",
			Description: "Does an arp who has request",
			Purpose:     "who has request",
			Required:    []string{"interface", "tip"},
			Optional:    []string{"timeout", "backend", "pcap"},
			Handler:     (*Runner).runWhoHas,
		},
		{
			Name:        "isat",
			Description: "Does an arp is at request",
			Purpose:     "is at request",
			Required:    []string{"interface", "tip", "tmac", "sip", "smac"},
			Optional:    []string{"backend", "pcap"},
			Handler:     (*Runner).runIsAt,
		},
		{
			Name:        "arpspoof",
			Description: "Does an arp spoofing/poisoning attack",
			Purpose:     "arp spoofing",
			Required:    []string{"interface", "tip", "sip"},
			Optional:    []string{"timeout", "tmac", "smac", "amac", "wait", "forward", "backend", "pcap"},
			Handler:     (*Runner).runSpoof,
		},
		{
			Name:        "gateway",
			Description: "Finds the default gateway and its mac address",
			Purpose:     "gateway lookup",
			Required:    []string{"interface"},
			Optional:    []string{"gip", "timeout", "backend", "pcap", "ouifile"},
			Handler:     (*Runner).runGateway,
		},
		{
			Name:        "help",
			Description: "Gives information about all commands",
			Purpose:     "help",
			Handler:     (*Runner).runHelp,
		},
	}
}

// Commands returns the command table in help order.
func Commands() []Command {
	return append([]Command(nil), commands...)
}

// Lookup finds a command by exact name.
func Lookup(name string) (Command, bool) {
	for _, c := range commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

func (r *Runner) runHelp(context.Context) error {
	fmt.Fprintln(r.env.Stdout, "COMMANDS:")
	for _, c := range commands {
		opts := make([]string, 0, len(c.Required)+len(c.Optional))
		for _, name := range c.Required {
			opts = append(opts, "--"+name)
		}
		for _, name := range c.Optional {
			opts = append(opts, "[--"+name+"]")
		}
		fmt.Fprintf(r.env.Stdout, "\t%s\t%s|\t%s\n", c.Name, c.Description, strings.Join(opts, ", "))
	}
	return nil
}
