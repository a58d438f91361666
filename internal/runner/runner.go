// internal/runner/runner.go
package runner

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/arpchan"
	"github.com/vxoid/cursedv/internal/cli"
	"github.com/vxoid/cursedv/internal/config"
	"github.com/vxoid/cursedv/internal/errs"
	"github.com/vxoid/cursedv/internal/network"
	"github.com/vxoid/cursedv/internal/portscan"
)

var noticeColor = color.New(color.FgHiYellow).SprintFunc()

// Env holds what a command needs from the outside world. Zero fields are
// filled with the real implementations by New.
type Env struct {
	// Open replaces the ARP backend selected by --backend.
	Open    arpchan.Opener
	Dial    portscan.DialFunc
	Lookup  func(iface string) (*network.Local, error)
	Gateway func() (addr.IPv4, error)
	Stdout  io.Writer
	Stdin   io.Reader
}

// Runner executes one command with its final configuration.
type Runner struct {
	cfg *config.Config
	cmd Command
	env Env
}

// New looks up the command named by cfg and checks its options.
func New(cfg *config.Config, env Env) (*Runner, error) {
	cmd, ok := Lookup(cfg.Command())
	if !ok {
		return nil, errs.InvalidCommand("%s is not valid command", cfg.Command())
	}
	if err := cli.ValidateOptions(cfg, cmd.Purpose, cmd.Required); err != nil {
		return nil, err
	}

	if env.Lookup == nil {
		env.Lookup = network.GetInterfaceByName
	}
	if env.Gateway == nil {
		env.Gateway = network.DefaultGateway
	}
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stdin == nil {
		env.Stdin = os.Stdin
	}
	return &Runner{cfg: cfg, cmd: cmd, env: env}, nil
}

// Run executes the command. It blocks until every worker it started has
// finished and every channel it opened is closed.
func (r *Runner) Run(ctx context.Context) error {
	return r.cmd.Handler(r, ctx)
}

// notice prints a "default applied" message.
func (r *Runner) notice(format string, args ...any) {
	log.Print(noticeColor("!!! " + fmt.Sprintf(format, args...) + " !!!"))
}

func (r *Runner) verbosef(level int, format string, args ...any) {
	if r.cfg.Verbose() >= level {
		log.Printf(format, args...)
	}
}

func (r *Runner) format() string {
	f, _ := r.cfg.Format()
	return f
}

// openChannel opens the ARP channel of the command on iface. The returned
// release func closes the channel and then the capture file, if any.
func (r *Runner) openChannel(iface string) (arpchan.Channel, func(), error) {
	open := r.env.Open
	var rec *arpchan.Recorder

	if open == nil {
		opts := arpchan.Options{Backend: arpchan.BackendPcap, Verbosity: r.cfg.Verbose()}
		if b, ok := r.cfg.Backend(); ok {
			opts.Backend = arpchan.Backend(b)
		}
		if path, ok := r.cfg.PcapFile(); ok {
			var err error
			rec, err = arpchan.NewRecorder(path)
			if err != nil {
				return nil, nil, err
			}
			opts.Recorder = rec
		}
		open = arpchan.NewOpener(opts)
	}

	ch, err := open(iface)
	if err != nil {
		rec.Close()
		return nil, nil, err
	}
	r.verbosef(1, "Opened arp channel on %s (%s, %s)", iface, ch.OwnAddress(), ch.OwnMAC())

	release := func() {
		if err := ch.Close(); err != nil {
			log.Printf("Warning: closing arp channel: %v", err)
		}
		if rec != nil {
			path, _ := r.cfg.PcapFile()
			if err := rec.Close(); err != nil {
				log.Printf("Warning: closing pcap file: %v", err)
			} else {
				log.Printf("Saved %d arp frames to %s", rec.Count(), path)
			}
		}
	}
	return ch, release, nil
}

func (r *Runner) interfaceName() string {
	iface, _ := r.cfg.Interface()
	return iface
}

func (r *Runner) threads() uint64 {
	if n, ok := r.cfg.Threads(); ok {
		return n
	}
	r.notice("Since you didn't specify --threads option we will use 1 as default value")
	return 1
}
