// cmd/cursedv/root.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vxoid/cursedv/internal/config"
	"github.com/vxoid/cursedv/internal/errs"
	"github.com/vxoid/cursedv/internal/runner"
)

func init() {
	// Keep the registry order in the help output.
	cobra.EnableCommandSorting = false
}

// newRootCmd builds the command tree. env is handed to every runner, so tests
// can swap the ARP backend, the dialer and stdio.
func newRootCmd(env runner.Env) *cobra.Command {
	var (
		configPath string
		colorMode  string
		file       *config.File
	)

	root := &cobra.Command{
		Use:   "cursedv <command> [options]",
		Short: "cursedv is a small LAN toolkit: port scan, ARP sweep, who-has/is-at and ARP spoofing.",
		Long: `Runs one command against the local network.

Options can also be set in a YAML file (~/.config/cursedv/config.yaml or --config).
Priority is: flags > config file > defaults.

Every ARP command needs raw socket privileges.`,
		Example: `  cursedv op --tip 192.168.1.10 -t 8
  sudo cursedv netdevices -i eth0 --netmask 255.255.255.0 -t 4 --mdns
  sudo cursedv whohas -i eth0 --tip 192.168.1.1 --timeout 500
  sudo cursedv arpspoof -i eth0 --tip 192.168.1.10 --sip 192.168.1.1 --forward
  cursedv help`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.FindFile(configPath)
			if err != nil {
				return err
			}
			if file, err = config.LoadFile(path); err != nil {
				return err
			}

			mode := colorMode
			if !cmd.Flags().Changed("color") && file.Color != "" {
				mode = file.Color
			}
			return applyColorMode(mode)
		},

		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errs.NotEnough("a command is required, try help")
			}
			return errs.InvalidCommand("%s is not valid command", args[0])
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to the YAML config file (default ~/.config/cursedv/config.yaml).")
	pf.StringVar(&colorMode, "color", "auto", "Color output: auto, on or off.")
	pf.CountP("verbose", "v", "Verbose output, repeat for more (-v, -vv).")
	pf.Bool("stats", false, "Print memory allocation totals when the program ends.")
	root.SetFlagErrorFunc(flagError)

	for _, c := range runner.Commands() {
		sub := &cobra.Command{
			Use:   c.Name,
			Short: c.Description,
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := config.Load(cmd, cmd.Name(), file)
				if err != nil {
					return err
				}
				r, err := runner.New(cfg, env)
				if err != nil {
					return err
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				// A second signal kills the process the usual way.
				go func() {
					<-ctx.Done()
					stop()
				}()
				return r.Run(ctx)
			},
		}
		config.Register(sub, c.Options()...)

		if c.Name == "help" {
			root.SetHelpCommand(sub)
			continue
		}
		root.AddCommand(sub)
	}
	return root
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errs.InvalidOption("%s does not take positional arguments (got %s)", cmd.Name(), args[0])
	}
	return nil
}

// flagError maps pflag errors onto the tool's error kinds.
func flagError(_ *cobra.Command, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "needs an argument"):
		return errs.NotEnough("%s", msg)
	case strings.HasPrefix(msg, "unknown flag: "):
		return errs.InvalidOption("There isn't %s option", strings.TrimPrefix(msg, "unknown flag: "))
	case strings.HasPrefix(msg, "unknown shorthand flag: "):
		return errs.InvalidOption("There isn't %s option", strings.TrimPrefix(msg, "unknown shorthand flag: "))
	default:
		return errs.InvalidOption("%s", msg)
	}
}

func applyColorMode(mode string) error {
	switch mode {
	case "off":
		color.NoColor = true
	case "on":
		color.NoColor = false
	case "auto":
		fd := os.Stdout.Fd()
		color.NoColor = os.Getenv("NO_COLOR") != "" || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	default:
		return errs.InvalidOption("%s is not valid color mode, use auto, on or off", mode)
	}
	return nil
}

// Execute runs the command line and reports whether --stats was set.
func Execute(root *cobra.Command, args []string) (stats bool, err error) {
	root.SetArgs(args)
	err = root.Execute()
	stats, _ = root.PersistentFlags().GetBool("stats")
	return stats, err
}

func colorize(err error) string {
	return color.New(color.FgHiRed).Sprint(fmt.Sprint(err))
}
