// internal/cli/validator.go
package cli

import (
	"github.com/vxoid/cursedv/internal/config"
	"github.com/vxoid/cursedv/internal/errs"
)

// ValidateOptions checks that every required option of a command was given
// and that the given options can be combined. purpose names the command in
// error messages (e.g. "ports scan").
func ValidateOptions(cfg *config.Config, purpose string, required []string) error {
	for _, name := range required {
		if !cfg.Has(name) {
			return errs.NotEnough("--%s is required for %s", name, purpose)
		}
	}

	if cfg.Diff() {
		if _, ok := cfg.StateFile(); !ok {
			return errs.NotEnough("--diff requires a state file given with --state-file")
		}
		if _, ok := cfg.Format(); ok {
			return errs.InvalidOption("--diff can't be combined with the output format flags (--json, --csv, ...)")
		}
	}

	if _, ok := cfg.TargetIP(); ok && cfg.Command() == "arpspoof" {
		tip, _ := cfg.TargetIP()
		sip, _ := cfg.HostIP()
		if tip == sip {
			return errs.InvalidOption("--tip and --sip must be different hosts (%s)", tip)
		}
	}
	return nil
}
