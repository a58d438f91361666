// internal/runner/mode_ports.go
package runner

import (
	"context"
	"log"

	"github.com/vxoid/cursedv/internal/formatter"
	"github.com/vxoid/cursedv/internal/portscan"
)

// runPortScan implements "op".
func (r *Runner) runPortScan(ctx context.Context) error {
	target, _ := r.cfg.TargetIP()
	threads := r.threads()

	if !formatter.IsScripting(r.format()) {
		if timeout, ok := r.cfg.Timeout(); ok {
			log.Printf("Scanning ports 1-%d of %s with %d threads (timeout %s)", portscan.MaxPort, target, threads, timeout)
		} else {
			log.Printf("Scanning ports 1-%d of %s with %d threads", portscan.MaxPort, target, threads)
		}
	}

	prog := r.newProgress(portscan.MaxPort, "ports")
	scanner := &portscan.Scanner{
		Dial: r.env.Dial,
		OnProbe: func(port uint16, open bool) {
			prog.step()
			if open {
				prog.hit()
				r.verbosef(1, "Port %d is open", port)
			}
		},
	}

	ports, err := scanner.Scan(ctx, target, r.cfg.TimeoutPtr(), threads)
	prog.finish()
	if err != nil {
		return err
	}

	formatter.New(r.format(), r.env.Stdout).PrintPorts(target, ports)
	return nil
}
