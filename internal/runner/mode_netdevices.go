// internal/runner/mode_netdevices.go
package runner

import (
	"context"
	"log"
	"time"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/formatter"
	"github.com/vxoid/cursedv/internal/mdns"
	"github.com/vxoid/cursedv/internal/oui"
	"github.com/vxoid/cursedv/internal/sweep"
)

const (
	defaultSweepTimeout = 250 * time.Millisecond
	mdnsTimeout         = 2 * time.Second
)

// runNetDevices implements "netdevices".
func (r *Runner) runNetDevices(ctx context.Context) error {
	iface := r.interfaceName()
	mask, _ := r.cfg.Netmask()
	threads := r.threads()

	timeout, ok := r.cfg.Timeout()
	if !ok {
		r.notice("Since you didn't specify --timeout option we will use %d as default value", defaultSweepTimeout.Milliseconds())
		timeout = defaultSweepTimeout
	}
	wait, ok := r.cfg.Wait()
	if !ok {
		r.notice("Since you didn't specify --wait option we will use 0 as default value")
	}

	ch, release, err := r.openChannel(iface)
	if err != nil {
		return err
	}
	defer release()

	example, ok := r.cfg.TargetIP()
	if !ok {
		example = ch.OwnAddress()
		r.notice("Since you didn't specify --tip option we will use machine ip instead (%s)", example)
	}

	scripting := formatter.IsScripting(r.format())
	if !scripting {
		log.Printf("Sweeping %s/%s on %s with %d threads", sweep.Prefix(example, mask), mask, iface, threads)
	}

	prog := r.newProgress(int64(sweep.MaxHost(mask))+1, "hosts")
	devices, err := sweep.Sweep(ctx, ch, sweep.Options{
		Netmask: mask,
		Example: example,
		Workers: threads,
		Timeout: timeout,
		Wait:    wait,
		OnProbe: func(ip addr.IPv4) {
			prog.step()
			r.verbosef(2, "who-has %s", ip)
		},
		OnResponse: func(d sweep.Device) {
			prog.hit()
			r.verbosef(1, "%s is at %s", d.IP, d.MAC)
		},
	})
	prog.finish()
	if err != nil {
		return err
	}

	analysis := analyze(devices)
	rows := r.describe(iface, analysis.Devices)

	stateFile, hasState := r.cfg.StateFile()
	if r.cfg.Diff() {
		return r.printDiff(stateFile, rows)
	}

	f := formatter.New(r.format(), r.env.Stdout)
	f.PrintHeader()
	for _, row := range rows {
		f.PrintDevice(row)
	}
	f.PrintFooter(len(rows))
	if !scripting {
		printAnalysis(analysis)
	}

	if hasState {
		if err := saveState(rows, stateFile); err != nil {
			log.Printf("Warning: could not save the state file: %v", err)
		}
	}
	return nil
}

// describe attaches vendors (--ouifile) and mDNS hostnames (--mdns).
func (r *Runner) describe(iface string, devices []sweep.Device) []formatter.Device {
	rows := make([]formatter.Device, len(devices))
	for i, d := range devices {
		rows[i] = formatter.Device{IP: d.IP, MAC: d.MAC}
	}

	if path, ok := r.cfg.OUIFile(); ok {
		db := oui.NewVendorDB(path, r.cfg.Verbose())
		for i := range rows {
			rows[i].Vendor = db.Lookup(rows[i].MAC)
		}
	}

	if r.cfg.MDNS() && len(rows) > 0 {
		local, err := r.env.Lookup(iface)
		if err != nil {
			log.Printf("Warning: mDNS lookup skipped: %v", err)
			return rows
		}
		ips := make([]addr.IPv4, len(rows))
		for i := range rows {
			ips[i] = rows[i].IP
		}
		names := mdns.Names(local.Iface, ips, mdnsTimeout)
		r.verbosef(1, "mDNS answered for %d of %d devices", len(names), len(rows))
		for i := range rows {
			rows[i].Hostname = names[rows[i].IP]
		}
	}
	return rows
}
