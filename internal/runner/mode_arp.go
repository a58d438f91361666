// internal/runner/mode_arp.go
package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/vxoid/cursedv/internal/oui"
	"github.com/vxoid/cursedv/internal/resolve"
)

const defaultGatewayTimeout = time.Second

// runWhoHas implements "whohas".
func (r *Runner) runWhoHas(context.Context) error {
	target, _ := r.cfg.TargetIP()

	ch, release, err := r.openChannel(r.interfaceName())
	if err != nil {
		return err
	}
	defer release()

	resp, err := resolve.WhoHas(ch, target, r.cfg.TimeoutPtr())
	if err != nil {
		return err
	}
	fmt.Fprintf(r.env.Stdout, "%s\t%s\n", resp.IP, resp.MAC)
	return nil
}

// runIsAt implements "isat": tells tip/tmac that sip is at smac.
func (r *Runner) runIsAt(context.Context) error {
	dstIP, _ := r.cfg.TargetIP()
	dstMAC, _ := r.cfg.TargetMAC()
	srcIP, _ := r.cfg.HostIP()
	srcMAC, _ := r.cfg.HostMAC()

	ch, release, err := r.openChannel(r.interfaceName())
	if err != nil {
		return err
	}
	defer release()

	if err := resolve.IsAt(ch, srcMAC, srcIP, dstMAC, dstIP); err != nil {
		return err
	}
	r.verbosef(1, "Told %s (%s) that %s is at %s", dstIP, dstMAC, srcIP, srcMAC)
	return nil
}

// runGateway implements "gateway".
func (r *Runner) runGateway(context.Context) error {
	gw, ok := r.cfg.GatewayIP()
	if !ok {
		var err error
		gw, err = r.env.Gateway()
		if err != nil {
			return err
		}
		r.notice("Since you didn't specify --gip option we will use the default gateway (%s)", gw)
	}

	timeout, ok := r.cfg.Timeout()
	if !ok {
		r.notice("Since you didn't specify --timeout option we will use %d as default value", defaultGatewayTimeout.Milliseconds())
		timeout = defaultGatewayTimeout
	}

	ch, release, err := r.openChannel(r.interfaceName())
	if err != nil {
		return err
	}
	defer release()

	resp, err := resolve.WhoHas(ch, gw, &timeout)
	if err != nil {
		return fmt.Errorf("gateway %s did not answer: %w", gw, err)
	}

	if path, ok := r.cfg.OUIFile(); ok {
		vendor := oui.NewVendorDB(path, r.cfg.Verbose()).Lookup(resp.MAC)
		fmt.Fprintf(r.env.Stdout, "%s\t%s\t%s\n", resp.IP, resp.MAC, vendor)
		return nil
	}
	log.Printf("Default gateway is %s", gw)
	fmt.Fprintf(r.env.Stdout, "%s\t%s\n", resp.IP, resp.MAC)
	return nil
}
