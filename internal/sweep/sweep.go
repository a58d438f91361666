// internal/sweep/sweep.go
package sweep

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/arpchan"
	"github.com/vxoid/cursedv/internal/errs"
)

// Device is a host that answered a who-has probe.
type Device struct {
	IP  addr.IPv4
	MAC addr.MAC
}

type Options struct {
	Netmask addr.IPv4
	// Example is any address inside the swept network.
	Example addr.IPv4
	Workers uint64
	// Timeout bounds each read of the collector, which is also the latency
	// of its stop signal.
	Timeout time.Duration
	// Wait is the grace period between the last probe and stopping the collector.
	Wait time.Duration

	OnProbe    func(ip addr.IPv4)
	OnResponse func(d Device)
}

// Sweep sends a who-has to every host of the network described by
// Options.Netmask and Options.Example, except the channel's own address, and
// returns the replies in arrival order. ch is not closed.
func Sweep(ctx context.Context, ch arpchan.Channel, opts Options) ([]Device, error) {
	if opts.Workers == 0 {
		return nil, errs.NotEnough("at least one thread is required for network scan")
	}
	if max := MaxWorkers(opts.Netmask); opts.Workers > max {
		return nil, errs.TooManyWorkers(opts.Workers, max)
	}

	prefix := Prefix(opts.Example, opts.Netmask)
	maxHost := MaxHost(opts.Netmask)
	own := ch.OwnAddress()

	stop := make(chan struct{})
	collected := make(chan collectResult, 1)
	go func() {
		collected <- collect(ch, stop, opts)
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i := uint64(0); i < opts.Workers; i++ {
		i := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errs.ThreadJoin(int(i), r)
				}
			}()
			EachHost(i, opts.Workers, maxHost, func(host uint32) bool {
				if gctx.Err() != nil {
					return false
				}
				ip := HostAddress(prefix, opts.Netmask, host)
				if ip == own {
					return true
				}
				// Unanswered or failed probes are expected during a sweep.
				_ = ch.SendWhoHas(ip)
				if opts.OnProbe != nil {
					opts.OnProbe(ip)
				}
				return true
			})
			return nil
		})
	}
	sendErr := g.Wait()

	if sendErr == nil {
		grace := time.NewTimer(opts.Wait)
		select {
		case <-grace.C:
		case <-ctx.Done():
			grace.Stop()
		}
	}

	close(stop)
	res := <-collected

	switch {
	case sendErr != nil:
		return nil, sendErr
	case res.err != nil:
		return nil, res.err
	case ctx.Err() != nil:
		return nil, ctx.Err()
	}
	return res.devices, nil
}

type collectResult struct {
	devices []Device
	err     error
}

func collect(ch arpchan.Channel, stop <-chan struct{}, opts Options) (res collectResult) {
	defer func() {
		if r := recover(); r != nil {
			res = collectResult{err: errs.ThreadJoin(-1, r)}
		}
	}()

	devices := []Device{}
	for {
		select {
		case <-stop:
			return collectResult{devices: devices}
		default:
		}

		resp, err := ch.ReadNext(time.Now().Add(opts.Timeout))
		if errors.Is(err, arpchan.ErrReadTimeout) {
			continue
		}
		if err != nil {
			return collectResult{err: err}
		}
		d := Device{IP: resp.IP, MAC: resp.MAC}
		devices = append(devices, d)
		if opts.OnResponse != nil {
			opts.OnResponse(d)
		}
	}
}
