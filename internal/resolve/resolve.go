// internal/resolve/resolve.go
package resolve

import (
	"context"
	"errors"
	"time"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/arpchan"
)

// WhoHas asks who owns target and waits for its reply. Replies from other
// hosts are skipped. With a nil timeout the wait is unbounded; otherwise the
// whole wait is bounded by it and arpchan.ErrReadTimeout is returned.
// Errors from ch are returned unchanged.
func WhoHas(ch arpchan.Channel, target addr.IPv4, timeout *time.Duration) (arpchan.Response, error) {
	if err := ch.SendWhoHas(target); err != nil {
		return arpchan.Response{}, err
	}

	deadline := arpchan.DeadlineAfter(timeout)
	for {
		resp, err := ch.ReadNext(deadline)
		if err != nil {
			return arpchan.Response{}, err
		}
		if resp.IP == target {
			return resp, nil
		}
	}
}

// pollInterval bounds each read of WhoHasContext, which is also how late it
// notices ctx being done.
const pollInterval = 100 * time.Millisecond

// WhoHasContext is WhoHas that also gives up, with ctx.Err(), once ctx is
// done. Nothing is sent when ctx is already done.
func WhoHasContext(ctx context.Context, ch arpchan.Channel, target addr.IPv4, timeout *time.Duration) (arpchan.Response, error) {
	if err := ctx.Err(); err != nil {
		return arpchan.Response{}, err
	}
	if err := ch.SendWhoHas(target); err != nil {
		return arpchan.Response{}, err
	}

	deadline := arpchan.DeadlineAfter(timeout)
	for {
		if err := ctx.Err(); err != nil {
			return arpchan.Response{}, err
		}
		next := time.Now().Add(pollInterval)
		if !deadline.IsZero() && deadline.Before(next) {
			next = deadline
		}

		resp, err := ch.ReadNext(next)
		if errors.Is(err, arpchan.ErrReadTimeout) {
			if !deadline.IsZero() && !time.Now().Before(deadline) {
				return arpchan.Response{}, err
			}
			continue
		}
		if err != nil {
			return arpchan.Response{}, err
		}
		if resp.IP == target {
			return resp, nil
		}
	}
}

// IsAt tells dstMAC/dstIP that srcIP is at srcMAC. Nothing is awaited.
func IsAt(ch arpchan.Channel, srcMAC addr.MAC, srcIP addr.IPv4, dstMAC addr.MAC, dstIP addr.IPv4) error {
	return ch.SendIsAt(srcMAC, srcIP, dstMAC, dstIP)
}
