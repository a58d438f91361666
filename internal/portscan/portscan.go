// internal/portscan/portscan.go
package portscan

import (
	"context"
	"net"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/errs"
)

// MaxPort is both the highest port probed and the worker ceiling.
const MaxPort = 65535

// DialFunc matches (*net.Dialer).DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Scanner performs a full TCP connect scan of one host.
type Scanner struct {
	// Dial defaults to a zero net.Dialer, i.e. the platform connect timeout.
	Dial DialFunc
	// OnProbe is called after every connect attempt, from worker goroutines.
	OnProbe func(port uint16, open bool)
}

// Scan probes ports 1..65535 of target using workers goroutines. Worker i owns
// ports 1+i, 1+i+workers, ... The result is sorted and free of duplicates.
// A nil timeout leaves each connect bounded only by the OS.
func (s *Scanner) Scan(ctx context.Context, target addr.IPv4, timeout *time.Duration, workers uint64) ([]uint16, error) {
	if workers == 0 {
		return nil, errs.NotEnough("at least one thread is required for ports scan")
	}
	if workers > MaxPort {
		return nil, errs.TooManyWorkers(workers, MaxPort)
	}

	dial := s.Dial
	if dial == nil {
		dial = (&net.Dialer{}).DialContext
	}

	n := int(workers)
	found := make([][]uint16, n)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errs.ThreadJoin(i, r)
				}
			}()
			found[i] = s.worker(gctx, dial, target, timeout, i, n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var open []uint16
	for _, ports := range found {
		open = append(open, ports...)
	}
	slices.Sort(open)
	return open, nil
}

func (s *Scanner) worker(ctx context.Context, dial DialFunc, target addr.IPv4, timeout *time.Duration, index, workers int) []uint16 {
	var open []uint16
	host := target.String()

	for _, port := range WorkerPorts(index, workers) {
		if ctx.Err() != nil {
			break
		}
		ok := probe(ctx, dial, net.JoinHostPort(host, strconv.Itoa(int(port))), timeout)
		if ok {
			open = append(open, port)
		}
		if s.OnProbe != nil {
			s.OnProbe(port, ok)
		}
	}
	return open
}

// WorkerPorts lists the ports owned by worker index out of workers, in
// increasing order.
func WorkerPorts(index, workers int) []uint16 {
	var ports []uint16
	for p := 1 + index; p <= MaxPort; p += workers {
		ports = append(ports, uint16(p))
	}
	return ports
}

func probe(ctx context.Context, dial DialFunc, address string, timeout *time.Duration) bool {
	if timeout != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	conn, err := dial(ctx, "tcp", address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
