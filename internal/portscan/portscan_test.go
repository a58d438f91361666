package portscan

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/errs"
)

var errRefused = errors.New("connection refused")

// fakeDial accepts connections to the given ports only.
func fakeDial(open ...int) (DialFunc, *int64) {
	var calls int64
	set := make(map[string]bool)
	for _, p := range open {
		set[strconv.Itoa(p)] = true
	}
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		atomic.AddInt64(&calls, 1)
		_, port, err := net.SplitHostPort(address)
		if err != nil {
			return nil, err
		}
		if !set[port] {
			return nil, errRefused
		}
		c1, c2 := net.Pipe()
		c2.Close()
		return c1, nil
	}, &calls
}

func TestScanMergesAndSorts(t *testing.T) {
	dial, calls := fakeDial(80, 22)
	s := &Scanner{Dial: dial}
	timeout := 50 * time.Millisecond

	open, err := s.Scan(context.Background(), addr.MustParseIPv4("10.0.0.5"), &timeout, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint16{22, 80}, open)
	assert.EqualValues(t, MaxPort, atomic.LoadInt64(calls))
}

func TestScanResultIsSortedSubsetForAnyWorkerCount(t *testing.T) {
	openPorts := []int{1, 2, 443, 8080, 65534, 65535}
	for _, workers := range []uint64{1, 3, 7, 64, 1000, MaxPort} {
		dial, _ := fakeDial(openPorts...)
		s := &Scanner{Dial: dial}
		open, err := s.Scan(context.Background(), addr.MustParseIPv4("127.0.0.1"), nil, workers)
		require.NoError(t, err)
		assert.Equal(t, []uint16{1, 2, 443, 8080, 65534, 65535}, open, "workers=%d", workers)
	}
}

func TestScanRejectsTooManyWorkersBeforeDialing(t *testing.T) {
	dial, calls := fakeDial()
	s := &Scanner{Dial: dial}

	_, err := s.Scan(context.Background(), addr.MustParseIPv4("10.0.0.5"), nil, MaxPort+1)
	require.ErrorIs(t, err, errs.ErrTooMany)
	assert.Contains(t, err.Error(), "max is 65535 (65536 > 65535)")
	assert.Zero(t, atomic.LoadInt64(calls))

	_, err = s.Scan(context.Background(), addr.MustParseIPv4("10.0.0.5"), nil, 0)
	assert.ErrorIs(t, err, errs.ErrNotEnough)
}

func TestScanReportsPanickingWorker(t *testing.T) {
	dial, _ := fakeDial(22)
	s := &Scanner{
		Dial: dial,
		OnProbe: func(port uint16, open bool) {
			if port == 1000 {
				panic("probe observer exploded")
			}
		},
	}

	_, err := s.Scan(context.Background(), addr.MustParseIPv4("10.0.0.5"), nil, 8)
	require.ErrorIs(t, err, errs.ErrThreadJoin)
	assert.Contains(t, err.Error(), "probe observer exploded")
}

func TestScanObserverSeesEveryPort(t *testing.T) {
	dial, _ := fakeDial(22)
	var mu sync.Mutex
	seen := make(map[uint16]int)
	s := &Scanner{
		Dial: dial,
		OnProbe: func(port uint16, open bool) {
			mu.Lock()
			seen[port]++
			mu.Unlock()
		},
	}

	_, err := s.Scan(context.Background(), addr.MustParseIPv4("10.0.0.5"), nil, 13)
	require.NoError(t, err)
	assert.Len(t, seen, MaxPort)
	for port, n := range seen {
		require.Equal(t, 1, n, "port %d", port)
	}
}

func TestScanStopsOnCancel(t *testing.T) {
	dial, _ := fakeDial()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Scanner{Dial: dial}
	_, err := s.Scan(ctx, addr.MustParseIPv4("10.0.0.5"), nil, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorkerPortsPartition(t *testing.T) {
	for _, workers := range []int{1, 2, 4, 9, 255, 4096, MaxPort} {
		owner := make([]int, MaxPort+1)
		for i := 0; i < workers; i++ {
			ports := WorkerPorts(i, workers)
			require.NotEmpty(t, ports)
			assert.Equal(t, uint16(1+i), ports[0])
			for j, p := range ports {
				if j > 0 {
					require.Equal(t, int(ports[j-1])+workers, int(p))
				}
				owner[p]++
			}
		}
		for p := 1; p <= MaxPort; p++ {
			require.Equal(t, 1, owner[p], "workers=%d port=%d", workers, p)
		}
	}
}

func TestWorkerPortsStride(t *testing.T) {
	assert.Equal(t, []uint16{1, 5, 9}, WorkerPorts(0, 4)[:3])
	assert.Equal(t, []uint16{4, 8, 12}, WorkerPorts(3, 4)[:3])
}

func TestScanLoopback(t *testing.T) {
	if testing.Short() {
		t.Skip("full loopback scan")
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()
	port := uint16(ln.Addr().(*net.TCPAddr).Port)

	timeout := 200 * time.Millisecond
	open, err := (&Scanner{}).Scan(context.Background(), addr.MustParseIPv4("127.0.0.1"), &timeout, 256)
	require.NoError(t, err)
	assert.Contains(t, open, port)
	assert.IsIncreasing(t, open)
}
