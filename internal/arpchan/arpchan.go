// internal/arpchan/arpchan.go
package arpchan

import (
	"errors"
	"fmt"
	"time"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/network"
)

// ErrReadTimeout is returned by ReadNext when the deadline passes before an
// ARP reply arrives.
var ErrReadTimeout = errors.New("timed out waiting for arp response")

// Response is one received ARP reply.
type Response struct {
	IP  addr.IPv4
	MAC addr.MAC
}

// Channel is an ARP socket bound to one interface. Sends and reads may be
// issued from several goroutines at once; Close must be called exactly when
// no other call is in flight and is safe to call more than once.
type Channel interface {
	OwnAddress() addr.IPv4
	OwnMAC() addr.MAC
	SendWhoHas(target addr.IPv4) error
	SendIsAt(srcMAC addr.MAC, srcIP addr.IPv4, dstMAC addr.MAC, dstIP addr.IPv4) error
	// ReadNext blocks until an ARP reply from another host arrives. A zero
	// deadline blocks forever.
	ReadNext(deadline time.Time) (Response, error)
	Close() error
}

// Opener opens a Channel on the named interface.
type Opener func(iface string) (Channel, error)

type Backend string

const (
	BackendPcap Backend = "pcap"
	BackendRaw  Backend = "raw"
)

type Options struct {
	Backend   Backend
	Recorder  *Recorder
	Verbosity int
}

// Open binds a Channel to iface using the selected backend.
func Open(iface string, opts Options) (Channel, error) {
	local, err := network.GetInterfaceByName(iface)
	if err != nil {
		return nil, err
	}

	var ch Channel
	switch opts.Backend {
	case BackendPcap, "":
		ch, err = openPcap(local, opts)
	case BackendRaw:
		ch, err = openRaw(local, opts)
	default:
		return nil, fmt.Errorf("unknown arp backend %q (use %q or %q)", opts.Backend, BackendPcap, BackendRaw)
	}
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// NewOpener binds opts so handlers only need the interface name.
func NewOpener(opts Options) Opener {
	return func(iface string) (Channel, error) {
		return Open(iface, opts)
	}
}

// DeadlineAfter converts an optional timeout into a read deadline.
func DeadlineAfter(timeout *time.Duration) time.Time {
	if timeout == nil {
		return time.Time{}
	}
	return time.Now().Add(*timeout)
}
