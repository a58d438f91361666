// internal/arpchan/arptest/fake.go
package arptest

import (
	"errors"
	"sync"
	"time"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/arpchan"
)

var ErrClosed = errors.New("arptest: channel closed")

// IsAt is one recorded SendIsAt call.
type IsAt struct {
	SrcMAC addr.MAC
	SrcIP  addr.IPv4
	DstMAC addr.MAC
	DstIP  addr.IPv4
}

// Fake answers who-has requests for the hosts in its table and records every
// send. It is safe for concurrent use.
type Fake struct {
	IP  addr.IPv4
	MAC addr.MAC

	// FailWhoHas and FailIsAt, when set, decide the error of each send.
	FailWhoHas func(target addr.IPv4) error
	FailIsAt   func(call IsAt) error
	// OpenErr makes Opener fail.
	OpenErr error
	// ReadErr, when set, is returned by every ReadNext.
	ReadErr error

	mu        sync.Mutex
	hosts     map[addr.IPv4]addr.MAC
	whoHas    []addr.IPv4
	isAt      []IsAt
	opens     int
	closes    int
	reads     int
	responses chan arpchan.Response
	done      chan struct{}
	closeOnce sync.Once
}

func New(ip addr.IPv4, mac addr.MAC) *Fake {
	return &Fake{
		IP:        ip,
		MAC:       mac,
		hosts:     make(map[addr.IPv4]addr.MAC),
		responses: make(chan arpchan.Response, 1<<16),
		done:      make(chan struct{}),
	}
}

// AddHost makes the fake answer who-has requests for ip.
func (f *Fake) AddHost(ip addr.IPv4, mac addr.MAC) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hosts[ip] = mac
}

// Inject queues an unsolicited reply.
func (f *Fake) Inject(resp arpchan.Response) {
	f.responses <- resp
}

func (f *Fake) Opener() arpchan.Opener {
	return func(string) (arpchan.Channel, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.OpenErr != nil {
			return nil, f.OpenErr
		}
		f.opens++
		return f, nil
	}
}

func (f *Fake) OwnAddress() addr.IPv4 { return f.IP }
func (f *Fake) OwnMAC() addr.MAC       { return f.MAC }

func (f *Fake) SendWhoHas(target addr.IPv4) error {
	if f.FailWhoHas != nil {
		if err := f.FailWhoHas(target); err != nil {
			return err
		}
	}

	f.mu.Lock()
	f.whoHas = append(f.whoHas, target)
	mac, ok := f.hosts[target]
	f.mu.Unlock()

	if ok {
		f.responses <- arpchan.Response{IP: target, MAC: mac}
	}
	return nil
}

func (f *Fake) SendIsAt(srcMAC addr.MAC, srcIP addr.IPv4, dstMAC addr.MAC, dstIP addr.IPv4) error {
	call := IsAt{SrcMAC: srcMAC, SrcIP: srcIP, DstMAC: dstMAC, DstIP: dstIP}

	f.mu.Lock()
	f.isAt = append(f.isAt, call)
	f.mu.Unlock()

	if f.FailIsAt != nil {
		return f.FailIsAt(call)
	}
	return nil
}

func (f *Fake) ReadNext(deadline time.Time) (arpchan.Response, error) {
	f.mu.Lock()
	f.reads++
	readErr := f.ReadErr
	f.mu.Unlock()
	if readErr != nil {
		return arpchan.Response{}, readErr
	}

	var timeout <-chan time.Time
	if !deadline.IsZero() {
		t := time.NewTimer(time.Until(deadline))
		defer t.Stop()
		timeout = t.C
	}

	select {
	case resp := <-f.responses:
		return resp, nil
	case <-timeout:
		return arpchan.Response{}, arpchan.ErrReadTimeout
	case <-f.done:
		return arpchan.Response{}, ErrClosed
	}
}

func (f *Fake) Close() error {
	f.mu.Lock()
	f.closes++
	f.mu.Unlock()
	f.closeOnce.Do(func() { close(f.done) })
	return nil
}

func (f *Fake) WhoHasCalls() []addr.IPv4 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]addr.IPv4(nil), f.whoHas...)
}

func (f *Fake) IsAtCalls() []IsAt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]IsAt(nil), f.isAt...)
}

func (f *Fake) Opens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

func (f *Fake) Closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

func (f *Fake) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}
