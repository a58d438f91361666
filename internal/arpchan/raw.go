// internal/arpchan/raw.go
package arpchan

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/mdlayher/arp"
	"github.com/mdlayher/ethernet"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/network"
)

// rawChannel talks ARP over an AF_PACKET socket, no libpcap required.
type rawChannel struct {
	client    *arp.Client
	local     *network.Local
	recorder  *Recorder
	verbosity int
	closeOnce sync.Once
	closeErr  error
}

func openRaw(local *network.Local, opts Options) (*rawChannel, error) {
	client, err := arp.Dial(local.Iface)
	if err != nil {
		return nil, fmt.Errorf("can't open arp socket on %s: %w", local.Iface.Name, err)
	}
	return &rawChannel{
		client:    client,
		local:     local,
		recorder:  opts.Recorder,
		verbosity: opts.Verbosity,
	}, nil
}

func (c *rawChannel) OwnAddress() addr.IPv4 { return c.local.IP }
func (c *rawChannel) OwnMAC() addr.MAC       { return c.local.MAC }

func (c *rawChannel) SendWhoHas(target addr.IPv4) error {
	if c.verbosity >= 2 {
		log.Printf("Sending who-has %s tell %s", target, c.local.IP)
	}
	p, err := arp.NewPacket(arp.OperationRequest, c.local.MAC.HardwareAddr(), c.local.IP.Netip(), ethernet.Broadcast, target.Netip())
	if err != nil {
		return fmt.Errorf("can't build arp request: %w", err)
	}
	if err := c.client.WriteTo(p, ethernet.Broadcast); err != nil {
		return fmt.Errorf("can't send arp request: %w", err)
	}
	return nil
}

func (c *rawChannel) SendIsAt(srcMAC addr.MAC, srcIP addr.IPv4, dstMAC addr.MAC, dstIP addr.IPv4) error {
	if c.verbosity >= 2 {
		log.Printf("Sending %s is-at %s to %s (%s)", srcIP, srcMAC, dstIP, dstMAC)
	}
	p, err := arp.NewPacket(arp.OperationReply, srcMAC.HardwareAddr(), srcIP.Netip(), dstMAC.HardwareAddr(), dstIP.Netip())
	if err != nil {
		return fmt.Errorf("can't build arp reply: %w", err)
	}
	if err := c.client.WriteTo(p, dstMAC.HardwareAddr()); err != nil {
		return fmt.Errorf("can't send arp reply: %w", err)
	}
	return nil
}

func (c *rawChannel) ReadNext(deadline time.Time) (Response, error) {
	if err := c.client.SetReadDeadline(deadline); err != nil {
		return Response{}, fmt.Errorf("can't set read deadline: %w", err)
	}

	for {
		p, frame, err := c.client.Read()
		if err != nil {
			var ne net.Error
			if errors.Is(err, os.ErrDeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
				return Response{}, ErrReadTimeout
			}
			return Response{}, fmt.Errorf("can't read arp packet: %w", err)
		}

		if frame.EtherType != ethernet.EtherTypeARP || p.Operation != arp.OperationReply || !p.SenderIP.Is4() {
			continue
		}
		mac, ok := addr.MACFromHardwareAddr(p.SenderHardwareAddr)
		if !ok || mac == c.local.MAC {
			continue
		}

		if c.recorder != nil {
			if raw, err := frame.MarshalBinary(); err == nil {
				c.recorder.Record(raw)
			}
		}

		resp := Response{IP: addr.IPv4(p.SenderIP.As4()), MAC: mac}
		if c.verbosity >= 2 {
			log.Printf("Received arp reply from %s [%s]", resp.IP, resp.MAC)
		}
		return resp, nil
	}
}

func (c *rawChannel) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.client.Close()
	})
	return c.closeErr
}
