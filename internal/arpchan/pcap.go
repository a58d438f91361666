// internal/arpchan/pcap.go
package arpchan

import (
	"bytes"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/network"
)

// pollInterval bounds each pcap read so deadlines can be honoured.
const pollInterval = 50 * time.Millisecond

var broadcastMAC = net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

type pcapChannel struct {
	handle    *pcap.Handle
	local     *network.Local
	recorder  *Recorder
	verbosity int
	closeOnce sync.Once
}

func openPcap(local *network.Local, opts Options) (*pcapChannel, error) {
	handle, err := pcap.OpenLive(local.Iface.Name, 65536, true, pollInterval)
	if err != nil {
		return nil, fmt.Errorf("can't open pcap handle on %s: %w", local.Iface.Name, err)
	}

	if opts.Verbosity >= 2 {
		log.Printf("Setting pcap BPF filter: 'arp'")
	}
	if err := handle.SetBPFFilter("arp"); err != nil {
		handle.Close()
		return nil, fmt.Errorf("can't set BPF filter: %w", err)
	}

	return &pcapChannel{
		handle:    handle,
		local:     local,
		recorder:  opts.Recorder,
		verbosity: opts.Verbosity,
	}, nil
}

func (c *pcapChannel) OwnAddress() addr.IPv4 { return c.local.IP }
func (c *pcapChannel) OwnMAC() addr.MAC       { return c.local.MAC }

func (c *pcapChannel) SendWhoHas(target addr.IPv4) error {
	if c.verbosity >= 2 {
		log.Printf("Sending who-has %s tell %s", target, c.local.IP)
	}
	own := c.local.MAC.HardwareAddr()
	return c.write(
		&layers.Ethernet{
			SrcMAC:       own,
			DstMAC:       broadcastMAC,
			EthernetType: layers.EthernetTypeARP,
		},
		&layers.ARP{
			AddrType:          layers.LinkTypeEthernet,
			Protocol:          layers.EthernetTypeIPv4,
			HwAddressSize:     addr.MACLen,
			ProtAddressSize:   addr.IPv4Len,
			Operation:         layers.ARPRequest,
			SourceHwAddress:   []byte(own),
			SourceProtAddress: c.local.IP[:],
			DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
			DstProtAddress:    target[:],
		},
	)
}

func (c *pcapChannel) SendIsAt(srcMAC addr.MAC, srcIP addr.IPv4, dstMAC addr.MAC, dstIP addr.IPv4) error {
	if c.verbosity >= 2 {
		log.Printf("Sending %s is-at %s to %s (%s)", srcIP, srcMAC, dstIP, dstMAC)
	}
	return c.write(
		&layers.Ethernet{
			SrcMAC:       srcMAC.HardwareAddr(),
			DstMAC:       dstMAC.HardwareAddr(),
			EthernetType: layers.EthernetTypeARP,
		},
		&layers.ARP{
			AddrType:          layers.LinkTypeEthernet,
			Protocol:          layers.EthernetTypeIPv4,
			HwAddressSize:     addr.MACLen,
			ProtAddressSize:   addr.IPv4Len,
			Operation:         layers.ARPReply,
			SourceHwAddress:   srcMAC[:],
			SourceProtAddress: srcIP[:],
			DstHwAddress:      dstMAC[:],
			DstProtAddress:    dstIP[:],
		},
	)
}

func (c *pcapChannel) write(eth *layers.Ethernet, arp *layers.ARP) error {
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, arp); err != nil {
		return fmt.Errorf("can't serialize arp packet: %w", err)
	}
	if err := c.handle.WritePacketData(buf.Bytes()); err != nil {
		return fmt.Errorf("can't send arp packet: %w", err)
	}
	return nil
}

func (c *pcapChannel) ReadNext(deadline time.Time) (Response, error) {
	own := c.local.MAC.HardwareAddr()
	for {
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return Response{}, ErrReadTimeout
		}

		data, _, err := c.handle.ReadPacketData()
		if err == pcap.NextErrorTimeoutExpired {
			continue
		}
		if err != nil {
			return Response{}, fmt.Errorf("can't read arp packet: %w", err)
		}

		packet := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.NoCopy)
		arpLayer := packet.Layer(layers.LayerTypeARP)
		if arpLayer == nil {
			continue
		}
		arp, _ := arpLayer.(*layers.ARP)
		if arp.Operation != layers.ARPReply || bytes.Equal(own, arp.SourceHwAddress) {
			continue
		}

		resp, ok := toResponse(arp.SourceProtAddress, arp.SourceHwAddress)
		if !ok {
			continue
		}
		c.recorder.Record(data)
		if c.verbosity >= 2 {
			log.Printf("Received arp reply from %s [%s]", resp.IP, resp.MAC)
		}
		return resp, nil
	}
}

func (c *pcapChannel) Close() error {
	c.closeOnce.Do(c.handle.Close)
	return nil
}

func toResponse(ip, mac []byte) (Response, bool) {
	var resp Response
	if len(ip) != addr.IPv4Len || len(mac) != addr.MACLen {
		return resp, false
	}
	copy(resp.IP[:], ip)
	copy(resp.MAC[:], mac)
	return resp, true
}
