// internal/mdns/mdns.go
package mdns

import (
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/vxoid/cursedv/internal/addr"
)

var group = &net.UDPAddr{IP: net.IPv4(224, 0, 0, 251), Port: 5353}

// Names sends a DNS-SD browse query and one reverse PTR query per ip to the
// mDNS group on iface, then collects answers until timeout. Hosts that do not
// answer are absent from the result. Network errors yield an empty map.
func Names(iface *net.Interface, ips []addr.IPv4, timeout time.Duration) map[addr.IPv4]string {
	out := map[addr.IPv4]string{}

	conn, err := net.ListenMulticastUDP("udp4", iface, group)
	if err != nil {
		return out
	}
	defer conn.Close()
	_ = conn.SetReadBuffer(1 << 20)

	for _, q := range Queries(ips) {
		b, err := q.Pack()
		if err != nil {
			continue
		}
		_, _ = conn.WriteToUDP(b, group)
	}

	deadline := time.Now().Add(timeout)
	buf := make([]byte, 65536)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			continue
		}
		m := new(dns.Msg)
		if err := m.Unpack(buf[:n]); err != nil {
			continue
		}
		Merge(out, m)
	}
	return out
}

// Queries builds the browse query followed by the reverse queries.
func Queries(ips []addr.IPv4) []*dns.Msg {
	browse := new(dns.Msg)
	browse.SetQuestion(dns.Fqdn("_services._dns-sd._udp.local"), dns.TypePTR)
	msgs := []*dns.Msg{browse}

	for _, ip := range ips {
		rev, err := dns.ReverseAddr(ip.String())
		if err != nil {
			continue
		}
		q := new(dns.Msg)
		q.SetQuestion(rev, dns.TypePTR)
		msgs = append(msgs, q)
	}
	return msgs
}

// Merge adds the IPv4 hostnames found in the A and reverse PTR records of m.
func Merge(out map[addr.IPv4]string, m *dns.Msg) {
	for _, rr := range append(m.Answer, m.Extra...) {
		switch t := rr.(type) {
		case *dns.A:
			if ip, ok := addr.IPv4FromNetIP(t.A); ok {
				out[ip] = strings.TrimSuffix(t.Hdr.Name, ".")
			}
		case *dns.PTR:
			if ip, ok := fromReverse(t.Hdr.Name); ok {
				out[ip] = strings.TrimSuffix(t.Ptr, ".")
			}
		}
	}
}

// fromReverse turns "4.3.2.1.in-addr.arpa." into 1.2.3.4.
func fromReverse(name string) (addr.IPv4, bool) {
	name = strings.TrimSuffix(strings.ToLower(name), ".")
	rest, found := strings.CutSuffix(name, ".in-addr.arpa")
	if !found {
		return addr.IPv4{}, false
	}
	labels := strings.Split(rest, ".")
	if len(labels) != addr.IPv4Len {
		return addr.IPv4{}, false
	}
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	ip, err := addr.ParseIPv4(strings.Join(labels, "."))
	if err != nil {
		return addr.IPv4{}, false
	}
	return ip, true
}
