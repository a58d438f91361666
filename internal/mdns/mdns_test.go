package mdns

import (
	"net"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vxoid/cursedv/internal/addr"
)

func TestQueries(t *testing.T) {
	msgs := Queries([]addr.IPv4{addr.MustParseIPv4("192.168.1.20")})
	require.Len(t, msgs, 2)
	assert.Equal(t, "_services._dns-sd._udp.local.", msgs[0].Question[0].Name)
	assert.Equal(t, "20.1.168.192.in-addr.arpa.", msgs[1].Question[0].Name)
	assert.Equal(t, dns.TypePTR, msgs[1].Question[0].Qtype)
}

func TestMergeRecords(t *testing.T) {
	m := new(dns.Msg)
	m.Answer = []dns.RR{
		&dns.A{
			Hdr: dns.RR_Header{Name: "printer.local.", Rrtype: dns.TypeA, Class: dns.ClassINET},
			A:   net.IPv4(192, 168, 1, 20),
		},
		&dns.PTR{
			Hdr: dns.RR_Header{Name: "7.1.168.192.in-addr.arpa.", Rrtype: dns.TypePTR, Class: dns.ClassINET},
			Ptr: "nas.local.",
		},
		&dns.PTR{
			Hdr: dns.RR_Header{Name: "_http._tcp.local.", Rrtype: dns.TypePTR, Class: dns.ClassINET},
			Ptr: "web._http._tcp.local.",
		},
	}
	m.Extra = []dns.RR{
		&dns.AAAA{
			Hdr:  dns.RR_Header{Name: "printer.local.", Rrtype: dns.TypeAAAA, Class: dns.ClassINET},
			AAAA: net.ParseIP("fe80::1"),
		},
	}

	// survive a real wire round trip
	wire, err := m.Pack()
	require.NoError(t, err)
	parsed := new(dns.Msg)
	require.NoError(t, parsed.Unpack(wire))

	out := map[addr.IPv4]string{}
	Merge(out, parsed)
	assert.Equal(t, map[addr.IPv4]string{
		addr.MustParseIPv4("192.168.1.20"): "printer.local",
		addr.MustParseIPv4("192.168.1.7"):  "nas.local",
	}, out)
}

func TestFromReverse(t *testing.T) {
	ip, ok := fromReverse("4.3.2.1.IN-ADDR.ARPA.")
	assert.True(t, ok)
	assert.Equal(t, addr.MustParseIPv4("1.2.3.4"), ip)

	_, ok = fromReverse("3.2.1.in-addr.arpa.")
	assert.False(t, ok)
	_, ok = fromReverse("printer.local.")
	assert.False(t, ok)
}
