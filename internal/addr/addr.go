// internal/addr/addr.go
package addr

import (
	"encoding/binary"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/vxoid/cursedv/internal/errs"
)

const (
	IPv4Len = 4
	MACLen  = 6
)

// IPv4 is an IPv4 address in network (big-endian) byte order.
type IPv4 [IPv4Len]byte

// MAC is an Ethernet hardware address.
type MAC [MACLen]byte

// ParseIPv4 parses dotted-decimal text. Exactly four octets in [0,255] are accepted.
func ParseIPv4(s string) (IPv4, error) {
	var ip IPv4

	octets := strings.Split(s, ".")
	if len(octets) != IPv4Len {
		return ip, errs.Parse("%s has not enough or too many octets (%d!=%d)", s, len(octets), IPv4Len)
	}

	for i, octet := range octets {
		v, err := strconv.ParseUint(octet, 10, 8)
		if err != nil {
			return ip, errs.Parse("%s is not valid integer (%v)", octet, unwrapNum(err))
		}
		ip[i] = byte(v)
	}
	return ip, nil
}

// MustParseIPv4 is ParseIPv4 for constants and tests.
func MustParseIPv4(s string) IPv4 {
	ip, err := ParseIPv4(s)
	if err != nil {
		panic(err)
	}
	return ip
}

// IPv4FromUint32 is the inverse of IPv4.Uint32.
func IPv4FromUint32(v uint32) IPv4 {
	var ip IPv4
	binary.BigEndian.PutUint32(ip[:], v)
	return ip
}

// IPv4FromNetIP converts a 4-byte or 4-in-6 net.IP.
func IPv4FromNetIP(ip net.IP) (IPv4, bool) {
	var out IPv4
	v4 := ip.To4()
	if v4 == nil {
		return out, false
	}
	copy(out[:], v4)
	return out, true
}

func (ip IPv4) Uint32() uint32 {
	return binary.BigEndian.Uint32(ip[:])
}

// Bit returns bit i of the address, bit 0 being the most significant one.
func (ip IPv4) Bit(i int) bool {
	return ip.Uint32()&(1<<(31-i)) != 0
}

// WithBit returns a copy of ip with bit i set to v.
func (ip IPv4) WithBit(i int, v bool) IPv4 {
	mask := uint32(1) << (31 - i)
	raw := ip.Uint32()
	if v {
		raw |= mask
	} else {
		raw &^= mask
	}
	return IPv4FromUint32(raw)
}

func (ip IPv4) NetIP() net.IP {
	return net.IPv4(ip[0], ip[1], ip[2], ip[3]).To4()
}

func (ip IPv4) Netip() netip.Addr {
	return netip.AddrFrom4(ip)
}

func (ip IPv4) IsZero() bool {
	return ip == IPv4{}
}

func (ip IPv4) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", ip[0], ip[1], ip[2], ip[3])
}

// ParseMAC parses six colon-separated groups of one or two hex digits.
// "a:b:c:d:e:f" is accepted and equals "0a:0b:0c:0d:0e:0f".
func ParseMAC(s string) (MAC, error) {
	var mac MAC

	groups := strings.Split(s, ":")
	if len(groups) != MACLen {
		return mac, errs.Parse("%s has not enough or too many octets (%d!=%d)", s, len(groups), MACLen)
	}

	for i, group := range groups {
		if len(group) < 1 || len(group) > 2 {
			return mac, errs.Parse("%s is not u8 parsable hex", group)
		}

		var b byte
		for j := 0; j < len(group); j++ {
			nibble, ok := hexValue(group[j])
			if !ok {
				return mac, errs.Parse("Can't parse '%c' as hex", group[j])
			}
			b |= nibble << (4 * (len(group) - 1 - j))
		}
		mac[i] = b
	}
	return mac, nil
}

func MustParseMAC(s string) MAC {
	mac, err := ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return mac
}

// MACFromHardwareAddr converts a 6-byte net.HardwareAddr.
func MACFromHardwareAddr(hw net.HardwareAddr) (MAC, bool) {
	var mac MAC
	if len(hw) != MACLen {
		return mac, false
	}
	copy(mac[:], hw)
	return mac, true
}

func (m MAC) HardwareAddr() net.HardwareAddr {
	hw := make(net.HardwareAddr, MACLen)
	copy(hw, m[:])
	return hw
}

// String renders the canonical lowercase colon-hex form.
func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func unwrapNum(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}
