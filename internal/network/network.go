// internal/network/network.go
package network

import (
	"fmt"
	"net"

	"github.com/jackpal/gateway"

	"github.com/vxoid/cursedv/internal/addr"
)

// Local describes the interface an operation is bound to.
type Local struct {
	Iface   *net.Interface
	IP      addr.IPv4
	Netmask addr.IPv4
	MAC     addr.MAC
}

// GetInterfaceByName looks up an interface and its first non-loopback IPv4 address.
func GetInterfaceByName(name string) (*Local, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("can't find interface '%s': %w", name, err)
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return nil, fmt.Errorf("can't get addresses of interface '%s': %w", name, err)
	}

	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return newLocal(iface, ipnet)
		}
	}
	return nil, fmt.Errorf("interface '%s' has no usable IPv4 address", name)
}

// DefaultGateway asks the OS routing table for the default IPv4 gateway.
func DefaultGateway() (addr.IPv4, error) {
	ip, err := gateway.DiscoverGateway()
	if err != nil {
		return addr.IPv4{}, fmt.Errorf("can't discover default gateway: %w", err)
	}
	gw, ok := addr.IPv4FromNetIP(ip)
	if !ok {
		return addr.IPv4{}, fmt.Errorf("default gateway %s is not an IPv4 address", ip)
	}
	return gw, nil
}

func newLocal(iface *net.Interface, ipnet *net.IPNet) (*Local, error) {
	ip, _ := addr.IPv4FromNetIP(ipnet.IP)

	var mask addr.IPv4
	switch len(ipnet.Mask) {
	case net.IPv4len:
		copy(mask[:], ipnet.Mask)
	case net.IPv6len:
		copy(mask[:], ipnet.Mask[12:])
	}

	mac, ok := addr.MACFromHardwareAddr(iface.HardwareAddr)
	if !ok {
		return nil, fmt.Errorf("interface '%s' has no ethernet hardware address", iface.Name)
	}

	return &Local{Iface: iface, IP: ip, Netmask: mask, MAC: mac}, nil
}
