package network

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vxoid/cursedv/internal/addr"
)

func TestNewLocal(t *testing.T) {
	iface := &net.Interface{Name: "eth0", HardwareAddr: net.HardwareAddr{0x02, 0, 0, 0, 0, 0x02}}

	for _, ipnet := range []*net.IPNet{
		{IP: net.IPv4(192, 168, 1, 20).To4(), Mask: net.CIDRMask(24, 32)},
		{IP: net.IPv4(192, 168, 1, 20), Mask: net.CIDRMask(120, 128)},
	} {
		local, err := newLocal(iface, ipnet)
		require.NoError(t, err)
		assert.Equal(t, addr.MustParseIPv4("192.168.1.20"), local.IP)
		assert.Equal(t, addr.MustParseIPv4("255.255.255.0"), local.Netmask)
		assert.Equal(t, addr.MustParseMAC("02:00:00:00:00:02"), local.MAC)
		assert.Same(t, iface, local.Iface)
	}
}

func TestNewLocalWithoutHardwareAddress(t *testing.T) {
	_, err := newLocal(&net.Interface{Name: "tun0"}, &net.IPNet{IP: net.IPv4(10, 8, 0, 1).To4(), Mask: net.CIDRMask(24, 32)})
	assert.ErrorContains(t, err, "tun0")
}

func TestGetInterfaceByNameUnknown(t *testing.T) {
	_, err := GetInterfaceByName("cursedv-no-such-iface0")
	assert.ErrorContains(t, err, "can't find interface 'cursedv-no-such-iface0'")
}
