// internal/sweep/hosts.go
package sweep

import (
	"math/bits"

	"github.com/vxoid/cursedv/internal/addr"
)

// HostBits counts the zero bits of mask.
func HostBits(mask addr.IPv4) int {
	return bits.OnesCount32(^mask.Uint32())
}

// MaxWorkers is the number of host addresses covered by mask, 2^HostBits.
// Asking a sweep for more workers than this is an error.
func MaxWorkers(mask addr.IPv4) uint64 {
	return uint64(1) << HostBits(mask)
}

// MaxHost is the highest host index, 2^HostBits - 1.
func MaxHost(mask addr.IPv4) uint32 {
	return uint32(MaxWorkers(mask) - 1)
}

// Prefix keeps the bits of example selected by the one bits of mask.
func Prefix(example, mask addr.IPv4) addr.IPv4 {
	var ip addr.IPv4
	for i := 0; i < 32; i++ {
		if mask.Bit(i) {
			ip = ip.WithBit(i, example.Bit(i))
		}
	}
	return ip
}

// HostAddress spreads the HostBits low bits of host over the zero bits of
// mask. The most significant zero bit of the mask receives the most
// significant host bit, so for a contiguous mask the result is prefix|host.
func HostAddress(prefix, mask addr.IPv4, host uint32) addr.IPv4 {
	hostBits := HostBits(mask)
	ip := prefix
	n := 0
	for i := 0; i < 32; i++ {
		if mask.Bit(i) {
			continue
		}
		shift := hostBits - 1 - n
		ip = ip.WithBit(i, host&(uint32(1)<<shift) != 0)
		n++
	}
	return ip
}

// EachHost calls fn with the host indices owned by worker index out of
// workers: index, index+workers, ... up to maxHost. Iteration stops early
// when fn returns false.
func EachHost(index, workers uint64, maxHost uint32, fn func(host uint32) bool) {
	for h := index; h <= uint64(maxHost); h += workers {
		if !fn(uint32(h)) {
			return
		}
	}
}
