// internal/spoof/forward.go
package spoof

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"
)

const ipForwardPath = "/proc/sys/net/ipv4/ip_forward"

// Forwarding toggles kernel IPv4 forwarding so poisoned traffic keeps
// flowing through this machine instead of being dropped.
type Forwarding struct {
	path     string
	original []byte
}

// NewForwarding manages the Linux ip_forward sysctl.
func NewForwarding() *Forwarding {
	return &Forwarding{path: ipForwardPath}
}

// Enable remembers the current value and turns forwarding on.
func (f *Forwarding) Enable() error {
	if f.path == ipForwardPath && runtime.GOOS != "linux" {
		return errors.New("automatic ip forwarding management is only supported on Linux")
	}
	val, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("can't read current ip_forward value: %w", err)
	}
	f.original = bytes.TrimSpace(val)
	return os.WriteFile(f.path, []byte("1"), 0644)
}

// Restore puts back the value seen by Enable, or "0" if Enable never succeeded.
func (f *Forwarding) Restore() error {
	if f.original != nil {
		return os.WriteFile(f.path, f.original, 0644)
	}
	return os.WriteFile(f.path, []byte("0"), 0644)
}
