// internal/runner/analysis.go
package runner

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/sweep"
)

// Analysis summarizes anomalies in a sweep: one IP answered by several MACs
// (a conflict, or somebody spoofing) and one MAC answering for several IPs.
type Analysis struct {
	Devices   []sweep.Device
	Conflicts []string
	MultiIP   []string
}

// analyze drops exact duplicate replies, keeping arrival order, and
// collects the summaries.
func analyze(devices []sweep.Device) Analysis {
	seenIPs := make(map[addr.IPv4][]addr.MAC)
	seenMACs := make(map[addr.MAC][]addr.IPv4)
	var macOrder []addr.MAC
	out := Analysis{Devices: make([]sweep.Device, 0, len(devices))}

	for _, d := range devices {
		macs := seenIPs[d.IP]
		if slices.Contains(macs, d.MAC) {
			continue
		}
		if len(macs) > 0 {
			out.Conflicts = append(out.Conflicts, fmt.Sprintf("%s is in use by %s and %s", d.IP, macs[0], d.MAC))
		}
		seenIPs[d.IP] = append(macs, d.MAC)

		if _, ok := seenMACs[d.MAC]; !ok {
			macOrder = append(macOrder, d.MAC)
		}
		seenMACs[d.MAC] = append(seenMACs[d.MAC], d.IP)
		out.Devices = append(out.Devices, d)
	}

	for _, mac := range macOrder {
		ips := seenMACs[mac]
		if len(ips) < 2 {
			continue
		}
		names := make([]string, len(ips))
		for i, ip := range ips {
			names[i] = ip.String()
		}
		out.MultiIP = append(out.MultiIP, fmt.Sprintf("MAC %s answers for several IPs: %s", mac, strings.Join(names, ", ")))
	}
	return out
}
