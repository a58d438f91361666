// internal/formatter/json.go
package formatter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vxoid/cursedv/internal/addr"
)

// JSONOutput is the document printed by --json and stored in state files.
type JSONOutput struct {
	Results []JSONResult `json:"results"`
	Total   int          `json:"total"`
}

type JSONResult struct {
	IP       string `json:"ip"`
	MAC      string `json:"mac"`
	Vendor   string `json:"vendor,omitempty"`
	Hostname string `json:"hostname,omitempty"`
}

// JSONPorts is the document printed for a port scan.
type JSONPorts struct {
	Target    string   `json:"target"`
	OpenPorts []uint16 `json:"open_ports"`
}

func NewJSONResult(d Device) JSONResult {
	return JSONResult{IP: d.IP.String(), MAC: d.MAC.String(), Vendor: d.Vendor, Hostname: d.Hostname}
}

// JSONFormatter collects every device and prints a single document in
// PrintFooter.
type JSONFormatter struct {
	w   io.Writer
	out JSONOutput
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: w, out: JSONOutput{Results: []JSONResult{}}}
}

func (f *JSONFormatter) PrintHeader() {}

func (f *JSONFormatter) PrintDevice(d Device) {
	f.out.Results = append(f.out.Results, NewJSONResult(d))
}

func (f *JSONFormatter) PrintFooter(total int) {
	f.out.Total = total
	f.write(f.out)
}

func (f *JSONFormatter) PrintPorts(target addr.IPv4, ports []uint16) {
	if ports == nil {
		ports = []uint16{}
	}
	f.write(JSONPorts{Target: target.String(), OpenPorts: ports})
}

func (f *JSONFormatter) write(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(f.w, "{\"error\": %q}\n", err.Error())
		return
	}
	fmt.Fprintln(f.w, string(data))
}
