// internal/formatter/csv.go
package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/vxoid/cursedv/internal/addr"
)

type CSVFormatter struct {
	w *csv.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: csv.NewWriter(w)}
}

func (f *CSVFormatter) PrintHeader() {
	f.w.Write([]string{"ip", "mac", "vendor", "hostname"})
	f.w.Flush()
}

func (f *CSVFormatter) PrintDevice(d Device) {
	f.w.Write([]string{d.IP.String(), d.MAC.String(), d.Vendor, d.Hostname})
	f.w.Flush()
}

func (f *CSVFormatter) PrintFooter(int) {}

func (f *CSVFormatter) PrintPorts(target addr.IPv4, ports []uint16) {
	f.w.Write([]string{"ip", "port"})
	for _, p := range ports {
		f.w.Write([]string{target.String(), strconv.Itoa(int(p))})
	}
	f.w.Flush()
}
