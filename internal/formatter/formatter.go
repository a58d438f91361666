// internal/formatter/formatter.go
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/vxoid/cursedv/internal/addr"
)

// Column widths.
const (
	ipColWidth     = 15
	macColWidth    = 17
	vendorColWidth = 30
	colPadding     = "    "
)

var (
	ipColor       = color.New(color.FgHiGreen).SprintFunc()
	macColor      = color.New(color.FgHiYellow).SprintFunc()
	vendorColor   = color.New(color.FgHiCyan).SprintFunc()
	hostnameColor = color.New(color.FgHiMagenta).SprintFunc()
	portColor     = color.New(color.FgHiGreen, color.Bold).SprintFunc()

	headerColor = color.New(color.FgHiWhite, color.Bold).SprintFunc()
)

// Device is one row of a sweep result.
type Device struct {
	IP       addr.IPv4
	MAC      addr.MAC
	Vendor   string
	Hostname string
}

// Formatter prints sweep results (header, one row per device, footer) and
// port scan results.
type Formatter interface {
	PrintHeader()
	PrintDevice(d Device)
	PrintFooter(total int)
	PrintPorts(target addr.IPv4, ports []uint16)
}

// New returns the formatter for format: "", "default", "plain", "quiet",
// "json" or "csv". Unknown names fall back to the default table.
func New(format string, w io.Writer) Formatter {
	switch format {
	case "plain":
		return NewPlainFormatter(w)
	case "quiet":
		return NewQuietFormatter(w)
	case "json":
		return NewJSONFormatter(w)
	case "csv":
		return NewCSVFormatter(w)
	default:
		return NewDefaultFormatter(w)
	}
}

// IsScripting reports whether format is meant for other programs, in which
// case progress output is kept off stdout.
func IsScripting(format string) bool {
	return format == "plain" || format == "quiet" || format == "json" || format == "csv"
}

// --- Default Formatter ---

type DefaultFormatter struct {
	w        io.Writer
	useColor bool
}

func NewDefaultFormatter(w io.Writer) *DefaultFormatter {
	return &DefaultFormatter{w: w, useColor: true}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return ""
	}
	return strings.Repeat(" ", width-len(s))
}

func (f *DefaultFormatter) printRow(ip, mac, vendor, hostname string, header bool) {
	ipStr, macStr, vendorStr, hostStr := ip, mac, vendor, hostname
	if f.useColor {
		if header {
			ipStr, macStr, vendorStr, hostStr = headerColor(ip), headerColor(mac), headerColor(vendor), headerColor(hostname)
		} else {
			ipStr, macStr, vendorStr, hostStr = ipColor(ip), macColor(mac), vendorColor(vendor), hostnameColor(hostname)
		}
	}

	row := ipStr + pad(ip, ipColWidth) + colPadding + macStr + pad(mac, macColWidth) + colPadding + vendorStr
	if hostname != "" {
		row += pad(vendor, vendorColWidth) + colPadding + hostStr
	}
	fmt.Fprintln(f.w, strings.TrimRight(row, " "))
}

func (f *DefaultFormatter) PrintHeader() {
	f.printRow("IP Address", "MAC Address", "Vendor", "Hostname", true)
	f.printRow(strings.Repeat("-", ipColWidth), strings.Repeat("-", macColWidth), strings.Repeat("-", vendorColWidth), strings.Repeat("-", 20), true)
}

func (f *DefaultFormatter) PrintDevice(d Device) {
	f.printRow(d.IP.String(), d.MAC.String(), d.Vendor, d.Hostname, false)
}

func (f *DefaultFormatter) PrintFooter(total int) {
	fmt.Fprintln(f.w)
	if total == 1 {
		fmt.Fprintln(f.w, "1 device responded")
		return
	}
	fmt.Fprintf(f.w, "%d devices responded\n", total)
}

func (f *DefaultFormatter) PrintPorts(target addr.IPv4, ports []uint16) {
	if len(ports) == 0 {
		fmt.Fprintf(f.w, "No open ports found on %s\n", target)
		return
	}
	fmt.Fprintf(f.w, "Open ports on %s:\n", target)
	for _, p := range ports {
		fmt.Fprintf(f.w, "  %s/tcp open\n", portColor(p))
	}
}

// --- Plain Formatter ---

type PlainFormatter struct {
	*DefaultFormatter
}

func NewPlainFormatter(w io.Writer) *PlainFormatter {
	return &PlainFormatter{DefaultFormatter: &DefaultFormatter{w: w}}
}

func (f *PlainFormatter) PrintHeader()    {}
func (f *PlainFormatter) PrintFooter(int) {}

func (f *PlainFormatter) PrintPorts(target addr.IPv4, ports []uint16) {
	for _, p := range ports {
		fmt.Fprintf(f.w, "%s\t%d\n", target, p)
	}
}

// --- Quiet Formatter ---

type QuietFormatter struct {
	w io.Writer
}

func NewQuietFormatter(w io.Writer) *QuietFormatter { return &QuietFormatter{w: w} }
func (f *QuietFormatter) PrintHeader()              {}
func (f *QuietFormatter) PrintFooter(int)           {}

func (f *QuietFormatter) PrintDevice(d Device) {
	fmt.Fprintf(f.w, "%s\t%s\n", d.IP, d.MAC)
}

func (f *QuietFormatter) PrintPorts(_ addr.IPv4, ports []uint16) {
	for _, p := range ports {
		fmt.Fprintln(f.w, p)
	}
}
