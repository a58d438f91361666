// internal/oui/oui.go
package oui

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/vxoid/cursedv/internal/addr"
)

// Unknown is returned for MACs whose prefix is not in the database.
const Unknown = "(Unknown)"

// VendorDB maps 24-bit IEEE OUI prefixes to vendor names.
type VendorDB struct {
	vendors map[[3]byte]string
}

// NewVendorDB loads the IEEE oui.txt at path. A missing or unreadable file is
// only a warning: the returned database is empty and every lookup is Unknown.
func NewVendorDB(path string, verbosity int) *VendorDB {
	db := &VendorDB{vendors: make(map[[3]byte]string)}

	file, err := os.Open(path)
	if err != nil {
		log.Printf("Warning: could not load OUI file %s: %v", path, err)
		return db
	}
	defer file.Close()

	if err := db.Load(file); err != nil {
		log.Printf("Warning: could not read OUI file %s: %v", path, err)
	}
	if verbosity >= 2 && db.Len() > 0 {
		log.Printf("Loaded %d OUI vendors from %s", db.Len(), path)
	}
	return db
}

// Load adds the "XX-XX-XX   (hex)   Vendor" lines of r to the database.
// Other lines are ignored.
func (db *VendorDB) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		prefixText, vendor, found := strings.Cut(line, "(hex)")
		if !found {
			continue
		}
		prefix, ok := parsePrefix(strings.TrimSpace(prefixText))
		if !ok {
			continue
		}
		db.vendors[prefix] = strings.TrimSpace(vendor)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading OUI data: %w", err)
	}
	return nil
}

func (db *VendorDB) Len() int {
	if db == nil {
		return 0
	}
	return len(db.vendors)
}

// Lookup returns the vendor registered for the first three octets of mac.
func (db *VendorDB) Lookup(mac addr.MAC) string {
	if db == nil {
		return Unknown
	}
	if vendor, ok := db.vendors[[3]byte{mac[0], mac[1], mac[2]}]; ok {
		return vendor
	}
	return Unknown
}

// parsePrefix accepts "00-1A-2B", "00:1a:2b" and "001A2B".
func parsePrefix(s string) ([3]byte, bool) {
	var prefix [3]byte
	s = strings.NewReplacer("-", "", ":", "").Replace(s)
	if len(s) != 6 {
		return prefix, false
	}
	full, err := addr.ParseMAC(fmt.Sprintf("%s:%s:%s:0:0:0", s[0:2], s[2:4], s[4:6]))
	if err != nil {
		return prefix, false
	}
	copy(prefix[:], full[:3])
	return prefix, true
}
