// internal/runner/mode_diff.go
package runner

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/fatih/color"

	"github.com/vxoid/cursedv/internal/addr"
	"github.com/vxoid/cursedv/internal/formatter"
)

type hostInfo struct {
	MAC    string
	Vendor string
}

func loadState(stateFile string) (map[string]hostInfo, error) {
	stateContent, err := os.ReadFile(stateFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("state file '%s' does not exist, run netdevices with --state-file first", stateFile)
		}
		return nil, fmt.Errorf("error reading state file '%s': %w", stateFile, err)
	}

	var oldState formatter.JSONOutput
	if err := json.Unmarshal(stateContent, &oldState); err != nil {
		return nil, fmt.Errorf("error parsing JSON state file '%s': %w", stateFile, err)
	}

	hosts := make(map[string]hostInfo, len(oldState.Results))
	for _, res := range oldState.Results {
		hosts[res.IP] = hostInfo{MAC: res.MAC, Vendor: res.Vendor}
	}
	return hosts, nil
}

// printDiff compares rows with the saved state and prints added, modified
// and removed hosts ordered by address.
func (r *Runner) printDiff(stateFile string, rows []formatter.Device) error {
	log.Printf("DIFF mode: comparing the sweep with '%s'", stateFile)
	oldState, err := loadState(stateFile)
	if err != nil {
		return err
	}

	addedColor := color.New(color.FgHiGreen).SprintFunc()
	removedColor := color.New(color.FgHiRed).SprintFunc()
	modifiedColor := color.New(color.FgHiYellow).SprintFunc()
	headerColor := color.New(color.Bold).SprintFunc()
	w := r.env.Stdout

	hasChanges := false
	for _, row := range rows {
		ip, mac := row.IP.String(), row.MAC.String()
		oldInfo, found := oldState[ip]
		switch {
		case !found:
			fmt.Fprintf(w, "%s\t%s\t%s\t(%s)\n", addedColor("[+] ADDED:"), ip, mac, row.Vendor)
			hasChanges = true
		case oldInfo.MAC != mac:
			fmt.Fprintf(w, "%s\t%s\n", modifiedColor("[~] MODIFIED:"), headerColor(ip))
			fmt.Fprintf(w, "\t  %s %s (%s)\n", removedColor("- OLD MAC:"), oldInfo.MAC, oldInfo.Vendor)
			fmt.Fprintf(w, "\t  %s %s (%s)\n", addedColor("+ NEW MAC:"), mac, row.Vendor)
			hasChanges = true
		}
		delete(oldState, ip)
	}

	removed := make([]string, 0, len(oldState))
	for ip := range oldState {
		removed = append(removed, ip)
	}
	slices.SortFunc(removed, compareIPText)
	for _, ip := range removed {
		oldInfo := oldState[ip]
		fmt.Fprintf(w, "%s\t%s\t%s\t(%s)\n", removedColor("[-] REMOVED:"), ip, oldInfo.MAC, oldInfo.Vendor)
		hasChanges = true
	}

	if !hasChanges {
		log.Println("No changes detected in the network.")
	}
	return nil
}

// compareIPText orders dotted quads numerically; unparsable text sorts last.
func compareIPText(a, b string) int {
	ipA, errA := addr.ParseIPv4(a)
	ipB, errB := addr.ParseIPv4(b)
	switch {
	case errA != nil && errB != nil:
		return cmp.Compare(a, b)
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	return cmp.Compare(ipA.Uint32(), ipB.Uint32())
}
