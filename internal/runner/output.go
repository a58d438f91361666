// internal/runner/output.go
package runner

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"

	"github.com/vxoid/cursedv/internal/formatter"
)

var (
	warnColor = color.New(color.FgHiRed).SprintFunc()
	infoColor = color.New(color.FgHiBlue).SprintFunc()
)

func saveState(rows []formatter.Device, filePath string) error {
	output := formatter.JSONOutput{Results: make([]formatter.JSONResult, len(rows)), Total: len(rows)}
	for i, row := range rows {
		output.Results[i] = formatter.NewJSONResult(row)
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding the state file: %w", err)
	}
	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing state file '%s': %w", filePath, err)
	}

	log.Printf("Sweep state saved to %s", filePath)
	return nil
}

func printAnalysis(a Analysis) {
	if len(a.Conflicts) > 0 {
		log.Println(warnColor(fmt.Sprintf("WARNING: %d IP conflict(s) detected (possible ARP spoofing).", len(a.Conflicts))))
		for i, summary := range a.Conflicts {
			log.Printf("[%d] %s", i+1, warnColor(summary))
		}
	}
	if len(a.MultiIP) > 0 {
		log.Println(infoColor(fmt.Sprintf("INFO: %d multi-IP device(s) detected.", len(a.MultiIP))))
		for i, summary := range a.MultiIP {
			log.Printf("[%d] %s", i+1, infoColor(summary))
		}
	}
}
