// cmd/cursedv/main.go
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/vxoid/cursedv/internal/runner"
)

func main() {
	start := time.Now()

	stats, err := Execute(newRootCmd(runner.Env{}), os.Args[1:])
	if stats {
		printMemStats(os.Stderr, runtime.ReadMemStats)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Program ended with %s\n", colorize(err))
	}
	fmt.Fprintf(os.Stderr, "Program took %d seconds\n", int(time.Since(start).Seconds()))

	if err != nil {
		os.Exit(1)
	}
}

// printMemStats writes the allocation totals returned by read.
func printMemStats(w io.Writer, read func(*runtime.MemStats)) {
	var m runtime.MemStats
	read(&m)
	fmt.Fprintf(w, "Allocated %d bytes in %d allocations (%d frees), %d bytes in use\n",
		m.TotalAlloc, m.Mallocs, m.Frees, m.HeapAlloc)
}
