// internal/runner/progress.go
package runner

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/vxoid/cursedv/internal/formatter"
)

// progress shows either a progress bar on stderr (--progress) or one dot on
// stdout per hit, closed by "|". Scripting formats get neither.
type progress struct {
	bar  *progressbar.ProgressBar
	dots bool
	w    io.Writer
	mu   sync.Mutex
}

func (r *Runner) newProgress(total int64, description string) *progress {
	p := &progress{w: r.env.Stdout}
	if r.cfg.Progress() {
		p.bar = progressbar.NewOptions64(
			total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionFullWidth(),
		)
		return p
	}
	p.dots = !formatter.IsScripting(r.format())
	return p
}

// step counts one probe.
func (p *progress) step() {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// hit marks one positive result.
func (p *progress) hit() {
	if !p.dots {
		return
	}
	p.mu.Lock()
	fmt.Fprint(p.w, ".")
	p.mu.Unlock()
}

func (p *progress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if p.dots {
		p.mu.Lock()
		fmt.Fprintln(p.w, "|")
		p.mu.Unlock()
	}
}
