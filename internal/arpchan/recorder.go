// internal/arpchan/recorder.go
package arpchan

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// Recorder appends received ARP frames to a pcap file. A nil *Recorder
// records nothing.
type Recorder struct {
	mu     sync.Mutex
	file   *os.File
	writer *pcapgo.Writer
	count  int
}

func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("can't create pcap file '%s': %w", path, err)
	}
	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		f.Close()
		return nil, fmt.Errorf("can't write pcap header to '%s': %w", path, err)
	}
	return &Recorder{file: f, writer: w}, nil
}

// Record writes one frame. Errors are logged, a broken capture file must not
// stop a scan.
func (r *Recorder) Record(frame []byte) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	ci := gopacket.CaptureInfo{
		Timestamp:     time.Now(),
		CaptureLength: len(frame),
		Length:        len(frame),
	}
	if err := r.writer.WritePacket(ci, frame); err != nil {
		log.Printf("Warning: can't write frame to %s: %v", r.file.Name(), err)
		return
	}
	r.count++
}

// Count reports how many frames were written.
func (r *Recorder) Count() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
