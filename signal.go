package autopage

import (
	"os"
	"os/signal"
	"sync"
)

// watchInterrupts calls fn for every interrupt the process receives
// until stop is called. While it runs, interrupts do not terminate the
// process.
//
// If firstOnly is set, only the first interrupt is caught: any later
// one terminates the process as if nothing were watching.
func watchInterrupts(fn func(), firstOnly bool) (stop func()) {
	c := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(c, os.Interrupt)
	var wg sync.WaitGroup
	wg.Go(func() {
		for {
			select {
			case <-c:
				if firstOnly {
					signal.Stop(c)
				}
				fn()
			case <-done:
				return
			}
		}
	})
	return sync.OnceFunc(func() {
		signal.Stop(c)
		close(done)
		wg.Wait()
	})
}
