package shell

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ValentinKolb/techlog/lib/session"
)

// WatchSignals saves the session and exits the process on SIGINT or SIGTERM.
// The returned function stops watching.
//
// A SIGKILL or a crash of the runtime bypasses this, records added since the
// last save are lost in that case.
func WatchSignals(sess *session.Session, out io.Writer) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	stopWatch := watch(ch, sess, out, os.Exit)
	return func() {
		signal.Stop(ch)
		stopWatch()
	}
}

// watch waits for a signal on ch, flushes the session and calls exit
func watch(ch <-chan os.Signal, sess *session.Session, out io.Writer, exit func(code int)) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			log.Infof("received %s, saving before exit", sig)
			_, _ = fmt.Fprintln(out, "\n  [Auto-save] Saving the log...")
			if err := sess.Flush(); err != nil {
				_, _ = fmt.Fprintf(out, "  [X] Save failed: %v\n", err)
			}
			exit(0)
		case <-done:
		}
	}()
	return func() { close(done) }
}
