package relay

// Handle tracks a relay running on a background goroutine.
type Handle struct {
	done chan struct{}
	err  error
}

// Start runs the relay loop on its own goroutine and returns immediately.
//
// The goroutine never prevents process shutdown: abandoning the handle is
// safe, the relay simply keeps pumping until its source drains or the
// process exits. All error and cleanup behavior is identical to Run; the
// outcome is available through the returned handle.
func (r *Relay) Start() *Handle {
	h := &Handle{done: make(chan struct{})}
	go func() {
		h.err = r.Run()
		close(h.done)
	}()
	return h
}

// Done returns a channel that is closed when the relay finishes. Useful in
// select statements alongside timeouts or context cancellation.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the relay finishes and returns its outcome: nil on
// natural end of stream, the primary failure otherwise.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}
