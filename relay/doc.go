// Package relay implements a line-oriented relay between a source and a
// destination stream with optional decoration and pattern hooks.
//
// A relay continuously reads lines of text from a source, writes each line to
// a destination with optional prefix/suffix decoration, and invokes caller
// supplied callbacks when a line matches a registered pattern. The typical use
// case is wrapping a child process's output so a supervisor can forward it
// (with cosmetic framing) and react to milestones in the output, such as
// "service is up", without polling or re-parsing the buffered output later.
//
// # Configuration
//
// A relay is configured through a mutable Options draft and then constructed
// with New, which takes an immutable snapshot of the draft. Mutating the
// Options after New has no effect on the constructed relay, so a running
// relay can never observe concurrent configuration changes.
//
// # Execution
//
// Run executes the relay loop on the calling goroutine until the source
// reaches end of stream or a read/write error occurs. Start runs the same
// loop on a background goroutine and returns a Handle that can be waited on.
// A relay executes at most once; a second invocation returns ErrAlreadyRan.
//
// # Hooks
//
// Hooks are evaluated in declaration order against each undecorated line,
// with contains semantics: a hook fires when its pattern is found anywhere in
// the line. Callbacks run inline on the relay goroutine, after the decorated
// line has been written and before the next line is read. A slow or blocking
// callback therefore delays delivery of subsequent lines; keeping callbacks
// fast is the caller's responsibility. A callback that panics is recovered
// and logged, and the loop continues.
//
// # Cancellation
//
// There is no explicit cancellation API. To stop a running relay early,
// close its source from another goroutine; the next read fails and the relay
// terminates through its error path.
//
// # Usage Example
//
//	cmd := exec.Command("my-service")
//	stdout, err := cmd.StdoutPipe()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ready := make(chan struct{})
//	opts := relay.NewOptions(stdout, os.Stdout).
//		SetPrefix("[service]: ").
//		SetHeader("--- BEGIN service startup ---\n").
//		SetFooter("--- END service startup ---\n").
//		SetCloseDestination(false).
//		AddHook(relay.MustHook(`Service is (up|running)`, func(string) {
//			close(ready)
//		}))
//
//	r, err := relay.New(opts)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := cmd.Start(); err != nil {
//		log.Fatal(err)
//	}
//	handle := r.Start()
//
//	<-ready
//	// service is up, start dependent work while output keeps flowing
//
//	if err := handle.Wait(); err != nil {
//		log.Fatal(err)
//	}
package relay
