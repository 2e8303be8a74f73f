package relay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/julienstroheker/linegate/internal/logging"
)

var (
	// ErrNilSource is returned by New when the draft has no source stream
	ErrNilSource = errors.New("relay: source is nil")
	// ErrNilDestination is returned by New when the draft has no destination stream
	ErrNilDestination = errors.New("relay: destination is nil")
	// ErrAlreadyRan is returned when a relay is executed a second time
	ErrAlreadyRan = errors.New("relay: relay already ran")
)

// Line length cap for the source reader. A single line longer than this is
// treated as a read failure.
const maxLineBytes = 1024 * 1024

// Relay copies lines from a source stream to a destination stream, applying
// the configured decoration and dispatching pattern hooks.
//
// A Relay is single-shot: it executes its loop at most once, via Run or
// Start. Construct a new Relay for every run.
type Relay struct {
	id  string
	cfg config
	log *logging.Logger

	started atomic.Bool
}

// New builds a Relay from a snapshot of opts. The draft can be discarded or
// reused afterwards; changes to it do not affect the returned relay.
func New(opts *Options) (*Relay, error) {
	if opts == nil {
		return nil, errors.New("relay: options are nil")
	}
	if opts.source == nil {
		return nil, ErrNilSource
	}
	if opts.destination == nil {
		return nil, ErrNilDestination
	}

	r := &Relay{
		id:  uuid.NewString(),
		cfg: opts.snapshot(),
	}
	if r.cfg.logger != nil {
		r.log = r.cfg.logger.With(logging.String("relay_id", r.id))
	}
	return r, nil
}

// ID returns the unique identifier assigned to this relay instance. It is
// included in every log entry the relay emits, so output from concurrent
// relays can be told apart.
func (r *Relay) ID() string {
	return r.id
}

// Run executes the relay loop on the calling goroutine until the source
// reaches end of stream or a read/write failure occurs.
//
// On failure the loop stops immediately, the error callback (if configured)
// receives the failure, the footer is not written, and cleanup still runs.
// Cleanup always flushes the destination, closes it if CloseDestination is
// set, and closes the source when it implements io.Closer.
//
// Run returns nil on natural end of stream, the primary failure otherwise.
// A second invocation returns ErrAlreadyRan without touching the streams.
func (r *Relay) Run() error {
	if !r.started.CompareAndSwap(false, true) {
		return ErrAlreadyRan
	}

	log := r.logger()
	if log != nil {
		log.Debug("Relay starting")
	}

	encoded, encoderCloser := encodeWriter(r.cfg.destination, r.cfg.destinationEncoding)
	writer := bufio.NewWriter(encoded)

	scanner := bufio.NewScanner(decodeReader(r.cfg.source, r.cfg.sourceEncoding))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	runErr := r.pump(scanner, writer)
	if runErr != nil {
		r.reportError(runErr)
	}

	if cleanupErr := r.cleanup(writer, encoderCloser); cleanupErr != nil {
		r.reportError(cleanupErr)
		// The primary failure wins; a cleanup failure is the outcome only
		// when the loop itself succeeded.
		if runErr == nil {
			runErr = cleanupErr
		}
	}

	if log != nil {
		if runErr != nil {
			log.Debug("Relay finished with error", logging.Error(runErr))
		} else {
			log.Debug("Relay finished")
		}
	}

	return runErr
}

// pump is the relay loop: header, then one pass per line, then footer. The
// footer is only written when the loop drains the source completely.
func (r *Relay) pump(scanner *bufio.Scanner, writer *bufio.Writer) error {
	if r.cfg.header != "" {
		if _, err := writer.WriteString(r.cfg.header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	// Evaluated once so the loop does not re-check per line
	hasHooks := len(r.cfg.hooks) > 0
	hasPrefix := r.cfg.prefix != ""
	hasSuffix := r.cfg.suffix != ""

	for scanner.Scan() {
		line := scanner.Text()

		if err := r.writeLine(writer, line, hasPrefix, hasSuffix); err != nil {
			return err
		}
		if r.cfg.autoFlush {
			if err := writer.Flush(); err != nil {
				return fmt.Errorf("flushing line: %w", err)
			}
		}

		// Hooks see the undecorated line, after its decorated form has been
		// written and before the next line is read
		if hasHooks {
			for i := range r.cfg.hooks {
				if r.cfg.hooks[i].matches(line) {
					r.invoke(r.cfg.hooks[i], line)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	if r.cfg.footer != "" {
		if _, err := writer.WriteString(r.cfg.footer); err != nil {
			return fmt.Errorf("writing footer: %w", err)
		}
	}
	return nil
}

// writeLine writes prefix + line + suffix and a newline. The terminator is
// always "\n" regardless of the terminator style the source used.
func (r *Relay) writeLine(writer *bufio.Writer, line string, hasPrefix, hasSuffix bool) error {
	if hasPrefix {
		if _, err := writer.WriteString(r.cfg.prefix); err != nil {
			return fmt.Errorf("writing line prefix: %w", err)
		}
	}
	if _, err := writer.WriteString(line); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	if hasSuffix {
		if _, err := writer.WriteString(r.cfg.suffix); err != nil {
			return fmt.Errorf("writing line suffix: %w", err)
		}
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing line terminator: %w", err)
	}
	return nil
}

// invoke runs a hook callback, isolating panics so one broken hook cannot
// stop forwarding of the remaining output.
func (r *Relay) invoke(h Hook, line string) {
	defer func() {
		if p := recover(); p != nil {
			if log := r.logger(); log != nil {
				log.Error("Hook callback panicked",
					logging.String("pattern", h.Pattern.String()),
					logging.Any("panic", p))
			}
		}
	}()
	h.Fn(line)
}

// cleanup releases the streams: flush buffered output, flush the encoder,
// close the destination when configured to, always close the source. Later
// steps still run when an earlier one fails; the first failure is returned.
func (r *Relay) cleanup(writer *bufio.Writer, encoderCloser io.Closer) error {
	var firstErr error

	if err := writer.Flush(); err != nil {
		firstErr = fmt.Errorf("flushing destination: %w", err)
	}
	if encoderCloser != nil {
		if err := encoderCloser.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flushing destination encoder: %w", err)
		}
	}
	if r.cfg.closeDestination {
		if closer, ok := r.cfg.destination.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("closing destination: %w", err)
			}
		}
	}
	if closer, ok := r.cfg.source.(io.Closer); ok {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing source: %w", err)
		}
	}

	return firstErr
}

// reportError routes a failure to the configured callback, if any
func (r *Relay) reportError(err error) {
	if r.cfg.onError != nil {
		r.cfg.onError(err)
	}
}

// logger returns the logger tagged with this relay's ID, or nil when the
// relay is configured to be silent
func (r *Relay) logger() *logging.Logger {
	return r.log
}
