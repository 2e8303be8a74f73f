package relay

import (
	"io"

	"golang.org/x/text/encoding"

	"github.com/julienstroheker/linegate/internal/logging"
)

// Options is the mutable draft used to assemble a relay's configuration.
//
// Setters return the receiver so configuration can be chained. Options is not
// safe for concurrent use; assemble it on one goroutine, then hand it to New,
// which takes an immutable snapshot. Mutating the draft after New has no
// effect on the constructed relay.
type Options struct {
	source      io.Reader
	destination io.Writer

	sourceEncoding      encoding.Encoding
	destinationEncoding encoding.Encoding

	header string
	footer string
	prefix string
	suffix string

	onError func(error)
	hooks   []Hook

	closeDestination bool
	autoFlush        bool

	logger *logging.Logger
}

// NewOptions creates a draft configuration for relaying from source to
// destination. Both streams are read and written as UTF-8 unless an encoding
// is set. Destination closing and per-line flushing default to enabled.
func NewOptions(source io.Reader, destination io.Writer) *Options {
	return &Options{
		source:           source,
		destination:      destination,
		closeDestination: true,
		autoFlush:        true,
	}
}

// SetSourceEncoding sets the charset used to decode source bytes into lines.
// A nil encoding means UTF-8.
func (o *Options) SetSourceEncoding(enc encoding.Encoding) *Options {
	o.sourceEncoding = enc
	return o
}

// SetDestinationEncoding sets the charset used to encode lines written to
// the destination. A nil encoding means UTF-8.
func (o *Options) SetDestinationEncoding(enc encoding.Encoding) *Options {
	o.destinationEncoding = enc
	return o
}

// SetHeader sets a string written once before the first line. No terminator
// is appended; include a trailing newline if one is wanted.
func (o *Options) SetHeader(header string) *Options {
	o.header = header
	return o
}

// SetFooter sets a string written once after the last line, only when the
// relay terminates at natural end of stream. No terminator is appended.
func (o *Options) SetFooter(footer string) *Options {
	o.footer = footer
	return o
}

// SetPrefix sets a string written before every line. It is recommended that
// the prefix ends with a space.
func (o *Options) SetPrefix(prefix string) *Options {
	o.prefix = prefix
	return o
}

// SetSuffix sets a string written after every line, before the terminator.
// It is recommended that the suffix starts with a space.
func (o *Options) SetSuffix(suffix string) *Options {
	o.suffix = suffix
	return o
}

// SetOnError sets a callback invoked with any read, write, or cleanup
// failure. Without a callback, failures are still returned by Run but are
// otherwise swallowed after cleanup.
func (o *Options) SetOnError(fn func(error)) *Options {
	o.onError = fn
	return o
}

// SetHooks replaces the registered hooks. Hooks are evaluated against every
// line in the order given here.
func (o *Options) SetHooks(hooks []Hook) *Options {
	o.hooks = hooks
	return o
}

// AddHook appends a hook, keeping evaluation in registration order.
func (o *Options) AddHook(h Hook) *Options {
	o.hooks = append(o.hooks, h)
	return o
}

// SetCloseDestination controls whether the destination is closed when the
// relay terminates. Default: true. Disable when relaying to a shared stream
// such as os.Stdout.
func (o *Options) SetCloseDestination(close bool) *Options {
	o.closeDestination = close
	return o
}

// SetAutoFlush controls whether the destination is flushed after every line
// versus only at buffer capacity and at termination. Default: true.
func (o *Options) SetAutoFlush(flush bool) *Options {
	o.autoFlush = flush
	return o
}

// SetLogger sets the logger used for relay lifecycle events and hook panic
// reports. Without a logger the relay is silent.
func (o *Options) SetLogger(logger *logging.Logger) *Options {
	o.logger = logger
	return o
}

// Source returns the configured source stream
func (o *Options) Source() io.Reader { return o.source }

// Destination returns the configured destination stream
func (o *Options) Destination() io.Writer { return o.destination }

// SourceEncoding returns the configured source encoding, nil meaning UTF-8
func (o *Options) SourceEncoding() encoding.Encoding { return o.sourceEncoding }

// DestinationEncoding returns the configured destination encoding, nil
// meaning UTF-8
func (o *Options) DestinationEncoding() encoding.Encoding { return o.destinationEncoding }

// Header returns the configured header, empty meaning none
func (o *Options) Header() string { return o.header }

// Footer returns the configured footer, empty meaning none
func (o *Options) Footer() string { return o.footer }

// Prefix returns the configured per-line prefix, empty meaning none
func (o *Options) Prefix() string { return o.prefix }

// Suffix returns the configured per-line suffix, empty meaning none
func (o *Options) Suffix() string { return o.suffix }

// OnError returns the configured error callback, nil meaning none
func (o *Options) OnError() func(error) { return o.onError }

// Hooks returns the registered hooks in evaluation order
func (o *Options) Hooks() []Hook { return o.hooks }

// CloseDestination reports whether the destination is closed on termination
func (o *Options) CloseDestination() bool { return o.closeDestination }

// AutoFlush reports whether the destination is flushed after every line
func (o *Options) AutoFlush() bool { return o.autoFlush }

// Logger returns the configured logger, nil meaning silent
func (o *Options) Logger() *logging.Logger { return o.logger }

// snapshot copies the draft into the immutable form consumed by a Relay.
// The hook slice is copied so later AddHook/SetHooks calls on the draft
// cannot reach a running relay.
func (o *Options) snapshot() config {
	hooks := make([]Hook, len(o.hooks))
	copy(hooks, o.hooks)
	return config{
		source:              o.source,
		destination:         o.destination,
		sourceEncoding:      o.sourceEncoding,
		destinationEncoding: o.destinationEncoding,
		header:              o.header,
		footer:              o.footer,
		prefix:              o.prefix,
		suffix:              o.suffix,
		onError:             o.onError,
		hooks:               hooks,
		closeDestination:    o.closeDestination,
		autoFlush:           o.autoFlush,
		logger:              o.logger,
	}
}

// config is the immutable snapshot a Relay executes against
type config struct {
	source      io.Reader
	destination io.Writer

	sourceEncoding      encoding.Encoding
	destinationEncoding encoding.Encoding

	header string
	footer string
	prefix string
	suffix string

	onError func(error)
	hooks   []Hook

	closeDestination bool
	autoFlush        bool

	logger *logging.Logger
}
