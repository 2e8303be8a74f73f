package relay

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LookupEncoding resolves an IANA charset name (such as "ISO-8859-1" or
// "UTF-8") to an encoding usable with Options.SetSourceEncoding and
// Options.SetDestinationEncoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		// The IANA index lists some charsets it cannot convert
		return nil, fmt.Errorf("encoding %q is not supported", name)
	}
	return enc, nil
}

// decodeReader wraps src so the relay loop always reads UTF-8. Malformed
// input for the configured charset surfaces as a read error.
func decodeReader(src io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil || enc == unicode.UTF8 {
		return src
	}
	return transform.NewReader(src, enc.NewDecoder())
}

// encodeWriter wraps dst so UTF-8 text written by the relay loop reaches the
// destination in the configured charset. The returned closer, when non-nil,
// flushes any state held by the encoder and must be closed before the
// destination itself; it does not close dst.
func encodeWriter(dst io.Writer, enc encoding.Encoding) (io.Writer, io.Closer) {
	if enc == nil || enc == unicode.UTF8 {
		return dst, nil
	}
	w := transform.NewWriter(dst, enc.NewEncoder())
	return w, w
}
