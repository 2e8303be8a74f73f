package relay

import (
	"fmt"
	"regexp"
)

// Hook binds a pattern to a callback. The callback is invoked with the
// undecorated line (no prefix, suffix, or terminator) whenever the pattern is
// found anywhere within the line.
//
// Hooks run inline on the relay goroutine, so a slow callback delays the
// relay and delivery of subsequent lines. Keep patterns simple: every
// registered pattern is evaluated against every line.
type Hook struct {
	// Pattern is the compiled expression searched for within each line.
	Pattern *regexp.Regexp

	// Fn is the callback invoked with the matched line.
	Fn func(line string)
}

// NewHook compiles pattern and returns a Hook bound to fn
func NewHook(pattern string, fn func(line string)) (Hook, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Hook{}, fmt.Errorf("compiling hook pattern %q: %w", pattern, err)
	}
	return Hook{Pattern: re, Fn: fn}, nil
}

// MustHook is like NewHook but panics if the pattern does not compile.
// Intended for hooks built from literal patterns at startup.
func MustHook(pattern string, fn func(line string)) Hook {
	h, err := NewHook(pattern, fn)
	if err != nil {
		panic(err)
	}
	return h
}

// Contains returns a Hook that fires when substr appears verbatim within a
// line. Regular expression metacharacters in substr are matched literally.
func Contains(substr string, fn func(line string)) Hook {
	return Hook{Pattern: regexp.MustCompile(regexp.QuoteMeta(substr)), Fn: fn}
}

// matches reports whether the hook's pattern is found within line
func (h Hook) matches(line string) bool {
	return h.Pattern != nil && h.Fn != nil && h.Pattern.MatchString(line)
}
