package relay

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestLookupEncoding(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"UTF-8", false},
		{"ISO-8859-1", false},
		{"windows-1252", false},
		{"no-such-charset", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := LookupEncoding(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("LookupEncoding(%q) failed: %v", tt.name, err)
			}
			if enc == nil {
				t.Errorf("Expected encoding for %q, got nil", tt.name)
			}
		})
	}
}

func TestRelay_DecodesSourceEncoding(t *testing.T) {
	// "café" in ISO-8859-1: é is a single 0xE9 byte
	source := bytes.NewReader([]byte{'c', 'a', 'f', 0xE9, '\n'})
	dest := &bytes.Buffer{}

	r := mustRelay(t, NewOptions(source, dest).
		SetSourceEncoding(charmap.ISO8859_1))

	if err := r.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	expected := "café\n"
	if dest.String() != expected {
		t.Errorf("Expected UTF-8 output %q, got %q", expected, dest.String())
	}
}

func TestRelay_EncodesDestinationEncoding(t *testing.T) {
	source := strings.NewReader("café\n")
	dest := &bytes.Buffer{}

	r := mustRelay(t, NewOptions(source, dest).
		SetDestinationEncoding(charmap.ISO8859_1))

	if err := r.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	expected := []byte{'c', 'a', 'f', 0xE9, '\n'}
	if !bytes.Equal(dest.Bytes(), expected) {
		t.Errorf("Expected ISO-8859-1 output %v, got %v", expected, dest.Bytes())
	}
}

func TestRelay_TranscodesBetweenEncodings(t *testing.T) {
	source := bytes.NewReader([]byte{0xE9, '\n'})
	dest := &bytes.Buffer{}

	r := mustRelay(t, NewOptions(source, dest).
		SetSourceEncoding(charmap.ISO8859_1).
		SetDestinationEncoding(charmap.Windows1252))

	if err := r.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// é occupies the same code point in both charmaps
	if !bytes.Equal(dest.Bytes(), []byte{0xE9, '\n'}) {
		t.Errorf("Expected transcoded output [233 10], got %v", dest.Bytes())
	}
}

func TestRelay_UnencodableTextIsWriteFailure(t *testing.T) {
	// Japanese text cannot be represented in ISO-8859-1; the encoder fails
	source := strings.NewReader("日本語\n")
	dest := &closeRecorder{}

	var reported error
	r := mustRelay(t, NewOptions(source, dest).
		SetDestinationEncoding(charmap.ISO8859_1).
		SetFooter("F\n").
		SetOnError(func(e error) {
			if reported == nil {
				reported = e
			}
		}))

	if err := r.Run(); err == nil {
		t.Fatal("Expected Run to fail on unencodable text")
	}
	if reported == nil {
		t.Error("Expected error callback to be invoked")
	}

	// Terminal failure: footer absent, cleanup still ran
	if strings.Contains(dest.String(), "F") {
		t.Errorf("Expected no footer after encode failure, got %q", dest.String())
	}
	if !dest.closed {
		t.Error("Expected destination to be closed")
	}
}
