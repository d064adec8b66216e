// Package input loads the documents to compare.
//
// Documents can be anything that decodes as text. Input that looks binary is rejected, and input
// that doesn't use UTF-8 is converted to UTF-8 first.
package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrNonText is returned for content that is not valid text in the expected encoding or that
	// looks binary.
	ErrNonText = errors.New("non-text content")
	// ErrTooLarge is returned for content that exceeds the configured maximum size.
	ErrTooLarge = errors.New("content too large")
)

// Only this many bytes are inspected to decide if content is binary. This is the same amount git
// uses.
const sniffLen = 8000

// Options control how documents are read.
type Options struct {
	MaxSize int64  // Maximum size in bytes, 0 means unlimited
	Charset string // Charset of documents without byte order mark, empty means UTF-8
}

// Read reads a document from r and returns it as UTF-8 text.
//
// If the document starts with a byte order mark, it determines the encoding and is removed.
// Otherwise, the document is decoded using opts.Charset. It returns [ErrTooLarge] if the document
// exceeds opts.MaxSize and [ErrNonText] if it doesn't decode as text.
func Read(r io.Reader, opts Options) (string, error) {
	if opts.MaxSize > 0 {
		r = io.LimitReader(r, opts.MaxSize+1)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading document: %v", err)
	}
	if opts.MaxSize > 0 && int64(len(b)) > opts.MaxSize {
		return "", ErrTooLarge
	}
	return Decode(b, opts.Charset)
}

// ReadFile reads the document stored in the file at path, see [Read]. The path "-" denotes
// standard input.
func ReadFile(path string, opts Options) (string, error) {
	if path == "-" {
		return Read(os.Stdin, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if opts.MaxSize > 0 {
		if fi, err := f.Stat(); err == nil && fi.Mode().IsRegular() && fi.Size() > opts.MaxSize {
			return "", fmt.Errorf("reading %s: %w", path, ErrTooLarge)
		}
	}

	text, err := Read(f, opts)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return text, nil
}

var (
	utf8BOM    = []byte{0xef, 0xbb, 0xbf}
	utf16BEBOM = []byte{0xfe, 0xff}
	utf16LEBOM = []byte{0xff, 0xfe}
)

// Decode converts b to UTF-8 text, see [Read].
//
// A charset that names UTF-8 is handled strictly: invalid sequences are rejected instead of being
// replaced.
func Decode(b []byte, charset string) (string, error) {
	var enc encoding.Encoding
	if charset != "" {
		e, err := htmlindex.Get(charset)
		if err != nil {
			return "", fmt.Errorf("unsupported charset %q: %v", charset, err)
		}
		if name, _ := htmlindex.Name(e); name != "utf-8" {
			enc = e
		}
	}

	var text []byte
	switch {
	case enc != nil:
		var err error
		text, _, err = transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), b)
		if err != nil {
			return "", fmt.Errorf("decoding %s: %w", charset, ErrNonText)
		}
	case bytes.HasPrefix(b, utf8BOM):
		text = b[len(utf8BOM):]
	case bytes.HasPrefix(b, utf16BEBOM) || bytes.HasPrefix(b, utf16LEBOM):
		var err error
		text, err = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("decoding UTF-16: %w", ErrNonText)
		}
	default:
		text = b
	}

	s := string(text)
	if err := Check(s); err != nil {
		return "", err
	}
	return s, nil
}

// Check returns [ErrNonText] if text is not valid UTF-8 or if it contains a NUL byte within the
// first 8000 bytes.
func Check(text string) error {
	if !utf8.ValidString(text) || strings.IndexByte(text[:min(len(text), sniffLen)], 0) >= 0 {
		return ErrNonText
	}
	return nil
}

// Extensions lists the file extensions of documents that are known to be text.
var Extensions = []string{".txt", ".json", ".js", ".ts", ".jsx", ".tsx", ".html", ".css", ".md"}

// Accepted reports whether filename has one of the [Extensions].
func Accepted(filename string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(filename)))
}
