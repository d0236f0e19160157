// Package encoding normalizes uploaded statement files to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	CharsetUTF8    = "UTF-8"
	CharsetUTF16LE = "UTF-16LE"
	CharsetUTF16BE = "UTF-16BE"

	// CharsetFallback is assumed when nothing better can be said about the bytes.
	CharsetFallback = "windows-1252"
)

const sniffSize = 4096

var boms = []struct {
	prefix  []byte
	charset string
}{
	{[]byte{0xEF, 0xBB, 0xBF}, CharsetUTF8},
	{[]byte{0xFF, 0xFE}, CharsetUTF16LE},
	{[]byte{0xFE, 0xFF}, CharsetUTF16BE},
}

// decoders maps the chardet names we trust to their x/text decoders.
var decoders = map[string]xencoding.Encoding{
	CharsetUTF16LE: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	CharsetUTF16BE: unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-2":   charmap.ISO8859_2,
	"windows-1250": charmap.Windows1250,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
	"windows-1251": charmap.Windows1251,
}

// Detect wraps r in a reader that yields UTF-8 and reports the charset it settled on.
// A UTF-8 BOM is dropped, UTF-16 is only recognized by its BOM.
func Detect(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("sniffing encoding: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(head, b.prefix) {
			continue
		}

		if b.charset == CharsetUTF8 {
			_, _ = br.Discard(len(b.prefix))
			return br, CharsetUTF8, nil
		}

		return transform.NewReader(br, decoders[b.charset].NewDecoder()), b.charset, nil
	}

	if utf8.Valid(trimPartialRune(head)) {
		return br, CharsetUTF8, nil
	}

	charset := CharsetFallback

	if res, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if res.Charset == CharsetUTF8 {
			return br, CharsetUTF8, nil
		}

		if _, ok := decoders[res.Charset]; ok {
			charset = res.Charset
		}
	}

	return transform.NewReader(br, decoders[charset].NewDecoder()), charset, nil
}

// NewUTF8Reader is Detect without the charset.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	out, _, err := Detect(r)
	return out, err
}

// trimPartialRune drops a multi-byte sequence cut off by the sniff window.
func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if c < utf8.RuneSelf {
			return b
		}

		if utf8.RuneStart(c) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}

			return b
		}
	}

	return b
}
