// Package encoding normalises archive bytes to UTF-8 before XML parsing.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source encodings reported by Detect.
const (
	UTF8        = "UTF-8"
	UTF8BOM     = "UTF-8-BOM"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO88599    = "ISO-8859-9"
)

const peekSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detect sniffs the encoding of r and returns a reader yielding UTF-8 along
// with the name of the source encoding.
//
// Detection order: byte order mark, UTF-8 validity of the first 4 KiB,
// chardet heuristics, then Windows-1252 as the fallback.
func Detect(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, peekSize)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, UTF8BOM, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), UTF16LE, nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		decoder := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), UTF16BE, nil
	}

	if utf8.Valid(trimPartialRune(buf)) {
		return br, UTF8, nil
	}

	result, detectErr := chardet.NewTextDetector().DetectBest(buf)
	if detectErr == nil {
		switch result.Charset {
		case "UTF-8":
			return br, UTF8, nil
		case "ISO-8859-9":
			return transform.NewReader(br, charmap.ISO8859_9.NewDecoder()), ISO88599, nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), Windows1252, nil
}

// IsTranscoded reports whether Detect rewrote the bytes of a source with
// the given encoding.
func IsTranscoded(name string) bool {
	return name != UTF8 && name != UTF8BOM
}

// trimPartialRune drops an incomplete multi-byte sequence cut off at the end
// of a peek window.
func trimPartialRune(buf []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(buf); i++ {
		c := buf[len(buf)-i]
		if c < 0x80 {
			return buf
		}
		if utf8.RuneStart(c) {
			if !utf8.FullRune(buf[len(buf)-i:]) {
				return buf[:len(buf)-i]
			}
			return buf
		}
	}
	return buf
}
