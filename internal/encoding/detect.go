// Package encoding turns uploaded spreadsheets into UTF-8 regardless of the
// locale they were exported from.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 8192

type bom struct {
	prefix []byte
	enc    encoding.Encoding // nil means strip and pass through
}

var boms = []bom{
	{prefix: []byte{0xEF, 0xBB, 0xBF}},
	{prefix: []byte{0xFF, 0xFE}, enc: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{prefix: []byte{0xFE, 0xFF}, enc: unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

// charsets maps chardet names to decoders. Travellers export spreadsheets from
// phones and desktop apps set to the local language, so the CJK legacy
// encodings matter as much as the Latin ones.
var charsets = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
	"Shift_JIS":    japanese.ShiftJIS,
	"EUC-JP":       japanese.EUCJP,
	"ISO-2022-JP":  japanese.ISO2022JP,
	"EUC-KR":       korean.EUCKR,
	"GB-18030":     simplifiedchinese.GB18030,
	"Big5":         traditionalchinese.Big5,
	"UTF-16LE":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"UTF-16BE":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// ForCharset returns the decoder registered for a chardet charset name.
func ForCharset(name string) (encoding.Encoding, bool) {
	enc, ok := charsets[name]
	return enc, ok
}

// Detect names the charset of a sample: "UTF-8" when it is already valid
// UTF-8, the chardet guess when it has a decoder, or "windows-1252".
func Detect(sample []byte) string {
	if utf8.Valid(sample) {
		return "UTF-8"
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		if result.Charset == "UTF-8" {
			return result.Charset
		}

		if _, ok := charsets[result.Charset]; ok {
			return result.Charset
		}
	}

	return "windows-1252"
}

// NewUTF8Reader wraps r so it yields UTF-8. A byte order mark wins over
// detection; otherwise the first few kilobytes are sniffed.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	sample, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(sample, b.prefix) {
			continue
		}

		if b.enc == nil {
			_, _ = br.Discard(len(b.prefix))
			return br, nil
		}

		return transform.NewReader(br, b.enc.NewDecoder()), nil
	}

	charset := Detect(trimPartialRune(sample))
	if charset == "UTF-8" {
		return br, nil
	}

	return transform.NewReader(br, charsets[charset].NewDecoder()), nil
}

// trimPartialRune drops a multi-byte sequence cut off by the peek window so a
// valid UTF-8 file is not misread because of where the sample ended.
func trimPartialRune(b []byte) []byte {
	if len(b) < sniffSize {
		return b
	}

	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}

			break
		}
	}

	return b
}
