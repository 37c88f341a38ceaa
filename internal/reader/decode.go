package reader

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names the source encoding Decode detected.
type Encoding string

const (
	UTF8    Encoding = "UTF-8"
	UTF16LE Encoding = "UTF-16LE"
	UTF16BE Encoding = "UTF-16BE"
	GB18030 Encoding = "GB18030"
)

// ErrUnknownEncoding is returned for bytes that are neither UTF-8, UTF-16
// with a BOM, nor GB18030.
var ErrUnknownEncoding = errors.New("unrecognized text encoding")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts raw book bytes to normalized text: no BOM and '\n' line
// terminators. UTF-16 is recognized by its BOM; bytes that are not valid
// UTF-8 are tried as GB18030, which covers GBK and GB2312. Input that
// GB18030 can only decode with replacement characters is rejected.
func Decode(data []byte) (string, Encoding, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return Normalize(string(data[len(bomUTF8):])), UTF8, nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(data, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder(), UTF16LE)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(data, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder(), UTF16BE)
	case utf8.Valid(data):
		return Normalize(string(data)), UTF8, nil
	}

	s, enc, err := decodeWith(data, simplifiedchinese.GB18030.NewDecoder(), GB18030)
	if err != nil {
		return "", "", err
	}
	if strings.ContainsRune(s, utf8.RuneError) {
		return "", "", ErrUnknownEncoding
	}
	return s, enc, nil
}

func decodeWith(data []byte, t transform.Transformer, enc Encoding) (string, Encoding, error) {
	out, _, err := transform.Bytes(t, data)
	if err != nil {
		return "", "", fmt.Errorf("decode %s: %w", enc, err)
	}
	if !utf8.Valid(out) {
		return "", "", fmt.Errorf("decode %s: invalid output", enc)
	}
	return Normalize(string(out)), enc, nil
}

// Normalize converts CRLF and lone CR line endings to LF.
func Normalize(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
