package reader

import (
	"errors"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

func TestDecode(t *testing.T) {
	const sample = "第一章 风起\n正文\n"

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(sample))
	if err != nil {
		t.Fatalf("encode UTF-16LE: %v", err)
	}
	utf16be, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(sample))
	if err != nil {
		t.Fatalf("encode UTF-16BE: %v", err)
	}
	gb, err := simplifiedchinese.GB18030.NewEncoder().Bytes([]byte(sample))
	if err != nil {
		t.Fatalf("encode GB18030: %v", err)
	}

	tests := []struct {
		name    string
		data    []byte
		want    string
		wantEnc Encoding
	}{
		{"utf-8", []byte(sample), sample, UTF8},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, sample...), sample, UTF8},
		{"crlf", []byte("第一章 风起\r\n正文\r\n"), sample, UTF8},
		{"utf-16le", utf16le, sample, UTF16LE},
		{"utf-16be", utf16be, sample, UTF16BE},
		{"gb18030", gb, sample, GB18030},
		{"empty", nil, "", UTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc, err := Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode = %q, want %q", got, tt.want)
			}
			if enc != tt.wantEnc {
				t.Errorf("encoding = %s, want %s", enc, tt.wantEnc)
			}
		})
	}
}

func TestDecodeRejectsUnknownBytes(t *testing.T) {
	_, _, err := Decode([]byte{0xff, 0xff, 0x81, 0x30, 'a'})
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("Decode error = %v, want ErrUnknownEncoding", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a\r\nb", "a\nb"},
		{"a\rb", "a\nb"},
		{"a\r\n\rb", "a\n\nb"},
		{"plain\n", "plain\n"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
