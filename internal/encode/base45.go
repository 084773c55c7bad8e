// Package encode implementa las dos transformaciones texto-seguras del
// pipeline: compresión zlib (deflate.go) y el códec Base-45 compatible con
// el modo alfanumérico de códigos QR.
package encode

import (
	"errors"
	"fmt"
	"strings"
)

// Alphabet is the 45-symbol set of the QR alphanumeric mode. Symbol value
// equals its index. This is a protocol constant: reordering it breaks
// every previously issued barcode.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

var ErrInvalidBase45 = errors.New("invalid base45 input")

// reverse lookup: byte -> symbol value, -1 when outside the alphabet.
var alphabetIndex = func() [256]int8 {
	var idx [256]int8
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		idx[Alphabet[i]] = int8(i)
	}
	return idx
}()

// EncodeBase45 maps bytes onto the 45-symbol alphabet: each 2-byte chunk
// becomes 3 symbols (least significant first), a trailing single byte
// becomes 2 symbols.
func EncodeBase45(data []byte) string {
	var b strings.Builder
	b.Grow((len(data)/2)*3 + 2)

	for i := 0; i+1 < len(data); i += 2 {
		n := int(data[i])*256 + int(data[i+1])
		b.WriteByte(Alphabet[n%45])
		b.WriteByte(Alphabet[(n/45)%45])
		b.WriteByte(Alphabet[n/(45*45)])
	}
	if len(data)%2 == 1 {
		n := int(data[len(data)-1])
		b.WriteByte(Alphabet[n%45])
		b.WriteByte(Alphabet[n/45])
	}
	return b.String()
}

// DecodeBase45 inverts EncodeBase45. It rejects strings with a length
// that no chunking can produce (3k+1), symbols outside the alphabet, and
// chunks whose value overflows the 2-byte (or trailing 1-byte) range.
func DecodeBase45(s string) ([]byte, error) {
	if len(s)%3 == 1 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidBase45, len(s))
	}

	vals := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		v := alphabetIndex[s[i]]
		if v < 0 {
			return nil, fmt.Errorf("%w: symbol %q at %d", ErrInvalidBase45, s[i], i)
		}
		vals[i] = int(v)
	}

	out := make([]byte, 0, (len(s)/3)*2+1)
	for i := 0; i+2 < len(vals); i += 3 {
		n := vals[i] + vals[i+1]*45 + vals[i+2]*45*45
		if n > 0xFFFF {
			return nil, fmt.Errorf("%w: chunk overflow at %d", ErrInvalidBase45, i)
		}
		out = append(out, byte(n/256), byte(n%256))
	}
	if len(vals)%3 == 2 {
		n := vals[len(vals)-2] + vals[len(vals)-1]*45
		if n > 0xFF {
			return nil, fmt.Errorf("%w: trailing chunk overflow", ErrInvalidBase45)
		}
		out = append(out, byte(n))
	}
	return out, nil
}

// CheckAlphabet verifies that s contains only alphabet symbols. The
// encoder cannot produce anything else, so a violation here means a codec
// bug and must stop the pipeline before the barcode renderer sees it.
func CheckAlphabet(s string) error {
	for i := 0; i < len(s); i++ {
		if alphabetIndex[s[i]] < 0 {
			return fmt.Errorf("%w: symbol %q at %d outside alphabet", ErrInvalidBase45, s[i], i)
		}
	}
	return nil
}
