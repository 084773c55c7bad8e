package encode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

var ErrCorruptStream = errors.New("corrupt compressed stream")

// Deflate compresses the signed token at the maximum zlib level. The
// token travels as UTF-8 bytes; the output must inflate with any standard
// RFC 1950 implementation: no custom dictionary, no raw-deflate framing.
func Deflate(token string) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := w.Write([]byte(token)); err != nil {
		w.Close()
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate close: %w", err)
	}
	return buf.Bytes(), nil
}

// Inflate is the exact inverse of Deflate. Truncated or tampered input
// surfaces as ErrCorruptStream.
func Inflate(data []byte) (string, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}
	return string(out), nil
}
