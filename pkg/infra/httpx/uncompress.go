package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

var ErrBodyTooLarge = errors.New("decoded body exceeds limit")

// DecodeBody undoes the Content-Encoding chain of a request body (for example
// "gzip, br"), last applied encoding first. Supported: br, gzip, zstd and
// deflate, either zlib-wrapped or raw. The decoded size is capped at maxSize
// bytes when maxSize is positive.
func DecodeBody(contentEncoding string, body []byte, maxSize int64) ([]byte, error) {
	if contentEncoding == "" {
		return body, nil
	}
	encodings := strings.Split(contentEncoding, ",")
	for i := len(encodings) - 1; i >= 0; i-- {
		var (
			out []byte
			err error
		)
		switch enc := strings.TrimSpace(strings.ToLower(encodings[i])); enc {
		case "br":
			out, err = readAllLimited(brotli.NewReader(bytes.NewReader(body)), maxSize)
		case "gzip", "x-gzip":
			out, err = decodeGzip(body, maxSize)
		case "zstd":
			out, err = decodeZstd(body, maxSize)
		case "deflate":
			out, err = decodeDeflate(body, maxSize)
		case "identity", "":
			continue
		default:
			return nil, fmt.Errorf("unsupported content-encoding: %q", enc)
		}
		if err != nil {
			return nil, err
		}
		body = out
	}
	return body, nil
}

func decodeGzip(body []byte, maxSize int64) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer func() { _ = gr.Close() }()
	return readAllLimited(gr, maxSize)
}

func decodeZstd(body []byte, maxSize int64) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return readAllLimited(dec, maxSize)
}

func decodeDeflate(body []byte, maxSize int64) ([]byte, error) {
	if zr, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
		defer func() { _ = zr.Close() }()
		return readAllLimited(zr, maxSize)
	}
	fr := flate.NewReader(bytes.NewReader(body))
	defer func() { _ = fr.Close() }()
	return readAllLimited(fr, maxSize)
}

func readAllLimited(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		return io.ReadAll(r)
	}
	out, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > maxSize {
		return nil, ErrBodyTooLarge
	}
	return out, nil
}
