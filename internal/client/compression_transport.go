package client

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

const acceptedEncodings = "gzip, br, zstd"

type decoderFunc func(r io.Reader) (io.ReadCloser, error)

// decoders maps a Content-Encoding token to the reader that undoes it.
var decoders = map[string]decoderFunc{
	"gzip": func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	},
	"br": func(r io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(brotli.NewReader(r)), nil
	},
	"zstd": func(r io.Reader) (io.ReadCloser, error) {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	},
}

// compressionTransport advertises gzip, brotli and zstd to TVmaze and
// transparently decodes whichever one the response uses.
type compressionTransport struct {
	next http.RoundTripper
}

func newCompressionTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &compressionTransport{next: next}
}

func (t *compressionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", acceptedEncodings)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return resp, nil
	}

	decode, ok := decoders[parseContentEncoding(resp.Header.Get("Content-Encoding"))]
	if !ok {
		return resp, nil
	}

	decoded, err := decode(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}

	resp.Body = &decodedBody{ReadCloser: decoded, raw: resp.Body}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

// decodedBody closes the decoder and then the underlying connection body.
type decodedBody struct {
	io.ReadCloser
	raw io.Closer
}

func (b *decodedBody) Close() error {
	decErr := b.ReadCloser.Close()
	rawErr := b.raw.Close()
	if decErr != nil {
		return decErr
	}
	return rawErr
}

// parseContentEncoding returns the outermost coding of a Content-Encoding
// header, lower-cased. "identity, gzip" yields "gzip".
func parseContentEncoding(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if i := strings.LastIndexByte(header, ','); i >= 0 {
		header = header[i+1:]
	}
	return strings.ToLower(strings.TrimSpace(header))
}
