package parser

import (
	"fmt"
	"io"
	"mime"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader wraps an io.Reader so that the payload reaches the JSON decoder as UTF-8.
//
// The body is only transcoded when contentType carries an explicit non UTF-8
// charset parameter; bodies are never sniffed.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	if contentType == "" {
		return body, nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body, nil
	}
	label, ok := params["charset"]
	if !ok {
		return body, nil
	}

	enc, name := charset.Lookup(label)
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	if name == "utf-8" {
		return body, nil
	}
	return enc.NewDecoder().Reader(body), nil
}
