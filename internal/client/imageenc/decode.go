package imageenc

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var ErrMalformedDataURI = errors.New("malformed data URI")

// Decode accepts either convention and returns the raw bytes and MIME type.
// For bare payloads the type is sniffed from the content.
func Decode(s string) ([]byte, string, error) {
	if !strings.HasPrefix(s, "data:") {
		data, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, "", err
		}
		return data, http.DetectContentType(data), nil
	}

	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, "", ErrMalformedDataURI
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", ErrMalformedDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return data, mime, nil
}

// StripDataURI returns the payload of a data URI, or s unchanged.
func StripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if _, payload, ok := strings.Cut(s, ","); ok {
		return payload
	}
	return s
}
