package utils

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	errNotBase64Image = errors.New("not a base64 image")

	allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
)

// DecodeBase64Image accepts either a data URI ("data:image/png;base64,...")
// or a bare base64 payload and returns the bytes with their sniffed MIME type
// and file extension.
func DecodeBase64Image(raw string) ([]byte, *mimetype.MIME, error) {
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return nil, nil, errNotBase64Image
	}
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ";base64,")
		if idx < 0 {
			return nil, nil, errNotBase64Image
		}
		payload = payload[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, nil, errNotBase64Image
	}

	mime := mimetype.Detect(data)
	if !mimetype.EqualsAny(mime.String(), allowedImageTypes...) {
		return nil, nil, errNotBase64Image
	}
	return data, mime, nil
}
