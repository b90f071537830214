package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MaxImageBytes bounds a decoded reference image.
const MaxImageBytes = 5 << 20

var (
	// ErrImageEmpty is returned when the payload decodes to nothing.
	ErrImageEmpty = errors.New("storage: image payload is empty")
	// ErrImageTooLarge is returned when the decoded image exceeds MaxImageBytes.
	ErrImageTooLarge = errors.New("storage: image exceeds size limit")
	// ErrImageNotImage is returned when the decoded bytes are not an image.
	ErrImageNotImage = errors.New("storage: payload is not an image")
)

// DecodeImage decodes a base64 image, with or without a "data:image/...;base64," prefix,
// and sniffs its content type.
func DecodeImage(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		if idx := strings.Index(payload, ","); idx >= 0 {
			payload = payload[idx+1:]
		}
	}
	if payload == "" {
		return nil, "", ErrImageEmpty
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+3 {
		return nil, "", ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return nil, "", fmt.Errorf("storage: decode image: %w", err)
	}
	if len(data) == 0 {
		return nil, "", ErrImageEmpty
	}
	if len(data) > MaxImageBytes {
		return nil, "", ErrImageTooLarge
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", ErrImageNotImage
	}
	return data, contentType, nil
}
