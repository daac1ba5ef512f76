package controllers

import (
	"encoding/base64"
	"errors"
	"strings"
)

const maxImageBytes = 5 << 20

var errInvalidImage = errors.New("image must be base64 encoded and at most 5MB")

// decodeImage accepts raw base64 or a data URL ("data:image/png;base64,...").
// An empty string yields nil.
func decodeImage(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return nil, errInvalidImage
		}
		s = s[i+1:]
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(b) > maxImageBytes {
		return nil, errInvalidImage
	}
	return b, nil
}
