package entities

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DataURL is a decoded base64 data URL.
type DataURL struct {
	MediaType string
	Data      []byte
}

// ParseDataURL decodes "data:<type>;base64,<payload>".
func ParseDataURL(raw string) (DataURL, error) {
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return DataURL{}, fmt.Errorf("%w: not a data URL", ErrInvalidArgument)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return DataURL{}, fmt.Errorf("%w: data URL without payload", ErrInvalidArgument)
	}
	mediaType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return DataURL{}, fmt.Errorf("%w: data URL is not base64", ErrInvalidArgument)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return DataURL{}, fmt.Errorf("%w: bad base64 payload: %v", ErrInvalidArgument, err)
	}
	return DataURL{MediaType: mediaType, Data: data}, nil
}

// EncodeDataURL builds a base64 data URL.
func EncodeDataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
