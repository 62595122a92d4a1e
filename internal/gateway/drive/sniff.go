package drive

import (
	"bytes"
	"strings"
)

const (
	sniffWindow   = 100
	smallSVGLimit = 10000
)

// DetectContentType trusts a specific header and otherwise sniffs magic bytes.
func DetectContentType(header string, body []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && !strings.EqualFold(header, "application/octet-stream") {
		return header
	}

	head := body
	if len(head) > sniffWindow {
		head = head[:sniffWindow]
	}

	trimmed := bytes.TrimSpace(head)
	for _, prefix := range []string{"<?xml", "<svg", "<!DOCTYPE svg"} {
		if bytes.HasPrefix(trimmed, []byte(prefix)) {
			return "image/svg+xml"
		}
	}

	switch {
	case len(body) >= 3 && bytes.HasPrefix(body, []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case len(body) >= 8 && bytes.HasPrefix(body, []byte{0x89, 0x50, 0x4E, 0x47}):
		return "image/png"
	case len(body) >= 4 && bytes.HasPrefix(body, []byte{0x47, 0x49, 0x46}):
		return "image/gif"
	case bytes.Contains(head, []byte("ftyp")) || bytes.Contains(head, []byte("mp4")):
		return "video/mp4"
	}

	if len(body) < smallSVGLimit {
		return "image/svg+xml"
	}
	return "image/jpeg"
}
