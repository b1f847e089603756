// Lossless conversion between hex span/trace ids and UUID wire fields
// V3 buffers carry UUIDs; V4 buffers and OTel both speak fixed-width hex
package spanid

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UUIDToHex converts a canonical UUID string to 32 lowercase hex
// characters by reinterpreting its bytes. Whitespace is ignored.
func UUIDToHex(s string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("parsing uuid %q: %w", s, err)
	}
	return hex.EncodeToString(u[:]), nil
}

// HexToUUID converts a 16- or 32-char hex id to canonical UUID form.
// 16-char span ids are left-zero-padded to 128 bits first.
func HexToUUID(h string) (string, error) {
	h = strings.ToLower(strings.TrimSpace(h))
	switch len(h) {
	case 16:
		h = strings.Repeat("0", 16) + h
	case 32:
	default:
		return "", fmt.Errorf("hex id %q must be 16 or 32 characters, got %d", h, len(h))
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return "", fmt.Errorf("parsing hex id %q: %w", h, err)
	}
	u, err := uuid.FromBytes(b)
	if err != nil {
		return "", fmt.Errorf("converting hex id %q: %w", h, err)
	}
	return u.String(), nil
}

// NormalizeTraceID converts an id in UUID or hex form to the 32-char
// lowercase hex OTel expects for trace ids, left-zero-padding short
// values.
func NormalizeTraceID(s string) (string, error) {
	h, err := normalizeHex(s)
	if err != nil {
		return "", err
	}
	if len(h) > 32 {
		return "", fmt.Errorf("trace id %q is longer than 128 bits", s)
	}
	return strings.Repeat("0", 32-len(h)) + h, nil
}

// NormalizeSpanID converts an id in UUID or hex form to the 16-char
// lowercase hex OTel expects for span ids. Values wider than 64 bits
// are accepted only when the high bits are zero padding.
func NormalizeSpanID(s string) (string, error) {
	h, err := normalizeHex(s)
	if err != nil {
		return "", err
	}
	if len(h) > 16 {
		pad, rest := h[:len(h)-16], h[len(h)-16:]
		if strings.Trim(pad, "0") != "" {
			return "", fmt.Errorf("span id %q does not fit in 64 bits", s)
		}
		return rest, nil
	}
	return strings.Repeat("0", 16-len(h)) + h, nil
}

// normalizeHex reduces a UUID or hex string to bare lowercase hex.
func normalizeHex(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.Contains(s, "-") {
		u, err := uuid.Parse(s)
		if err != nil {
			return "", fmt.Errorf("parsing id %q: %w", s, err)
		}
		return hex.EncodeToString(u[:]), nil
	}
	if s == "" {
		return "", fmt.Errorf("empty id")
	}
	if _, err := hex.DecodeString(pad(s)); err != nil {
		return "", fmt.Errorf("parsing id %q: %w", s, err)
	}
	return s, nil
}

// pad makes a hex string even-length so hex.DecodeString can validate it.
func pad(s string) string {
	if len(s)%2 == 1 {
		return "0" + s
	}
	return s
}
