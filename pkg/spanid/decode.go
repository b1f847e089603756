// Version-dispatched decoding of encoded span identities
// V3 buffers decode through the legacy layout and upgrade to the
// canonical hex id representation; V4 decodes directly
package spanid

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
)

// Decode parses an encoded identity produced by any supported wire
// version. Malformed base64, a version byte newer than MaxVersion, or
// an unrecognised field tag are hard EncodingError failures.
func Decode(s string) (*SpanComponents, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, encodingErrorf("malformed base64: %v", err)
	}
	if len(raw) < 3 {
		return nil, encodingErrorf("buffer too short (%d bytes)", len(raw))
	}
	v := Version(raw[0])
	if v > MaxVersion {
		return nil, encodingErrorf("unsupported wire version %d", v)
	}
	if v < VersionV4 {
		return decodeLegacy(raw)
	}
	return decodeBody(raw, VersionV4)
}

// decodeLegacy handles all pre-V4 buffers via the UUID-based layout,
// then upgrades span ids to the canonical hex representation. The
// legacy path is permanent: old encoded identities stay decodable.
func decodeLegacy(raw []byte) (*SpanComponents, error) {
	c, err := decodeBody(raw, VersionV3)
	if err != nil {
		return nil, err
	}
	// Only fixed-decoded UUIDs convert; trailer strings that were never
	// UUIDs pass through untouched.
	if h, err := UUIDToHex(c.SpanID); err == nil {
		// A zero-padded UUID reduces to the 16-char form a V4 buffer
		// would have carried; genuine 128-bit V3 ids keep all 32 chars.
		if short, err := NormalizeSpanID(h); err == nil {
			c.SpanID = short
		} else {
			c.SpanID = h
		}
	}
	if h, err := UUIDToHex(c.RootSpanID); err == nil {
		c.RootSpanID = h
	}
	return c, nil
}

// decodeBody parses the shared layout with per-version field widths.
func decodeBody(raw []byte, v Version) (*SpanComponents, error) {
	c := &SpanComponents{ObjectType: ObjectType(raw[1])}
	count := int(raw[2])
	off := 3

	for i := 0; i < count; i++ {
		if off >= len(raw) {
			return nil, encodingErrorf("fixed section truncated at entry %d", i)
		}
		tag := raw[off]
		off++
		width, ok := fieldWidth(v, tag)
		if !ok {
			return nil, encodingErrorf("unrecognized field tag %d", tag)
		}
		if off+width > len(raw) {
			return nil, encodingErrorf("fixed section truncated at entry %d", i)
		}
		value, err := decodeFixed(v, tag, raw[off:off+width])
		if err != nil {
			return nil, encodingErrorf("field %s: %v", tagNames[tag], err)
		}
		off += width

		switch tag {
		case tagObjectID:
			c.ObjectID = value
		case tagRowID:
			c.RowID = value
		case tagSpanID:
			c.SpanID = value
		case tagRootSpanID:
			c.RootSpanID = value
		}
	}

	if off < len(raw) {
		if err := mergeTrailer(c, raw[off:]); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// fieldWidth returns the fixed byte width of a tagged field, or false
// for an unknown tag.
func fieldWidth(v Version, tag byte) (int, bool) {
	switch tag {
	case tagObjectID, tagRowID:
		return 16, true
	case tagSpanID:
		if v >= VersionV4 {
			return 8, true
		}
		return 16, true
	case tagRootSpanID:
		return 16, true
	default:
		return 0, false
	}
}

func decodeFixed(v Version, tag byte, data []byte) (string, error) {
	if v >= VersionV4 && (tag == tagSpanID || tag == tagRootSpanID) {
		return hex.EncodeToString(data), nil
	}
	u, err := uuid.FromBytes(data)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// mergeTrailer overlays the trailing JSON blob onto the fixed-decoded
// fields. The trailer wins on collision, which lets future encoders
// override fields without bumping the wire version. A present field of
// the wrong JSON type is corrupt metadata, not an absent field.
func mergeTrailer(c *SpanComponents, blob []byte) error {
	var m map[string]any
	if err := json.Unmarshal(blob, &m); err != nil {
		return encodingErrorf("malformed trailing metadata: %v", err)
	}
	for key, dst := range map[string]*string{
		"object_id":    &c.ObjectID,
		"row_id":       &c.RowID,
		"span_id":      &c.SpanID,
		"root_span_id": &c.RootSpanID,
	} {
		v, ok := m[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return encodingErrorf("trailer field %s is not a string", key)
		}
		*dst = s
	}
	if v, ok := m["compute_object_metadata_args"]; ok {
		args, ok := v.(map[string]any)
		if !ok {
			return encodingErrorf("trailer field compute_object_metadata_args is not an object")
		}
		c.ComputeObjectMetadataArgs = args
	}
	return nil
}
