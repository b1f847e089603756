// Binary encoding of span identities: fixed-width id fields plus a JSON
// trailer for anything that does not fit the fixed layout
package spanid

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Field tags inside the fixed section. Stable across wire versions.
const (
	tagObjectID   byte = 1
	tagRowID      byte = 2
	tagSpanID     byte = 3
	tagRootSpanID byte = 4
)

// maxFixedEntries is the single-byte count limit of the fixed section.
const maxFixedEntries = 255

// JSON trailer key per field tag.
var tagNames = map[byte]string{
	tagObjectID:   "object_id",
	tagRowID:      "row_id",
	tagSpanID:     "span_id",
	tagRootSpanID: "root_span_id",
}

// Encode serialises the identity to the versioned binary layout wrapped
// in base64:
//
//	[version][object_type][count][count x (tag, fixed bytes)][JSON trailer]
//
// Each id field is tried at its fixed width first (UUID bytes for V3,
// hex bytes for V4 span ids); values that do not parse degrade to the
// JSON trailer under their field name rather than failing the encode.
func (c *SpanComponents) Encode(v Version) (string, error) {
	switch v {
	case VersionV3, VersionV4:
	default:
		return "", encodingErrorf("cannot encode version %d", v)
	}
	if c.ObjectID != "" && len(c.ComputeObjectMetadataArgs) > 0 {
		return "", fmt.Errorf("span identity has both an object id and metadata lookup args; exactly one may be set")
	}
	if c.ObjectID == "" && len(c.ComputeObjectMetadataArgs) == 0 && c.ObjectType != ObjectTypeUnknown {
		return "", fmt.Errorf("span identity of type %s needs an object id or metadata lookup args", c.ObjectType)
	}

	type entry struct {
		tag  byte
		data []byte
	}
	var fixed []entry
	trailer := make(map[string]any)

	// Absent optional fields are skipped entirely, never written as nulls.
	add := func(tag byte, value string) {
		if value == "" {
			return
		}
		data, err := fixedBytes(v, tag, value)
		if err != nil {
			trailer[tagNames[tag]] = value
			return
		}
		fixed = append(fixed, entry{tag: tag, data: data})
	}
	add(tagObjectID, c.ObjectID)
	add(tagRowID, c.RowID)
	add(tagSpanID, c.SpanID)
	add(tagRootSpanID, c.RootSpanID)

	if len(c.ComputeObjectMetadataArgs) > 0 {
		trailer["compute_object_metadata_args"] = c.ComputeObjectMetadataArgs
	}
	if len(fixed) > maxFixedEntries {
		return "", fmt.Errorf("internal: %d fixed fields exceeds the single-byte count limit", len(fixed))
	}

	buf := []byte{byte(v), byte(c.ObjectType), byte(len(fixed))}
	for _, e := range fixed {
		buf = append(buf, e.tag)
		buf = append(buf, e.data...)
	}
	if len(trailer) > 0 {
		blob, err := json.Marshal(trailer)
		if err != nil {
			return "", fmt.Errorf("marshalling identity metadata: %w", err)
		}
		buf = append(buf, blob...)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// fixedBytes renders one field value at its fixed wire width, or errors
// to signal the JSON-trailer fallback.
func fixedBytes(v Version, tag byte, value string) ([]byte, error) {
	if v >= VersionV4 {
		switch tag {
		case tagSpanID:
			h, err := NormalizeSpanID(value)
			if err != nil {
				return nil, err
			}
			return hex.DecodeString(h)
		case tagRootSpanID:
			h, err := NormalizeTraceID(value)
			if err != nil {
				return nil, err
			}
			return hex.DecodeString(h)
		}
	}

	// UUID-width field. V3 span ids arriving in hex form are lifted to
	// UUIDs by zero-padding so they still fit the fixed section.
	s := value
	if tag == tagSpanID || tag == tagRootSpanID {
		if conv, err := HexToUUID(value); err == nil {
			s = conv
		}
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return u[:], nil
}
