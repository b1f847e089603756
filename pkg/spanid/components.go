// Portable span identity and the versioned wire format it serialises to
// An encoded identity is compact enough for HTTP headers yet self-describing
package spanid

import "fmt"

// ObjectType identifies which logical collection a span's root belongs to.
type ObjectType int

const (
	ObjectTypeUnknown        ObjectType = 0
	ObjectTypeExperiment     ObjectType = 1
	ObjectTypeProjectLogs    ObjectType = 2
	ObjectTypePlaygroundLogs ObjectType = 3
)

// String returns the snake_case name used in logs and CLI output.
func (t ObjectType) String() string {
	switch t {
	case ObjectTypeExperiment:
		return "experiment"
	case ObjectTypeProjectLogs:
		return "project_logs"
	case ObjectTypePlaygroundLogs:
		return "playground_logs"
	default:
		return "unknown"
	}
}

// Version is the wire-format version byte of an encoded identity.
type Version byte

const (
	// VersionV3 encodes all id fields as 16-byte UUIDs.
	VersionV3 Version = 3
	// VersionV4 encodes span ids as raw hex bytes (8 for span id, 16 for
	// root span id), matching OTel id widths.
	VersionV4 Version = 4
	// MaxVersion is the newest wire version this codec understands.
	MaxVersion Version = VersionV4
)

// PlaceholderRowID marks an identity that did not originate from a real
// logged row, such as one bridged from pure-OTel headers.
const PlaceholderRowID = "otel"

// SpanComponents is the portable descriptor of a span's place in the
// trace tree. SpanID and RootSpanID are canonically 16- and 32-char
// lowercase hex after decoding; identities produced by V3-era loggers
// may carry UUID forms before encoding.
type SpanComponents struct {
	ObjectType                ObjectType
	ObjectID                  string
	ComputeObjectMetadataArgs map[string]any
	RowID                     string
	SpanID                    string
	RootSpanID                string
}

// EncodingError is a hard structural failure while encoding or decoding
// an identity. Its message always names the newest supported wire
// version so mismatched SDK versions are diagnosable from logs alone.
type EncodingError struct {
	Reason     string
	MaxVersion Version
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("span identity: %s (max supported version %d)", e.Reason, e.MaxVersion)
}

func encodingErrorf(format string, args ...any) *EncodingError {
	return &EncodingError{Reason: fmt.Sprintf(format, args...), MaxVersion: MaxVersion}
}

// Validate checks the field presence a decoded identity needs before it
// can be used for cross-service propagation. Absence here is a distinct
// condition from a structural decode failure: the bytes were well
// formed, the identity is just incomplete.
func (c *SpanComponents) Validate() error {
	if c.ObjectType == ObjectTypeUnknown {
		return fmt.Errorf("span identity is missing an object type")
	}
	if c.RowID == "" {
		return fmt.Errorf("span identity is missing a row id")
	}
	if c.SpanID == "" {
		return fmt.Errorf("span identity is missing a span id")
	}
	if c.RootSpanID == "" {
		return fmt.Errorf("span identity is missing a root span id")
	}
	return nil
}
