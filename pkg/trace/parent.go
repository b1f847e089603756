// Logical parent references: which backend collection a trace logs into
// Raw trace/span ids cannot carry this, so it travels as its own string
package trace

import (
	"context"
	"fmt"
	"strings"

	"github.com/braintrustdata/braintrust-go/pkg/spanid"
)

// ParentOtelAttrKey is the span attribute and baggage key carrying the
// logical parent reference. It is set redundantly in both places:
// baggage survives HTTP boundaries, the attribute survives in-process
// parent walks.
const ParentOtelAttrKey = "braintrust.parent"

// ParentType is the kind of collection a Parent points at.
type ParentType string

const (
	ParentTypeProjectID    ParentType = "project_id"
	ParentTypeProjectName  ParentType = "project_name"
	ParentTypeExperimentID ParentType = "experiment_id"
)

// Parent is a logical parent reference such as "project_id:abc123".
type Parent struct {
	Type ParentType
	ID   string
}

func (p Parent) String() string {
	return string(p.Type) + ":" + p.ID
}

// ParseParent parses a "type:id" parent string by fixed-prefix match.
// An unrecognised prefix or an empty id is an error.
func ParseParent(s string) (Parent, error) {
	for _, t := range []ParentType{ParentTypeProjectID, ParentTypeProjectName, ParentTypeExperimentID} {
		prefix := string(t) + ":"
		if strings.HasPrefix(s, prefix) {
			id := s[len(prefix):]
			if id == "" {
				return Parent{}, fmt.Errorf("parent %q has an empty id", s)
			}
			return Parent{Type: t, ID: id}, nil
		}
	}
	return Parent{}, fmt.Errorf("parent %q has no recognized prefix", s)
}

// ParentFromComponents derives the logical parent of a span identity.
// An explicit object id beats the metadata lookup args, and within the
// args a concrete id beats a name. Returns false when the identity has
// nothing to derive a parent from.
func ParentFromComponents(c *spanid.SpanComponents) (Parent, bool) {
	arg := func(key string) (string, bool) {
		v, ok := c.ComputeObjectMetadataArgs[key].(string)
		return v, ok && v != ""
	}

	switch c.ObjectType {
	case spanid.ObjectTypeProjectLogs:
		if c.ObjectID != "" {
			return Parent{Type: ParentTypeProjectID, ID: c.ObjectID}, true
		}
		if id, ok := arg("project_id"); ok {
			return Parent{Type: ParentTypeProjectID, ID: id}, true
		}
		if name, ok := arg("project_name"); ok {
			return Parent{Type: ParentTypeProjectName, ID: name}, true
		}
	case spanid.ObjectTypeExperiment:
		if c.ObjectID != "" {
			return Parent{Type: ParentTypeExperimentID, ID: c.ObjectID}, true
		}
		if id, ok := arg("experiment_id"); ok {
			return Parent{Type: ParentTypeExperimentID, ID: id}, true
		}
	}
	return Parent{}, false
}

// components builds the span identity fields a Parent maps back onto.
func (p Parent) components() *spanid.SpanComponents {
	c := &spanid.SpanComponents{}
	switch p.Type {
	case ParentTypeProjectID:
		c.ObjectType = spanid.ObjectTypeProjectLogs
		c.ObjectID = p.ID
	case ParentTypeProjectName:
		c.ObjectType = spanid.ObjectTypeProjectLogs
		c.ComputeObjectMetadataArgs = map[string]any{"project_name": p.ID}
	case ParentTypeExperimentID:
		c.ObjectType = spanid.ObjectTypeExperiment
		c.ObjectID = p.ID
	}
	return c
}

type parentContextKey struct{}

// SetParent returns a context carrying the logical parent for spans
// started under it.
func SetParent(ctx context.Context, p Parent) context.Context {
	return context.WithValue(ctx, parentContextKey{}, p)
}

// ParentFromContext returns the logical parent installed by SetParent.
func ParentFromContext(ctx context.Context) (Parent, bool) {
	p, ok := ctx.Value(parentContextKey{}).(Parent)
	return p, ok
}
