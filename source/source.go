// Package source defines the playback source: the bundled default clip or an
// externally picked one.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind distinguishes the bundled default clip from a picked one.
type Kind int

const (
	KindDefault Kind = iota
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindExternal:
		return "external"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrEmptyRef is returned when an external source is built from a blank reference.
var ErrEmptyRef = errors.New("external reference is empty")

// Source is the active playback source. Ref is set if and only if Kind is KindExternal.
type Source struct {
	kind Kind
	ref  string
}

// Default returns the bundled default source.
func Default() Source {
	return Source{kind: KindDefault}
}

// External returns a source for a picked clip.
func External(ref string) (Source, error) {
	if strings.TrimSpace(ref) == "" {
		return Source{}, ErrEmptyRef
	}
	return Source{kind: KindExternal, ref: ref}, nil
}

// Kind returns the source kind.
func (s Source) Kind() Kind {
	return s.kind
}

// Ref returns the external reference, empty for the default source.
func (s Source) Ref() string {
	return s.ref
}

// IsExternal reports whether the source is a picked clip.
func (s Source) IsExternal() bool {
	return s.kind == KindExternal
}

// Equal reports whether both sources designate the same clip.
func (s Source) Equal(other Source) bool {
	return s.kind == other.kind && s.ref == other.ref
}

func (s Source) String() string {
	if s.IsExternal() {
		return s.ref
	}
	return "default clip"
}

// Document is the serialized form of a Source.
type Document struct {
	Kind string `json:"kind" jsonschema:"enum=default,enum=external,description=Whether the bundled default clip or a picked clip is active."`
	Ref  string `json:"ref,omitempty" jsonschema:"description=Reference of the picked clip. Present only for external sources."`
}

// Document returns the serialized form of s.
func (s Source) Document() Document {
	return Document{Kind: s.kind.String(), Ref: s.ref}
}

// MarshalJSON encodes the source as a Document.
func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Document())
}

// UnmarshalJSON decodes a Document, enforcing the ref invariant.
func (s *Source) UnmarshalJSON(data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	switch doc.Kind {
	case KindDefault.String():
		if doc.Ref != "" {
			return fmt.Errorf("default source carries a reference %q", doc.Ref)
		}
		*s = Default()
		return nil
	case KindExternal.String():
		parsed, err := External(doc.Ref)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	default:
		return fmt.Errorf("unknown source kind %q", doc.Kind)
	}
}
