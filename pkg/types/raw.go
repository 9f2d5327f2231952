// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the study-catalog engine:
// the raw registry document tree, the flattened study metadata record, the
// display-module bundle, and search result shapes.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NameValue is a plain name/value pair.
type NameValue struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Attribute is one entry in a section's attribute list. Name matching is
// case-insensitive everywhere; the canonical spelling is preserved here.
type Attribute struct {
	// Name is the attribute name as spelled in the source document.
	Name string `json:"name"`

	// Value is the attribute value.
	Value string `json:"value"`

	// Reference marks the value as a pointer to another section's accno
	// (used for author affiliations).
	Reference bool `json:"reference,omitempty"`

	// ValQual carries value qualifiers (ontology terms, units) attached
	// to the attribute.
	ValQual []NameValue `json:"valqual,omitempty"`
}

// RawLink is a link entry. The registry emits two shapes: top-level links
// carry type and description directly, section links carry them as
// attributes. LinkType and LinkDescription resolve either form.
type RawLink struct {
	URL         string      `json:"url"`
	Type        string      `json:"type,omitempty"`
	Description string      `json:"description,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

// LinkType returns the direct type field, falling back to a "Type" attribute.
func (l RawLink) LinkType() string {
	if l.Type != "" {
		return l.Type
	}
	return attrValue(l.Attributes, "type")
}

// LinkDescription returns the direct description field, falling back to a
// "Description" attribute.
func (l RawLink) LinkDescription() string {
	if l.Description != "" {
		return l.Description
	}
	return attrValue(l.Attributes, "description")
}

// RawFile is one file entry in a section.
type RawFile struct {
	Name       string      `json:"name,omitempty"`
	Path       string      `json:"path,omitempty"`
	Size       int64       `json:"size,omitempty"`
	Type       string      `json:"type,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// FileList is a file array that tolerates the registry's nested form: an
// entry may be a single file object or an array of file objects (file
// tables). Unmarshalling flattens nested arrays into a single list.
type FileList []RawFile

func (fl *FileList) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*fl = nil
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing file list: %w", err)
	}

	out := make(FileList, 0, len(entries))
	for _, entry := range entries {
		if startsWith(entry, '[') {
			var nested FileList
			if err := json.Unmarshal(entry, &nested); err != nil {
				return err
			}
			out = append(out, nested...)
			continue
		}
		var f RawFile
		if err := json.Unmarshal(entry, &f); err != nil {
			return fmt.Errorf("parsing file entry: %w", err)
		}
		out = append(out, f)
	}
	*fl = out
	return nil
}

// RawSection is one node of the registry's recursive section tree. The wire
// shape is polymorphic: any subsection entry may be a single node or an
// array of nodes, at any depth. The array form is represented by Nodes;
// for a single node Nodes is nil and the other fields describe the node.
type RawSection struct {
	Accno       string       `json:"accno,omitempty"`
	Type        string       `json:"type,omitempty"`
	Attributes  []Attribute  `json:"attributes,omitempty"`
	Files       FileList     `json:"files,omitempty"`
	Links       []RawLink    `json:"links,omitempty"`
	Subsections []RawSection `json:"subsections,omitempty"`

	// Nodes is set when the wire entry was an array of sections.
	Nodes []RawSection `json:"-"`
}

// IsList reports whether this entry was an array of nodes on the wire.
func (s *RawSection) IsList() bool { return s.Nodes != nil }

// rawSectionNode mirrors RawSection without the custom unmarshaller,
// breaking the recursion when decoding the single-node form.
type rawSectionNode struct {
	Accno       string       `json:"accno"`
	Type        string       `json:"type"`
	Attributes  []Attribute  `json:"attributes"`
	Files       FileList     `json:"files"`
	Links       []RawLink    `json:"links"`
	Subsections []RawSection `json:"subsections"`
}

func (s *RawSection) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*s = RawSection{}
		return nil
	}

	if startsWith(data, '[') {
		var nodes []RawSection
		if err := json.Unmarshal(data, &nodes); err != nil {
			return err
		}
		*s = RawSection{Nodes: nodes}
		return nil
	}

	var node rawSectionNode
	if err := json.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("parsing section: %w", err)
	}
	*s = RawSection{
		Accno:       node.Accno,
		Type:        node.Type,
		Attributes:  node.Attributes,
		Files:       node.Files,
		Links:       node.Links,
		Subsections: node.Subsections,
	}
	return nil
}

func (s RawSection) MarshalJSON() ([]byte, error) {
	if s.Nodes != nil {
		return json.Marshal(s.Nodes)
	}
	return json.Marshal(rawSectionNode{
		Accno:       s.Accno,
		Type:        s.Type,
		Attributes:  s.Attributes,
		Files:       s.Files,
		Links:       s.Links,
		Subsections: s.Subsections,
	})
}

// RawDocument is the registry's "get study by accession" response shape.
// Every field may be absent; the extractors substitute sentinels.
type RawDocument struct {
	Accno            string      `json:"accno,omitempty"`
	Title            string      `json:"title,omitempty"`
	Description      string      `json:"description,omitempty"`
	ReleaseDate      string      `json:"rdate,omitempty"`
	ModificationDate string      `json:"mdate,omitempty"`
	Type             string      `json:"type,omitempty"`
	Attributes       []Attribute `json:"attributes,omitempty"`
	Links            []RawLink   `json:"links,omitempty"`
	Section          *RawSection `json:"section,omitempty"`
}

func attrValue(attrs []Attribute, lowerName string) string {
	for _, a := range attrs {
		if equalFoldASCII(a.Name, lowerName) {
			return a.Value
		}
	}
	return ""
}

// equalFoldASCII compares an attribute name against a lower-cased vocabulary
// term without allocating.
func equalFoldASCII(name, lower string) bool {
	if len(name) != len(lower) {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lower[i] {
			return false
		}
	}
	return true
}

func isNull(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

func startsWith(data []byte, c byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == c
}
