// Package importer ingests sidebar templates from external sources: it
// classifies an arbitrary decoded JSON document as an item, a group, or a
// whole specification, and merges the result into an existing spec.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SaxonF/supawatch/internal/sidebar"
)

// Kind is the classified template shape.
type Kind string

const (
	// KindItem is a standalone item; the caller supplies the target group.
	KindItem Kind = "item"
	// KindGroup is a standalone group.
	KindGroup Kind = "group"
	// KindSpec is a whole specification; merging it replaces the target.
	KindSpec Kind = "spec"
)

// ErrUnrecognizedTemplate is returned when a document matches none of the
// known template shapes. No best-effort guess is made.
var ErrUnrecognizedTemplate = errors.New("unrecognized template shape")

// Payload is the classifier's output. Exactly one of Spec, Group, Item is
// populated according to Kind. GroupID is set only when an item envelope
// carried one. Payloads are transient and never persisted.
type Payload struct {
	Kind    Kind
	GroupID string
	Spec    *sidebar.Spec
	Group   *sidebar.Group
	Item    *sidebar.Item
}

// classifier is one total predicate over a decoded JSON object. It reports
// whether the shape matched; a match may still fail to decode (for example
// a group declaring two population strategies), which aborts the chain.
type classifier func(obj map[string]any) (*Payload, bool, error)

// chain is evaluated in strict precedence order, first match wins. The
// shapes are not disjoint (a full spec's first group can look like a
// standalone group), so the order is part of the contract.
var chain = []classifier{
	classifySpec,
	classifyGroup,
	classifyItem,
	classifyItemEnvelope,
	classifyGroupEnvelope,
}

// Classify determines which template shape a decoded JSON value represents.
// Non-object values (null, arrays, primitives) are unrecognized.
func Classify(raw any) (*Payload, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrUnrecognizedTemplate
	}
	for _, c := range chain {
		payload, matched, err := c(obj)
		if err != nil {
			return nil, err
		}
		if matched {
			return payload, nil
		}
	}
	return nil, ErrUnrecognizedTemplate
}

// ClassifyJSON decodes raw JSON and classifies it.
func ClassifyJSON(data []byte) (*Payload, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedTemplate, err)
	}
	return Classify(raw)
}

func classifySpec(obj map[string]any) (*Payload, bool, error) {
	if _, ok := obj["groups"].([]any); !ok {
		return nil, false, nil
	}
	var spec sidebar.Spec
	if err := decodeInto(obj, &spec); err != nil {
		return nil, false, err
	}
	if err := spec.Validate(); err != nil {
		return nil, false, err
	}
	return &Payload{Kind: KindSpec, Spec: &spec}, true, nil
}

func classifyGroup(obj map[string]any) (*Payload, bool, error) {
	if !looksLikeGroup(obj) {
		return nil, false, nil
	}
	var group sidebar.Group
	if err := decodeInto(obj, &group); err != nil {
		return nil, false, err
	}
	return &Payload{Kind: KindGroup, Group: &group}, true, nil
}

func classifyItem(obj map[string]any) (*Payload, bool, error) {
	if !looksLikeItem(obj) {
		return nil, false, nil
	}
	var item sidebar.Item
	if err := decodeInto(obj, &item); err != nil {
		return nil, false, err
	}
	return &Payload{Kind: KindItem, Item: &item}, true, nil
}

func classifyItemEnvelope(obj map[string]any) (*Payload, bool, error) {
	if obj["type"] != string(KindItem) {
		return nil, false, nil
	}
	groupID, ok := obj["groupId"].(string)
	if !ok {
		return nil, false, nil
	}
	inner, ok := obj["item"].(map[string]any)
	if !ok || !looksLikeItem(inner) {
		return nil, false, nil
	}
	var item sidebar.Item
	if err := decodeInto(inner, &item); err != nil {
		return nil, false, err
	}
	return &Payload{Kind: KindItem, GroupID: groupID, Item: &item}, true, nil
}

func classifyGroupEnvelope(obj map[string]any) (*Payload, bool, error) {
	if obj["type"] != string(KindGroup) {
		return nil, false, nil
	}
	inner, ok := obj["group"].(map[string]any)
	if !ok || !looksLikeGroup(inner) {
		return nil, false, nil
	}
	var group sidebar.Group
	if err := decodeInto(inner, &group); err != nil {
		return nil, false, err
	}
	return &Payload{Kind: KindGroup, Group: &group}, true, nil
}

// looksLikeGroup checks the structural shape of a group: string id and name
// plus at least one population-strategy field.
func looksLikeGroup(obj map[string]any) bool {
	if !hasString(obj, "id") || !hasString(obj, "name") {
		return false
	}
	if _, ok := obj["items"].([]any); ok {
		return true
	}
	if _, ok := obj["itemTemplate"].(map[string]any); ok {
		return true
	}
	if _, ok := obj["itemsSource"].(map[string]any); ok {
		return true
	}
	if _, ok := obj["itemsQuery"].(string); ok {
		return true
	}
	return obj["itemsFromState"] == sidebar.StateSourceTabs
}

// looksLikeItem checks the structural shape of an item: string id and name
// plus an array of queries.
func looksLikeItem(obj map[string]any) bool {
	if !hasString(obj, "id") || !hasString(obj, "name") {
		return false
	}
	_, ok := obj["queries"].([]any)
	return ok
}

func hasString(obj map[string]any, key string) bool {
	s, ok := obj[key].(string)
	return ok && s != ""
}

// decodeInto re-marshals a decoded JSON subtree into a typed value so that
// load-time validation (strategy construction, visibility defaults) runs.
// Unknown extra fields are ignored for forward compatibility.
func decodeInto(obj map[string]any, dst any) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
