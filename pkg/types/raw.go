// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Unlimited is the record cap that keeps every record.
const Unlimited = -1

// RawRecord is one source record as tokenized by the retrieval layer: a
// source-specific field name mapped to the values seen for that field, in
// payload order. Most fields carry one value; GEO attributes such as
// sample characteristics may repeat.
type RawRecord map[string][]string

// First returns the first non-blank value of key, trimmed.
func (r RawRecord) First(key string) (string, bool) {
	for _, v := range r[key] {
		if v = strings.TrimSpace(v); v != "" {
			return v, true
		}
	}
	return "", false
}

// Joined returns the non-blank values of key, trimmed and joined with sep.
// The boolean is false when no such value exists.
func (r RawRecord) Joined(key, sep string) (string, bool) {
	var parts []string
	for _, v := range r[key] {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, sep), true
}

// Has reports whether key carries at least one non-blank value.
func (r RawRecord) Has(key string) bool {
	_, ok := r.First(key)
	return ok
}

// Add appends value to key.
func (r RawRecord) Add(key, value string) {
	r[key] = append(r[key], value)
}
