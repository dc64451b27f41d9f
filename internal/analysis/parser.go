// Package analysis decodes the summarization model's reply into a fixed
// schema, degrading to a plain-text summary when the model ignores the
// requested structure.
package analysis

import (
	"encoding/json"
	"strings"
)

// StructuredAnalysis is the parsed shape of a model reply. Every field is
// optional on the wire and defaulted here; slices are always non-nil.
type StructuredAnalysis struct {
	Summary     string   `json:"summary"`
	Decisions   []string `json:"decision"`
	Actions     []string `json:"actions"`
	Explicit    []string `json:"explicit"`
	Tacit       []string `json:"tacit"`
	Reasoning   string   `json:"reasoning"`
	Suggestions []string `json:"suggestions"`
}

// outcome is the tagged decode result: either the model honoured the schema
// or it returned free text.
type outcome struct {
	structured bool
	fields     StructuredAnalysis
	text       string
}

// Parse decodes raw model output. On a successful decode each present field
// is taken and each absent one defaulted; a reply that is not valid JSON
// becomes a degraded result whose summary is the raw text verbatim. Parse
// never fails: a model that ignores the requested structure must still
// degrade to a usable summary rather than aborting the pipeline.
func Parse(raw string) StructuredAnalysis {
	return decode(raw).toAnalysis()
}

func decode(raw string) outcome {
	candidate := jsonObjectSubstring(raw)
	if candidate != "" {
		var fields StructuredAnalysis
		if err := json.Unmarshal([]byte(candidate), &fields); err == nil {
			return outcome{structured: true, fields: fields}
		}
	}
	return outcome{text: raw}
}

func (o outcome) toAnalysis() StructuredAnalysis {
	a := o.fields
	if !o.structured {
		a = StructuredAnalysis{Summary: o.text}
	}
	if a.Decisions == nil {
		a.Decisions = []string{}
	}
	if a.Actions == nil {
		a.Actions = []string{}
	}
	if a.Explicit == nil {
		a.Explicit = []string{}
	}
	if a.Tacit == nil {
		a.Tacit = []string{}
	}
	if a.Suggestions == nil {
		a.Suggestions = []string{}
	}
	return a
}

// jsonObjectSubstring trims everything outside the outermost braces so that
// fenced or prefixed model output still decodes. Returns "" when the text
// contains no object at all.
func jsonObjectSubstring(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
