package errors

import (
	"encoding/json"
	"fmt"
)

// Position is a source location independent of any particular tree
// representation, so that every pass (lexer, parser, resolver, lowering)
// can attach one without importing the CST/AST/GIR packages.
type Position struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int    `json:"offset"`
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Report is the canonical structured error type for Gelix. Every pass
// collects a list of *Report instead of halting on the first problem,
// per the "report everything in each pass" propagation rule.
type Report struct {
	Schema  string         `json:"schema"` // always "gelix.error/v1"
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Pos     Position       `json:"pos"`
	Data    map[string]any `json:"data,omitempty"`
}

func (r *Report) Error() string {
	return fmt.Sprintf("%s: %s at %s: %s", r.Code, r.Phase, r.Pos, r.Message)
}

// New builds a Report for the given code at the given position.
func New(code, phase string, pos Position, format string, args ...any) *Report {
	return &Report{
		Schema:  "gelix.error/v1",
		Code:    code,
		Phase:   phase,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// WithData attaches structured data to a report and returns it for chaining.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}

// ToJSON serializes the report deterministically.
func (r *Report) ToJSON(pretty bool) (string, error) {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = json.Marshal(r)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// List is a collection of reports produced by one pass.
type List []*Report

func (l List) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	if len(l) == 1 {
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", l[0].Error(), len(l)-1)
}

// HasErrors reports whether the list is non-empty.
func (l List) HasErrors() bool { return len(l) > 0 }

// Filter returns the subset of reports matching phase.
func (l List) Filter(phase string) List {
	var out List
	for _, r := range l {
		if r.Phase == phase {
			out = append(out, r)
		}
	}
	return out
}
