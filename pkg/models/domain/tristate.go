package domain

import "strings"

// TriState is a three-valued boolean for compliance and breach columns
// that arrive in heterogeneous truthy/falsy textual or numeric forms.
type TriState int

const (
	TriAbsent TriState = iota
	TriFalse
	TriTrue
)

// TriStateOf normalizes a raw cell value into a TriState. Unrecognized
// values map to TriAbsent, never an error.
func TriStateOf(raw string) TriState {
	switch strings.TrimSpace(raw) {
	case "true", "True", "TRUE", "1":
		return TriTrue
	case "false", "False", "FALSE", "0":
		return TriFalse
	}
	return TriAbsent
}

func (t TriState) IsTrue() bool  { return t == TriTrue }
func (t TriState) IsFalse() bool { return t == TriFalse }

// Bool returns the value as a nullable boolean for serialization.
func (t TriState) Bool() *bool {
	switch t {
	case TriTrue:
		v := true
		return &v
	case TriFalse:
		v := false
		return &v
	}
	return nil
}

func (t TriState) String() string {
	switch t {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	}
	return "absent"
}
