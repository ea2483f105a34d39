package domain

import (
	"fmt"
	"strings"
)

// EntityKind names the kinds of entities referenced in error reports.
type EntityKind string

// Entity kinds.
const (
	KindSubstrate      EntityKind = "substrate"
	KindCellType       EntityKind = "cell type"
	KindRuleset        EntityKind = "ruleset"
	KindTemplate       EntityKind = "template"
	KindCycleModel     EntityKind = "cycle model"
	KindDeathModel     EntityKind = "death model"
	KindCustomVariable EntityKind = "custom variable"
	KindIntracellular  EntityKind = "intracellular model"
	KindDocument       EntityKind = "document"
)

// ErrNotFound reports a lookup miss for a named entity.
type ErrNotFound struct {
	Kind EntityKind
	Name string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// ErrDuplicateKey reports an attempt to register a name twice.
type ErrDuplicateKey struct {
	Kind EntityKind
	Name string
}

func (e ErrDuplicateKey) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Name)
}

// ErrInvalidValue reports a numeric field assignment outside its legal
// range.
type ErrInvalidValue struct {
	Field  string
	Value  float64
	Reason string
}

func (e ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid value %v for %s: %s", e.Value, e.Field, e.Reason)
}

// ErrUnknownParameter reports a parameter name a setter does not accept,
// carrying the accepted set for the caller.
type ErrUnknownParameter struct {
	Setter string
	Name   string
	Valid  []string
}

func (e ErrUnknownParameter) Error() string {
	return fmt.Sprintf("%s: unknown parameter %q (valid: %s)", e.Setter, e.Name, strings.Join(e.Valid, ", "))
}

// ErrConflict reports a mutually exclusive field pair with both sides
// populated, which has no single legal document rendering.
type ErrConflict struct {
	Entity string
	Field  string
}

func (e ErrConflict) Error() string {
	return fmt.Sprintf("%s: conflicting %s: both paired representations are populated", e.Entity, e.Field)
}

// ErrValidation reports a structurally invalid external document.
type ErrValidation struct {
	Reason string
}

func (e ErrValidation) Error() string {
	return "invalid document: " + e.Reason
}

// ErrUnknownSignal reports a rule signal name the registry does not
// recognize, carrying the valid-set listing.
type ErrUnknownSignal struct {
	Name  string
	Valid []string
}

func (e ErrUnknownSignal) Error() string {
	return fmt.Sprintf("unknown signal %q (valid: %s)", e.Name, strings.Join(e.Valid, ", "))
}

// ErrUnknownBehavior reports a rule behavior name the registry does not
// recognize.
type ErrUnknownBehavior struct {
	Name  string
	Valid []string
}

func (e ErrUnknownBehavior) Error() string {
	return fmt.Sprintf("unknown behavior %q (valid: %s)", e.Name, strings.Join(e.Valid, ", "))
}

// ErrMissingContext reports a syntactically valid signal or behavior whose
// contextual parameter names an entity the document does not define.
type ErrMissingContext struct {
	Field     string // "signal" or "behavior"
	Name      string // folded name as written
	Parameter string // extracted contextual parameter
	Kind      EntityKind
}

func (e ErrMissingContext) Error() string {
	return fmt.Sprintf("%s %q references unknown %s %q", e.Field, e.Name, e.Kind, e.Parameter)
}
