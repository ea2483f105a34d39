// Package registry provides the static catalogs consumed by the
// configuration builder: the signal/behavior registry for behavioral rules
// and the template store of reusable phenotype fragments. Both are
// immutable after construction and safe to share across models.
package registry

import (
	"sort"
	"strings"

	"physiconf/pkg/domain"
)

// ContextKind names the contextual parameter a signal or behavior requires.
type ContextKind string

// Context kinds.
const (
	ContextNone           ContextKind = "none"
	ContextSubstrate      ContextKind = "substrate"
	ContextCellType       ContextKind = "cell_type"
	ContextCustomVariable ContextKind = "custom_variable"
)

func (k ContextKind) entityKind() domain.EntityKind {
	switch k {
	case ContextSubstrate:
		return domain.KindSubstrate
	case ContextCellType:
		return domain.KindCellType
	case ContextCustomVariable:
		return domain.KindCustomVariable
	}
	return ""
}

// Context is the set of entity names currently known to a document. It is
// consulted when decoding or validating rules so generated rule files never
// reference entities the rest of the document does not define.
type Context struct {
	Substrates      map[string]struct{}
	CellTypes       map[string]struct{}
	CustomVariables map[string]struct{}
}

// Has reports whether the context contains name under the given kind.
func (c *Context) Has(kind ContextKind, name string) bool {
	if c == nil {
		return false
	}
	switch kind {
	case ContextSubstrate:
		_, ok := c.Substrates[name]
		return ok
	case ContextCellType:
		_, ok := c.CellTypes[name]
		return ok
	case ContextCustomVariable:
		_, ok := c.CustomVariables[name]
		return ok
	}
	return false
}

// exactEntry is a catalog entry whose name carries no contextual parameter.
type exactEntry struct {
	Name        string
	Description string
}

// patternEntry is a catalog entry whose rendered name folds a contextual
// parameter between Prefix and Suffix, e.g. "contact with {cell type}".
type patternEntry struct {
	Prefix      string
	Suffix      string
	Kind        ContextKind
	Description string
}

func (p patternEntry) display() string {
	return p.Prefix + "{" + strings.ReplaceAll(string(p.Kind), "_", " ") + "}" + p.Suffix
}

// match extracts the contextual parameter from a folded name, reporting
// whether the name fits the pattern shape at all.
func (p patternEntry) match(name string) (string, bool) {
	if !strings.HasPrefix(name, p.Prefix) || !strings.HasSuffix(name, p.Suffix) {
		return "", false
	}
	param := name[len(p.Prefix) : len(name)-len(p.Suffix)]
	if param == "" {
		return "", false
	}
	return param, true
}

type catalog struct {
	field    string // "signal" or "behavior"
	exact    []exactEntry
	patterns []patternEntry
	names    []string // cached valid-set listing
}

func newCatalog(field string, exact []exactEntry, patterns []patternEntry) catalog {
	names := make([]string, 0, len(exact)+len(patterns))
	for _, e := range exact {
		names = append(names, e.Name)
	}
	for _, p := range patterns {
		names = append(names, p.display())
	}
	sort.Strings(names)
	return catalog{field: field, exact: exact, patterns: patterns, names: names}
}

// Resolution describes a successfully resolved signal or behavior name.
type Resolution struct {
	Name      string      // folded name as written
	Kind      ContextKind // required context kind
	Parameter string      // extracted contextual parameter, if any
}

// resolve matches name against the catalog. With a nil context the match is
// purely syntactic; with a context, a pattern only resolves when its
// extracted parameter is a known entity, and a syntactic match against an
// unknown entity reports the missing context instead of an unknown name.
func (c *catalog) resolve(name string, ctx *Context) (Resolution, error) {
	for _, e := range c.exact {
		if e.Name == name {
			return Resolution{Name: name, Kind: ContextNone}, nil
		}
	}
	var missing *domain.ErrMissingContext
	for _, p := range c.patterns {
		param, ok := p.match(name)
		if !ok {
			continue
		}
		if ctx == nil || ctx.Has(p.Kind, param) {
			return Resolution{Name: name, Kind: p.Kind, Parameter: param}, nil
		}
		if missing == nil {
			missing = &domain.ErrMissingContext{Field: c.field, Name: name, Parameter: param, Kind: p.Kind.entityKind()}
		}
	}
	if missing != nil {
		return Resolution{}, *missing
	}
	if c.field == "behavior" {
		return Resolution{}, domain.ErrUnknownBehavior{Name: name, Valid: c.names}
	}
	return Resolution{}, domain.ErrUnknownSignal{Name: name, Valid: c.names}
}

// SignalBehaviorRegistry is the static lookup of permitted rule signal and
// behavior names with their required contextual parameters.
type SignalBehaviorRegistry struct {
	signals   catalog
	behaviors catalog
}

// NewSignalBehaviorRegistry constructs the registry with the built-in
// CBHG v3.0 catalog.
func NewSignalBehaviorRegistry() *SignalBehaviorRegistry {
	return &SignalBehaviorRegistry{
		signals:   newCatalog("signal", builtinSignals, builtinSignalPatterns),
		behaviors: newCatalog("behavior", builtinBehaviors, builtinBehaviorPatterns),
	}
}

// ResolveSignal resolves a folded signal name. A nil context performs a
// syntactic check only.
func (r *SignalBehaviorRegistry) ResolveSignal(name string, ctx *Context) (Resolution, error) {
	return r.signals.resolve(name, ctx)
}

// ResolveBehavior resolves a folded behavior name. A nil context performs a
// syntactic check only.
func (r *SignalBehaviorRegistry) ResolveBehavior(name string, ctx *Context) (Resolution, error) {
	return r.behaviors.resolve(name, ctx)
}

// SignalNames returns the sorted valid-set listing, with parameterized
// entries shown in placeholder form.
func (r *SignalBehaviorRegistry) SignalNames() []string {
	return append([]string(nil), r.signals.names...)
}

// BehaviorNames returns the sorted valid-set listing for behaviors.
func (r *SignalBehaviorRegistry) BehaviorNames() []string {
	return append([]string(nil), r.behaviors.names...)
}

var builtinSignals = []exactEntry{
	{Name: "pressure", Description: "local mechanical pressure"},
	{Name: "volume", Description: "total cell volume"},
	{Name: "contact with live cell", Description: "touching any live cell"},
	{Name: "contact with dead cell", Description: "touching any dead cell"},
	{Name: "contact with apoptotic cell", Description: "touching an apoptotic cell"},
	{Name: "contact with necrotic cell", Description: "touching a necrotic cell"},
	{Name: "contact with basement membrane", Description: "touching the basement membrane"},
	{Name: "damage", Description: "accumulated damage"},
	{Name: "damage delivered", Description: "damage dealt to attack targets"},
	{Name: "attacking", Description: "currently attacking another cell"},
	{Name: "dead", Description: "cell is dead"},
	{Name: "total attack time", Description: "cumulative time spent attacking"},
	{Name: "time", Description: "simulation time"},
	{Name: "apoptotic", Description: "cell is in the apoptotic death model"},
	{Name: "necrotic", Description: "cell is in the necrotic death model"},
}

// Pattern order matters: more specific shapes must precede the bare
// substrate pattern, which matches any name syntactically.
var builtinSignalPatterns = []patternEntry{
	{Prefix: "custom:", Kind: ContextCustomVariable, Description: "custom data variable value"},
	{Prefix: "intracellular ", Kind: ContextSubstrate, Description: "internalized substrate amount"},
	{Suffix: " gradient", Kind: ContextSubstrate, Description: "substrate gradient magnitude"},
	{Prefix: "contact with ", Kind: ContextCellType, Description: "touching a cell of the named type"},
	{Kind: ContextSubstrate, Description: "local substrate concentration"},
}

var builtinBehaviors = []exactEntry{
	{Name: "cycle entry", Description: "entry rate into the cycle"},
	{Name: "exit from cycle phase 0", Description: "transition rate out of phase 0"},
	{Name: "exit from cycle phase 1", Description: "transition rate out of phase 1"},
	{Name: "exit from cycle phase 2", Description: "transition rate out of phase 2"},
	{Name: "exit from cycle phase 3", Description: "transition rate out of phase 3"},
	{Name: "exit from cycle phase 4", Description: "transition rate out of phase 4"},
	{Name: "exit from cycle phase 5", Description: "transition rate out of phase 5"},
	{Name: "apoptosis", Description: "apoptotic death rate"},
	{Name: "necrosis", Description: "necrotic death rate"},
	{Name: "migration speed", Description: "motile speed"},
	{Name: "migration bias", Description: "directional bias of migration"},
	{Name: "migration persistence time", Description: "mean persistence time"},
	{Name: "cell-cell adhesion", Description: "adhesion strength"},
	{Name: "cell-cell adhesion elastic constant", Description: "attachment elastic constant"},
	{Name: "cell-cell repulsion", Description: "repulsion strength"},
	{Name: "relative maximum adhesion distance", Description: "adhesion interaction distance"},
	{Name: "phagocytose apoptotic cell", Description: "apoptotic phagocytosis rate"},
	{Name: "phagocytose necrotic cell", Description: "necrotic phagocytosis rate"},
	{Name: "phagocytose other dead cell", Description: "other dead phagocytosis rate"},
	{Name: "attack damage rate", Description: "damage dealt per attack time"},
	{Name: "attack duration", Description: "mean attack duration"},
	{Name: "damage rate", Description: "integrity damage rate"},
	{Name: "damage repair rate", Description: "integrity repair rate"},
}

var builtinBehaviorPatterns = []patternEntry{
	{Prefix: "custom:", Kind: ContextCustomVariable, Description: "custom data variable value"},
	{Prefix: "chemotactic response to ", Kind: ContextSubstrate, Description: "chemotactic sensitivity"},
	{Prefix: "adhesive affinity to ", Kind: ContextCellType, Description: "per-target adhesion affinity"},
	{Prefix: "phagocytose ", Kind: ContextCellType, Description: "live phagocytosis rate"},
	{Prefix: "attack ", Kind: ContextCellType, Description: "attack rate"},
	{Prefix: "fuse to ", Kind: ContextCellType, Description: "fusion rate"},
	{Prefix: "transform to ", Kind: ContextCellType, Description: "transformation rate"},
	{Suffix: " secretion target", Kind: ContextSubstrate, Description: "secretion saturation target"},
	{Suffix: " secretion", Kind: ContextSubstrate, Description: "secretion rate"},
	{Suffix: " uptake", Kind: ContextSubstrate, Description: "uptake rate"},
	{Suffix: " export", Kind: ContextSubstrate, Description: "net export rate"},
}
