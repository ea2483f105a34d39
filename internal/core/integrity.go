package core

import (
	"errors"
	"fmt"
	"sort"

	"physiconf/pkg/domain"
)

// ReferenceIssue reports one dangling name-based weak reference found by
// the integrity pass.
type ReferenceIssue struct {
	Entity string            // owning entity, e.g. cell type name or rule position
	Field  string            // mapping or field holding the reference
	Kind   domain.EntityKind // expected referent kind
	Ref    string            // dangling name
}

func (i ReferenceIssue) Error() string {
	return fmt.Sprintf("%s %s references unknown %s %q", i.Entity, i.Field, i.Kind, i.Ref)
}

// CheckReferences runs the centralized reference-integrity pass over every
// name-based weak reference in the document: adhesion affinity targets,
// interaction and transformation targets, secretion and chemotaxis
// substrates, rule cell-type references, and the contextual parameters
// folded into rule signal/behavior names. It is invoked by the XML
// serializer (which fails on any issue) and by the rule validator (which
// surfaces issues without failing).
func (m *ConfigModel) CheckReferences() []ReferenceIssue {
	var issues []ReferenceIssue
	addTargets := func(owner, field string, targets map[string]float64) {
		names := make([]string, 0, len(targets))
		for target := range targets {
			names = append(names, target)
		}
		sort.Strings(names)
		for _, target := range names {
			if target == domain.DefaultAffinityKey {
				// unresolved placeholder, legal in the document
				continue
			}
			if _, ok := m.cellTypes[target]; !ok {
				issues = append(issues, ReferenceIssue{Entity: owner, Field: field, Kind: domain.KindCellType, Ref: target})
			}
		}
	}
	for _, name := range m.cellTypeOrder {
		ct := m.cellTypes[name]
		owner := "cell type " + name
		p := &ct.Phenotype
		addTargets(owner, "adhesion_affinities", p.Mechanics.AdhesionAffinities)
		addTargets(owner, "live_phagocytosis_rates", p.Interactions.LivePhagocytosisRates)
		addTargets(owner, "attack_rates", p.Interactions.AttackRates)
		addTargets(owner, "fusion_rates", p.Interactions.FusionRates)
		addTargets(owner, "transformation_rates", p.Transformations.Rates)

		subs := make([]string, 0, len(p.Secretion))
		for sub := range p.Secretion {
			subs = append(subs, sub)
		}
		sort.Strings(subs)
		for _, sub := range subs {
			if _, ok := m.substrates[sub]; !ok {
				issues = append(issues, ReferenceIssue{Entity: owner, Field: "secretion", Kind: domain.KindSubstrate, Ref: sub})
			}
		}
		if p.Motility.Chemotaxis.Enabled {
			if _, ok := m.substrates[p.Motility.Chemotaxis.Substrate]; !ok {
				issues = append(issues, ReferenceIssue{Entity: owner, Field: "chemotaxis", Kind: domain.KindSubstrate, Ref: p.Motility.Chemotaxis.Substrate})
			}
		}
		sens := make([]string, 0, len(p.Motility.AdvancedChemotaxis.Sensitivities))
		for sub := range p.Motility.AdvancedChemotaxis.Sensitivities {
			sens = append(sens, sub)
		}
		sort.Strings(sens)
		for _, sub := range sens {
			if _, ok := m.substrates[sub]; !ok {
				issues = append(issues, ReferenceIssue{Entity: owner, Field: "chemotactic_sensitivities", Kind: domain.KindSubstrate, Ref: sub})
			}
		}
	}
	if len(m.rules) > 0 {
		ctx := m.Context()
		addContext := func(entity, field string, err error) {
			var missing domain.ErrMissingContext
			if errors.As(err, &missing) {
				issues = append(issues, ReferenceIssue{Entity: entity, Field: field, Kind: missing.Kind, Ref: missing.Parameter})
			}
		}
		for i, r := range m.rules {
			entity := fmt.Sprintf("rule %d", i)
			if _, ok := m.cellTypes[r.CellType]; !ok {
				issues = append(issues, ReferenceIssue{Entity: entity, Field: "cell_type", Kind: domain.KindCellType, Ref: r.CellType})
			}
			if _, err := m.signals.ResolveSignal(r.Signal, ctx); err != nil {
				addContext(entity, "signal", err)
			}
			if _, err := m.signals.ResolveBehavior(r.Behavior, ctx); err != nil {
				addContext(entity, "behavior", err)
			}
		}
	}
	return issues
}
