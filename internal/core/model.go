// Package core implements the mutable configuration model and the service
// layer that persists and publishes rendered documents.
package core

import (
	"fmt"

	"physiconf/pkg/domain"
	"physiconf/pkg/registry"
)

// ConfigModel is the mutable hierarchical configuration document: domain
// bounds, substrates, cell definitions, behavioral rules, and the scalar
// output sections. It exclusively owns its entities; cross-references
// between them are name-based weak references checked at serialization
// time, so entities may be added in any order.
//
// A model is not safe for concurrent mutation; callers building documents
// concurrently must use independent instances. The injected template store
// and signal registry are immutable and may be shared freely.
type ConfigModel struct {
	templates *registry.TemplateStore
	signals   *registry.SignalBehaviorRegistry

	Domain       domain.SimulationDomain
	Overall      domain.Overall
	Parallel     domain.Parallel
	Save         domain.SaveOptions
	Options      domain.SimulationOptions
	Initial      domain.InitialConditions
	MicroenvOpts domain.MicroenvironmentOptions

	substrates     map[string]*domain.Substrate
	substrateOrder []string
	cellTypes      map[string]*domain.CellType
	cellTypeOrder  []string
	nextCellID     int
	rules          []domain.Rule
	rulesets       map[string]*domain.Ruleset
	rulesetOrder   []string
}

// NewConfigModel constructs an empty model with engine-compatible defaults,
// bound to the supplied immutable registries.
func NewConfigModel(templates *registry.TemplateStore, signals *registry.SignalBehaviorRegistry) *ConfigModel {
	return &ConfigModel{
		templates: templates,
		signals:   signals,
		Domain: domain.SimulationDomain{
			XMin: -500, XMax: 500,
			YMin: -500, YMax: 500,
			ZMin: -10, ZMax: 10,
			DX: 20, DY: 20, DZ: 20,
			Use2D: true,
		},
		Overall: domain.Overall{
			MaxTime:     8640,
			TimeUnits:   "min",
			SpaceUnits:  "micron",
			DtDiffusion: 0.01,
			DtMechanics: 0.1,
			DtPhenotype: 6,
		},
		Parallel: domain.Parallel{OmpNumThreads: 4},
		Save: domain.SaveOptions{
			Folder:           "output",
			FullDataInterval: 60,
			FullDataEnable:   true,
			SVGInterval:      60,
			SVGEnable:        true,
		},
		Options:      domain.SimulationOptions{VirtualWallAtDomainEdge: true},
		MicroenvOpts: domain.MicroenvironmentOptions{CalculateGradients: true},
		substrates:   make(map[string]*domain.Substrate),
		cellTypes:    make(map[string]*domain.CellType),
		rulesets:     make(map[string]*domain.Ruleset),
	}
}

// Templates returns the injected template store.
func (m *ConfigModel) Templates() *registry.TemplateStore { return m.templates }

// Signals returns the injected signal/behavior registry.
func (m *ConfigModel) Signals() *registry.SignalBehaviorRegistry { return m.signals }

// AddSubstrate creates a new microenvironment substrate with neutral
// defaults and returns it for further mutation.
func (m *ConfigModel) AddSubstrate(name string) (*domain.Substrate, error) {
	if _, ok := m.substrates[name]; ok {
		return nil, domain.ErrDuplicateKey{Kind: domain.KindSubstrate, Name: name}
	}
	s := &domain.Substrate{
		Name:                 name,
		ID:                   len(m.substrateOrder),
		Units:                "dimensionless",
		DiffusionCoefficient: 100000.0,
		DecayRate:            0.1,
		InitialCondition:     0.0,
		InitialUnits:         "dimensionless",
	}
	m.substrates[name] = s
	m.substrateOrder = append(m.substrateOrder, name)
	return s, nil
}

// Substrate looks up a substrate by name.
func (m *ConfigModel) Substrate(name string) (*domain.Substrate, error) {
	s, ok := m.substrates[name]
	if !ok {
		return nil, domain.ErrNotFound{Kind: domain.KindSubstrate, Name: name}
	}
	return s, nil
}

// Substrates returns copies of all substrates in creation order.
func (m *ConfigModel) Substrates() []domain.Substrate {
	out := make([]domain.Substrate, 0, len(m.substrateOrder))
	for _, name := range m.substrateOrder {
		out = append(out, m.substrates[name].Clone())
	}
	return out
}

// RemoveSubstrate deletes a substrate and clears every dependent
// per-substrate entry on all cell types: secretion, chemotaxis target, and
// advanced chemotaxis sensitivities. Remaining substrates are renumbered to
// keep IDs contiguous.
func (m *ConfigModel) RemoveSubstrate(name string) error {
	if _, ok := m.substrates[name]; !ok {
		return domain.ErrNotFound{Kind: domain.KindSubstrate, Name: name}
	}
	delete(m.substrates, name)
	order := m.substrateOrder[:0]
	for _, n := range m.substrateOrder {
		if n != name {
			order = append(order, n)
		}
	}
	m.substrateOrder = order
	for i, n := range m.substrateOrder {
		m.substrates[n].ID = i
	}
	for _, ct := range m.cellTypes {
		delete(ct.Phenotype.Secretion, name)
		delete(ct.Phenotype.Motility.AdvancedChemotaxis.Sensitivities, name)
		if ct.Phenotype.Motility.Chemotaxis.Substrate == name {
			ct.Phenotype.Motility.Chemotaxis = domain.Chemotaxis{Direction: ct.Phenotype.Motility.Chemotaxis.Direction}
		}
	}
	return nil
}

// AddCellType creates a cell definition by deep-copying the named phenotype
// template ("" selects "default"), so later mutation never affects the
// shared template or sibling cell types.
func (m *ConfigModel) AddCellType(name, template string) (*domain.CellType, error) {
	if _, ok := m.cellTypes[name]; ok {
		return nil, domain.ErrDuplicateKey{Kind: domain.KindCellType, Name: name}
	}
	if template == "" {
		template = "default"
	}
	phenotype, err := m.templates.Template(template)
	if err != nil {
		return nil, err
	}
	ct := &domain.CellType{
		Name:      name,
		ID:        m.nextCellID,
		Phenotype: phenotype,
	}
	m.nextCellID++
	m.cellTypes[name] = ct
	m.cellTypeOrder = append(m.cellTypeOrder, name)
	return ct, nil
}

// ReserveCellID bumps the internal ID counter past id, so cell types added
// after a parse that restores explicit document IDs never collide with them.
func (m *ConfigModel) ReserveCellID(id int) {
	if id >= m.nextCellID {
		m.nextCellID = id + 1
	}
}

// CellType looks up a cell definition by name.
func (m *ConfigModel) CellType(name string) (*domain.CellType, error) {
	ct, ok := m.cellTypes[name]
	if !ok {
		return nil, domain.ErrNotFound{Kind: domain.KindCellType, Name: name}
	}
	return ct, nil
}

// CellTypes returns copies of all cell definitions in creation order.
func (m *ConfigModel) CellTypes() []domain.CellType {
	out := make([]domain.CellType, 0, len(m.cellTypeOrder))
	for _, name := range m.cellTypeOrder {
		out = append(out, m.cellTypes[name].Clone())
	}
	return out
}

// AddRule appends a behavioral rule after validating its direction, numeric
// fields, and its signal/behavior names against the registry. The cell-type
// reference stays a weak reference; its existence is checked when the
// document is serialized or the rule file validated.
func (m *ConfigModel) AddRule(r domain.Rule) error {
	if r.Direction != domain.DirectionIncreases && r.Direction != domain.DirectionDecreases {
		return domain.ErrInvalidValue{Field: "direction", Reason: fmt.Sprintf("must be %q or %q", domain.DirectionIncreases, domain.DirectionDecreases)}
	}
	if r.SaturationValue < 0 {
		return domain.ErrInvalidValue{Field: "saturation_value", Value: r.SaturationValue, Reason: "must be non-negative"}
	}
	if r.HalfMax <= 0 {
		return domain.ErrInvalidValue{Field: "half_max", Value: r.HalfMax, Reason: "must be positive"}
	}
	if r.HillPower <= 0 {
		return domain.ErrInvalidValue{Field: "hill_power", Value: r.HillPower, Reason: "must be positive"}
	}
	if _, err := m.signals.ResolveSignal(r.Signal, nil); err != nil {
		return err
	}
	if _, err := m.signals.ResolveBehavior(r.Behavior, nil); err != nil {
		return err
	}
	m.rules = append(m.rules, r)
	return nil
}

// Rules returns a copy of all rules in insertion order.
func (m *ConfigModel) Rules() []domain.Rule {
	return append([]domain.Rule(nil), m.rules...)
}

// ClearRules removes every rule.
func (m *ConfigModel) ClearRules() { m.rules = nil }

// AddRuleset registers a rule CSV file in the document.
func (m *ConfigModel) AddRuleset(name, folder, filename string, enabled bool) error {
	if _, ok := m.rulesets[name]; ok {
		return domain.ErrDuplicateKey{Kind: domain.KindRuleset, Name: name}
	}
	if folder == "" {
		folder = "./config"
	}
	if filename == "" {
		filename = "rules.csv"
	}
	m.rulesets[name] = &domain.Ruleset{
		Name:     name,
		Folder:   folder,
		Filename: filename,
		Enabled:  enabled,
		Protocol: "CBHG",
		Version:  "3.0",
		Format:   "csv",
	}
	m.rulesetOrder = append(m.rulesetOrder, name)
	return nil
}

// Rulesets returns copies of all registered rulesets in creation order.
func (m *ConfigModel) Rulesets() []domain.Ruleset {
	out := make([]domain.Ruleset, 0, len(m.rulesetOrder))
	for _, name := range m.rulesetOrder {
		out = append(out, *m.rulesets[name])
	}
	return out
}

// Context assembles the live entity-name sets used to validate rule
// references against the rest of the document.
func (m *ConfigModel) Context() *registry.Context {
	ctx := &registry.Context{
		Substrates:      make(map[string]struct{}, len(m.substrates)),
		CellTypes:       make(map[string]struct{}, len(m.cellTypes)),
		CustomVariables: make(map[string]struct{}),
	}
	for name := range m.substrates {
		ctx.Substrates[name] = struct{}{}
	}
	for name, ct := range m.cellTypes {
		ctx.CellTypes[name] = struct{}{}
		for _, cv := range ct.Phenotype.CustomData {
			ctx.CustomVariables[cv.Name] = struct{}{}
		}
	}
	return ctx
}
