package registry

import (
	"sort"

	"physiconf/pkg/domain"
)

// CycleModel is an immutable cycle model fragment: the schema's numeric
// code, the phase count, and the default transition rates used when a cell
// type never overrides its cycle timing.
type CycleModel struct {
	Name         string
	Code         int
	Phases       int
	DefaultRates []float64
}

// DeathModel is an immutable death model fragment. Death timing defaults to
// the phase-duration representation.
type DeathModel struct {
	Kind             domain.DeathKind
	Code             int
	DefaultRate      float64
	DefaultDurations []float64
	Parameters       domain.DeathParameters
}

// TemplateStore is the static lookup of reusable default fragments: cycle
// models, death models, and full phenotype templates keyed by name. All
// accessors return copies; the store itself is never mutated after
// construction and may be shared across models.
type TemplateStore struct {
	cycles     map[string]CycleModel
	deaths     map[domain.DeathKind]DeathModel
	phenotypes map[string]domain.Phenotype
}

// NewTemplateStore constructs a store with the built-in fragments.
func NewTemplateStore() *TemplateStore {
	s := &TemplateStore{
		cycles:     make(map[string]CycleModel),
		deaths:     make(map[domain.DeathKind]DeathModel),
		phenotypes: make(map[string]domain.Phenotype),
	}
	for _, m := range builtinCycleModels {
		s.cycles[m.Name] = m
	}
	for _, m := range builtinDeathModels {
		s.deaths[m.Kind] = m
	}
	base := s.basePhenotype()

	motile := base.Clone()
	motile.Motility.Enabled = true
	motile.Motility.Speed = 1.0
	motile.Motility.PersistenceTime = 1.0
	motile.Motility.MigrationBias = 0.5

	secretory := base.Clone()
	secretory.Mechanics.CellCellAdhesionStrength = 0.2

	s.phenotypes["default"] = base
	s.phenotypes["motile"] = motile
	s.phenotypes["secretory"] = secretory
	return s
}

// Template returns a deep copy of the named phenotype template, so later
// mutation of the returned fragment never affects the shared template.
func (s *TemplateStore) Template(name string) (domain.Phenotype, error) {
	p, ok := s.phenotypes[name]
	if !ok {
		return domain.Phenotype{}, domain.ErrNotFound{Kind: domain.KindTemplate, Name: name}
	}
	return p.Clone(), nil
}

// TemplateNames lists the registered phenotype templates.
func (s *TemplateStore) TemplateNames() []string {
	names := make([]string, 0, len(s.phenotypes))
	for name := range s.phenotypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CycleModel returns the named cycle model fragment.
func (s *TemplateStore) CycleModel(name string) (CycleModel, error) {
	m, ok := s.cycles[name]
	if !ok {
		return CycleModel{}, domain.ErrNotFound{Kind: domain.KindCycleModel, Name: name}
	}
	return m.clone(), nil
}

// CycleModelByCode reverse-looks-up a cycle model from its schema code.
// The codec uses this when parsing documents back into a model.
func (s *TemplateStore) CycleModelByCode(code int) (CycleModel, bool) {
	for _, m := range s.cycles {
		if m.Code == code {
			return m.clone(), true
		}
	}
	return CycleModel{}, false
}

// DeathModel returns the fragment for the given death kind.
func (s *TemplateStore) DeathModel(kind domain.DeathKind) (DeathModel, error) {
	m, ok := s.deaths[kind]
	if !ok {
		return DeathModel{}, domain.ErrNotFound{Kind: domain.KindDeathModel, Name: string(kind)}
	}
	return m.clone(), nil
}

// DeathKindByCode reverse-looks-up a death kind from its schema code.
func (s *TemplateStore) DeathKindByCode(code int) (domain.DeathKind, bool) {
	for kind, m := range s.deaths {
		if m.Code == code {
			return kind, true
		}
	}
	return "", false
}

func (m CycleModel) clone() CycleModel {
	m.DefaultRates = append([]float64(nil), m.DefaultRates...)
	return m
}

func (m DeathModel) clone() DeathModel {
	m.DefaultDurations = append([]float64(nil), m.DefaultDurations...)
	return m
}

// basePhenotype assembles the "default" template: live cycle, both death
// models at their defaults, and standard volume/mechanics/motility values.
// Timing fields stay absent so the model-level defaults apply on write.
func (s *TemplateStore) basePhenotype() domain.Phenotype {
	live := s.cycles["live"]
	apo := s.deaths[domain.DeathApoptosis]
	nec := s.deaths[domain.DeathNecrosis]
	return domain.Phenotype{
		Cycle: domain.Cycle{Code: live.Code, Name: live.Name},
		Death: map[domain.DeathKind]domain.DeathModel{
			domain.DeathApoptosis: {Code: apo.Code, Rate: apo.DefaultRate, Parameters: apo.Parameters},
			domain.DeathNecrosis:  {Code: nec.Code, Rate: nec.DefaultRate, Parameters: nec.Parameters},
		},
		Volume: domain.Volume{
			Total:                        2494.0,
			FluidFraction:                0.75,
			Nuclear:                      540.0,
			FluidChangeRate:              0.05,
			CytoplasmicBiomassChangeRate: 0.0045,
			NuclearBiomassChangeRate:     0.0055,
			CalcifiedFraction:            0.0,
			CalcificationRate:            0.0,
			RelativeRuptureVolume:        2.0,
		},
		Mechanics: domain.Mechanics{
			CellCellAdhesionStrength:        0.4,
			CellCellRepulsionStrength:       10.0,
			RelativeMaximumAdhesionDistance: 1.25,
			AdhesionAffinities:              map[string]float64{domain.DefaultAffinityKey: 1.0},
			AttachmentElasticConstant:       0.01,
			AttachmentRate:                  0.0,
			DetachmentRate:                  0.0,
		},
		Motility: domain.Motility{
			Speed:           0.0,
			PersistenceTime: 1.0,
			MigrationBias:   0.0,
			Enabled:         false,
			Use2D:           true,
			Chemotaxis:      domain.Chemotaxis{Direction: 1},
		},
		Interactions: domain.CellInteractions{
			AttackDuration: 0.1,
		},
		Integrity: domain.CellIntegrity{},
	}
}

var builtinCycleModels = []CycleModel{
	{Name: "live", Code: 5, Phases: 1, DefaultRates: []float64{0.00072}},
	{Name: "Ki67 (basic)", Code: 1, Phases: 2, DefaultRates: []float64{0.003623, 0.001290}},
	{Name: "Ki67 (advanced)", Code: 0, Phases: 3, DefaultRates: []float64{0.004761, 0.001282, 0.006667}},
	{Name: "flow cytometry model (basic)", Code: 2, Phases: 3, DefaultRates: []float64{0.00324, 0.00208, 0.00333}},
	{Name: "flow cytometry model (separated)", Code: 6, Phases: 4, DefaultRates: []float64{0.00335, 0.00208, 0.00417, 0.0166}},
}

var builtinDeathModels = []DeathModel{
	{
		Kind:             domain.DeathApoptosis,
		Code:             100,
		DefaultRate:      5.31667e-05,
		DefaultDurations: []float64{516.0},
		Parameters: domain.DeathParameters{
			UnlysedFluidChangeRate:       0.05,
			LysedFluidChangeRate:         0.0,
			CytoplasmicBiomassChangeRate: 0.0166667,
			NuclearBiomassChangeRate:     0.00583333,
			CalcificationRate:            0.0,
			RelativeRuptureVolume:        2.0,
		},
	},
	{
		Kind:             domain.DeathNecrosis,
		Code:             101,
		DefaultRate:      0.0,
		DefaultDurations: []float64{0.0, 86400.0},
		Parameters: domain.DeathParameters{
			UnlysedFluidChangeRate:       0.0111667,
			LysedFluidChangeRate:         0.000833333,
			CytoplasmicBiomassChangeRate: 5.33333e-05,
			NuclearBiomassChangeRate:     0.00216667,
			CalcificationRate:            0.0,
			RelativeRuptureVolume:        2.0,
		},
	},
}
