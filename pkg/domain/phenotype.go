package domain

// DefaultAffinityKey is the placeholder adhesion-affinity target present on
// freshly created cell types until affinities are explicitly populated.
const DefaultAffinityKey = "default"

// DeathKind keys the death model mapping.
type DeathKind string

// The two death models recognised by the document schema.
const (
	DeathApoptosis DeathKind = "apoptosis"
	DeathNecrosis  DeathKind = "necrosis"
)

// DeathKinds lists the death models in canonical serialization order.
func DeathKinds() []DeathKind { return []DeathKind{DeathApoptosis, DeathNecrosis} }

// Cycle selects a cycle model and carries exactly one active timing
// representation. Both timing fields are tri-state; the resolver decides
// which one reaches the document.
type Cycle struct {
	Code            int       `json:"code"`
	Name            string    `json:"name"`
	TransitionRates ListField `json:"transition_rates"`
	PhaseDurations  ListField `json:"phase_durations"`
}

// Clone returns a deep copy of the cycle block.
func (c Cycle) Clone() Cycle {
	out := c
	out.TransitionRates = c.TransitionRates.Clone()
	out.PhaseDurations = c.PhaseDurations.Clone()
	return out
}

// DeathParameters are the six named scalars of one death model. All are
// physically non-negative.
type DeathParameters struct {
	UnlysedFluidChangeRate       float64 `json:"unlysed_fluid_change_rate"`
	LysedFluidChangeRate         float64 `json:"lysed_fluid_change_rate"`
	CytoplasmicBiomassChangeRate float64 `json:"cytoplasmic_biomass_change_rate"`
	NuclearBiomassChangeRate     float64 `json:"nuclear_biomass_change_rate"`
	CalcificationRate            float64 `json:"calcification_rate"`
	RelativeRuptureVolume        float64 `json:"relative_rupture_volume"`
}

// DeathModel holds one death model's base rate, parameters, and timing pair.
type DeathModel struct {
	Code            int             `json:"code"`
	Rate            float64         `json:"rate"`
	PhaseDurations  ListField       `json:"phase_durations"`
	TransitionRates ListField       `json:"transition_rates"`
	Parameters      DeathParameters `json:"parameters"`
}

// Clone returns a deep copy of the death model.
func (d DeathModel) Clone() DeathModel {
	out := d
	out.PhaseDurations = d.PhaseDurations.Clone()
	out.TransitionRates = d.TransitionRates.Clone()
	return out
}

// Volume holds the volume sub-model scalars.
type Volume struct {
	Total                        float64 `json:"total"`
	FluidFraction                float64 `json:"fluid_fraction"`
	Nuclear                      float64 `json:"nuclear"`
	FluidChangeRate              float64 `json:"fluid_change_rate"`
	CytoplasmicBiomassChangeRate float64 `json:"cytoplasmic_biomass_change_rate"`
	NuclearBiomassChangeRate     float64 `json:"nuclear_biomass_change_rate"`
	CalcifiedFraction            float64 `json:"calcified_fraction"`
	CalcificationRate            float64 `json:"calcification_rate"`
	RelativeRuptureVolume        float64 `json:"relative_rupture_volume"`
}

// Mechanics holds adhesion/repulsion scalars, attachment scalars, and the
// per-target adhesion-affinity mapping.
type Mechanics struct {
	CellCellAdhesionStrength        float64            `json:"cell_cell_adhesion_strength"`
	CellCellRepulsionStrength       float64            `json:"cell_cell_repulsion_strength"`
	RelativeMaximumAdhesionDistance float64            `json:"relative_maximum_adhesion_distance"`
	AdhesionAffinities              map[string]float64 `json:"adhesion_affinities,omitempty"`
	AttachmentElasticConstant       float64            `json:"attachment_elastic_constant"`
	AttachmentRate                  float64            `json:"attachment_rate"`
	DetachmentRate                  float64            `json:"detachment_rate"`
}

// Chemotaxis configures single-substrate chemotaxis.
type Chemotaxis struct {
	Enabled   bool   `json:"enabled"`
	Substrate string `json:"substrate"`
	Direction int    `json:"direction"`
}

// AdvancedChemotaxis configures multi-substrate chemotaxis.
type AdvancedChemotaxis struct {
	Enabled           bool               `json:"enabled"`
	NormalizeGradient bool               `json:"normalize_gradient"`
	Sensitivities     map[string]float64 `json:"sensitivities,omitempty"`
}

// Motility holds the motility sub-model.
type Motility struct {
	Speed              float64            `json:"speed"`
	PersistenceTime    float64            `json:"persistence_time"`
	MigrationBias      float64            `json:"migration_bias"`
	Enabled            bool               `json:"enabled"`
	Use2D              bool               `json:"use_2d"`
	Chemotaxis         Chemotaxis         `json:"chemotaxis"`
	AdvancedChemotaxis AdvancedChemotaxis `json:"advanced_chemotaxis"`
}

// Secretion holds per-substrate secretion/uptake scalars.
type Secretion struct {
	Rate          float64 `json:"rate"`
	Target        float64 `json:"target"`
	UptakeRate    float64 `json:"uptake_rate"`
	NetExportRate float64 `json:"net_export_rate"`
}

// CellInteractions holds phagocytosis, attack, and fusion parameters.
// The per-target mappings are name-based weak references.
type CellInteractions struct {
	ApoptoticPhagocytosisRate float64            `json:"apoptotic_phagocytosis_rate"`
	NecroticPhagocytosisRate  float64            `json:"necrotic_phagocytosis_rate"`
	OtherDeadPhagocytosisRate float64            `json:"other_dead_phagocytosis_rate"`
	LivePhagocytosisRates     map[string]float64 `json:"live_phagocytosis_rates,omitempty"`
	AttackRates               map[string]float64 `json:"attack_rates,omitempty"`
	AttackDamageRate          float64            `json:"attack_damage_rate"`
	AttackDuration            float64            `json:"attack_duration"`
	FusionRates               map[string]float64 `json:"fusion_rates,omitempty"`
}

// CellTransformations holds per-target transformation rates.
type CellTransformations struct {
	Rates map[string]float64 `json:"rates,omitempty"`
}

// CellIntegrity holds damage accumulation parameters.
type CellIntegrity struct {
	DamageRate       float64 `json:"damage_rate"`
	DamageRepairRate float64 `json:"damage_repair_rate"`
}

// CustomVariable is one per-cell custom data entry.
type CustomVariable struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Units       string  `json:"units"`
	Description string  `json:"description,omitempty"`
	Conserved   bool    `json:"conserved"`
}

// NodeValue assigns a boolean state to one intracellular network node.
type NodeValue struct {
	Node  string `json:"node"`
	Value bool   `json:"value"`
}

// IntracellularSettings holds the boolean network execution parameters.
type IntracellularSettings struct {
	IntracellularDt   float64 `json:"intracellular_dt"`
	TimeStochasticity float64 `json:"time_stochasticity"`
	Scaling           float64 `json:"scaling"`
	StartTime         float64 `json:"start_time"`
	InheritanceGlobal bool    `json:"inheritance_global"`
}

// IOMapping links a document-level signal or behavior to an intracellular
// network node.
type IOMapping struct {
	PhysiCellName       string  `json:"physicell_name"`
	IntracellularName   string  `json:"intracellular_name"`
	Action              string  `json:"action"`
	Threshold           float64 `json:"threshold"`
	InactivityThreshold float64 `json:"inactivity_threshold"`
	Smoothing           int     `json:"smoothing"`
}

// Intracellular is the optional boolean network attachment.
type Intracellular struct {
	Type          string                `json:"type"`
	BndFilename   string                `json:"bnd_filename"`
	CfgFilename   string                `json:"cfg_filename"`
	Settings      IntracellularSettings `json:"settings"`
	InitialValues []NodeValue           `json:"initial_values,omitempty"`
	Mutations     []NodeValue           `json:"mutations,omitempty"`
	Inputs        []IOMapping           `json:"inputs,omitempty"`
	Outputs       []IOMapping           `json:"outputs,omitempty"`
}

// Clone returns a deep copy of the intracellular attachment.
func (i *Intracellular) Clone() *Intracellular {
	if i == nil {
		return nil
	}
	out := *i
	out.InitialValues = append([]NodeValue(nil), i.InitialValues...)
	out.Mutations = append([]NodeValue(nil), i.Mutations...)
	out.Inputs = append([]IOMapping(nil), i.Inputs...)
	out.Outputs = append([]IOMapping(nil), i.Outputs...)
	return &out
}

// Phenotype is the nested behavioral model owned by exactly one cell type.
type Phenotype struct {
	Cycle           Cycle                     `json:"cycle"`
	Death           map[DeathKind]DeathModel  `json:"death"`
	Volume          Volume                    `json:"volume"`
	Mechanics       Mechanics                 `json:"mechanics"`
	Motility        Motility                  `json:"motility"`
	Secretion       map[string]Secretion      `json:"secretion,omitempty"`
	Interactions    CellInteractions          `json:"interactions"`
	Transformations CellTransformations       `json:"transformations"`
	Integrity       CellIntegrity             `json:"integrity"`
	CustomData      []CustomVariable          `json:"custom_data,omitempty"`
	Intracellular   *Intracellular            `json:"intracellular,omitempty"`
}

// Clone returns a deep copy so template overlays never share mutable state.
func (p Phenotype) Clone() Phenotype {
	out := p
	out.Cycle = p.Cycle.Clone()
	if p.Death != nil {
		out.Death = make(map[DeathKind]DeathModel, len(p.Death))
		for k, v := range p.Death {
			out.Death[k] = v.Clone()
		}
	}
	out.Mechanics.AdhesionAffinities = cloneFloatMap(p.Mechanics.AdhesionAffinities)
	out.Motility.AdvancedChemotaxis.Sensitivities = cloneFloatMap(p.Motility.AdvancedChemotaxis.Sensitivities)
	if p.Secretion != nil {
		out.Secretion = make(map[string]Secretion, len(p.Secretion))
		for k, v := range p.Secretion {
			out.Secretion[k] = v
		}
	}
	out.Interactions.LivePhagocytosisRates = cloneFloatMap(p.Interactions.LivePhagocytosisRates)
	out.Interactions.AttackRates = cloneFloatMap(p.Interactions.AttackRates)
	out.Interactions.FusionRates = cloneFloatMap(p.Interactions.FusionRates)
	out.Transformations.Rates = cloneFloatMap(p.Transformations.Rates)
	out.CustomData = append([]CustomVariable(nil), p.CustomData...)
	out.Intracellular = p.Intracellular.Clone()
	return out
}

func cloneFloatMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
