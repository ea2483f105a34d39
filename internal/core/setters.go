package core

import (
	"physiconf/pkg/domain"
)

// nonNegative rejects negative values for physically non-negative scalars.
func nonNegative(field string, v float64) error {
	if v < 0 {
		return domain.ErrInvalidValue{Field: field, Value: v, Reason: "must be non-negative"}
	}
	return nil
}

func nonNegativeAll(field string, values []float64) error {
	for _, v := range values {
		if err := nonNegative(field, v); err != nil {
			return err
		}
	}
	return nil
}

// SetCycleModel selects a named cycle model for a cell type and resets both
// timing representations to the absent state so the model defaults apply.
func (m *ConfigModel) SetCycleModel(cellType, model string) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	cm, err := m.templates.CycleModel(model)
	if err != nil {
		return err
	}
	ct.Phenotype.Cycle = domain.Cycle{Code: cm.Code, Name: cm.Name}
	return nil
}

// SetCyclePhaseDurations makes phase durations the active cycle timing
// representation and structurally clears the paired transition rates. An
// empty duration list is recorded as present-empty: explicitly suppressed,
// never re-filled from a default.
func (m *ConfigModel) SetCyclePhaseDurations(cellType string, durations []float64) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	if err := nonNegativeAll("phase_durations", durations); err != nil {
		return err
	}
	ct.Phenotype.Cycle.PhaseDurations = domain.SetField(durations...)
	ct.Phenotype.Cycle.TransitionRates = domain.AbsentField()
	return nil
}

// SetCycleTransitionRates makes transition rates the active cycle timing
// representation and structurally clears the paired phase durations.
func (m *ConfigModel) SetCycleTransitionRates(cellType string, rates []float64) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	if err := nonNegativeAll("phase_transition_rates", rates); err != nil {
		return err
	}
	ct.Phenotype.Cycle.TransitionRates = domain.SetField(rates...)
	ct.Phenotype.Cycle.PhaseDurations = domain.AbsentField()
	return nil
}

func (m *ConfigModel) deathModel(cellType string, kind domain.DeathKind) (*domain.CellType, domain.DeathModel, error) {
	ct, err := m.CellType(cellType)
	if err != nil {
		return nil, domain.DeathModel{}, err
	}
	dm, ok := ct.Phenotype.Death[kind]
	if !ok {
		return nil, domain.DeathModel{}, domain.ErrNotFound{Kind: domain.KindDeathModel, Name: string(kind)}
	}
	return ct, dm, nil
}

// SetDeathRate sets the base rate of one death model.
func (m *ConfigModel) SetDeathRate(cellType string, kind domain.DeathKind, rate float64) error {
	ct, dm, err := m.deathModel(cellType, kind)
	if err != nil {
		return err
	}
	if err := nonNegative("death_rate", rate); err != nil {
		return err
	}
	dm.Rate = rate
	ct.Phenotype.Death[kind] = dm
	return nil
}

// SetDeathPhaseDurations makes phase durations the active timing
// representation for one death model and structurally clears the paired
// transition rates.
func (m *ConfigModel) SetDeathPhaseDurations(cellType string, kind domain.DeathKind, durations []float64) error {
	ct, dm, err := m.deathModel(cellType, kind)
	if err != nil {
		return err
	}
	if err := nonNegativeAll("phase_durations", durations); err != nil {
		return err
	}
	dm.PhaseDurations = domain.SetField(durations...)
	dm.TransitionRates = domain.AbsentField()
	ct.Phenotype.Death[kind] = dm
	return nil
}

// SetDeathTransitionRates makes transition rates the active timing
// representation for one death model and structurally clears the paired
// phase durations.
func (m *ConfigModel) SetDeathTransitionRates(cellType string, kind domain.DeathKind, rates []float64) error {
	ct, dm, err := m.deathModel(cellType, kind)
	if err != nil {
		return err
	}
	if err := nonNegativeAll("phase_transition_rates", rates); err != nil {
		return err
	}
	dm.TransitionRates = domain.SetField(rates...)
	dm.PhaseDurations = domain.AbsentField()
	ct.Phenotype.Death[kind] = dm
	return nil
}

// DeathParameter names one of the six death model scalars.
type DeathParameter string

// Death model parameters.
const (
	DeathUnlysedFluidChangeRate       DeathParameter = "unlysed_fluid_change_rate"
	DeathLysedFluidChangeRate         DeathParameter = "lysed_fluid_change_rate"
	DeathCytoplasmicBiomassChangeRate DeathParameter = "cytoplasmic_biomass_change_rate"
	DeathNuclearBiomassChangeRate     DeathParameter = "nuclear_biomass_change_rate"
	DeathCalcificationRate            DeathParameter = "calcification_rate"
	DeathRelativeRuptureVolume        DeathParameter = "relative_rupture_volume"
)

var deathParameters = []string{
	string(DeathUnlysedFluidChangeRate),
	string(DeathLysedFluidChangeRate),
	string(DeathCytoplasmicBiomassChangeRate),
	string(DeathNuclearBiomassChangeRate),
	string(DeathCalcificationRate),
	string(DeathRelativeRuptureVolume),
}

// SetDeathParameter sets one named death model scalar.
func (m *ConfigModel) SetDeathParameter(cellType string, kind domain.DeathKind, param DeathParameter, value float64) error {
	ct, dm, err := m.deathModel(cellType, kind)
	if err != nil {
		return err
	}
	if err := nonNegative(string(param), value); err != nil {
		return err
	}
	switch param {
	case DeathUnlysedFluidChangeRate:
		dm.Parameters.UnlysedFluidChangeRate = value
	case DeathLysedFluidChangeRate:
		dm.Parameters.LysedFluidChangeRate = value
	case DeathCytoplasmicBiomassChangeRate:
		dm.Parameters.CytoplasmicBiomassChangeRate = value
	case DeathNuclearBiomassChangeRate:
		dm.Parameters.NuclearBiomassChangeRate = value
	case DeathCalcificationRate:
		dm.Parameters.CalcificationRate = value
	case DeathRelativeRuptureVolume:
		dm.Parameters.RelativeRuptureVolume = value
	default:
		return domain.ErrUnknownParameter{Setter: "set_death_parameter", Name: string(param), Valid: deathParameters}
	}
	ct.Phenotype.Death[kind] = dm
	return nil
}

// VolumeParameter names one volume sub-model scalar.
type VolumeParameter string

// Volume parameters.
const (
	VolumeTotal                        VolumeParameter = "total"
	VolumeFluidFraction                VolumeParameter = "fluid_fraction"
	VolumeNuclear                      VolumeParameter = "nuclear"
	VolumeFluidChangeRate              VolumeParameter = "fluid_change_rate"
	VolumeCytoplasmicBiomassChangeRate VolumeParameter = "cytoplasmic_biomass_change_rate"
	VolumeNuclearBiomassChangeRate     VolumeParameter = "nuclear_biomass_change_rate"
	VolumeCalcifiedFraction            VolumeParameter = "calcified_fraction"
	VolumeCalcificationRate            VolumeParameter = "calcification_rate"
	VolumeRelativeRuptureVolume        VolumeParameter = "relative_rupture_volume"
)

var volumeParameters = []string{
	string(VolumeTotal),
	string(VolumeFluidFraction),
	string(VolumeNuclear),
	string(VolumeFluidChangeRate),
	string(VolumeCytoplasmicBiomassChangeRate),
	string(VolumeNuclearBiomassChangeRate),
	string(VolumeCalcifiedFraction),
	string(VolumeCalcificationRate),
	string(VolumeRelativeRuptureVolume),
}

// SetVolumeParameter sets one named volume scalar.
func (m *ConfigModel) SetVolumeParameter(cellType string, param VolumeParameter, value float64) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	if err := nonNegative(string(param), value); err != nil {
		return err
	}
	v := &ct.Phenotype.Volume
	switch param {
	case VolumeTotal:
		v.Total = value
	case VolumeFluidFraction:
		v.FluidFraction = value
	case VolumeNuclear:
		v.Nuclear = value
	case VolumeFluidChangeRate:
		v.FluidChangeRate = value
	case VolumeCytoplasmicBiomassChangeRate:
		v.CytoplasmicBiomassChangeRate = value
	case VolumeNuclearBiomassChangeRate:
		v.NuclearBiomassChangeRate = value
	case VolumeCalcifiedFraction:
		v.CalcifiedFraction = value
	case VolumeCalcificationRate:
		v.CalcificationRate = value
	case VolumeRelativeRuptureVolume:
		v.RelativeRuptureVolume = value
	default:
		return domain.ErrUnknownParameter{Setter: "set_volume_parameter", Name: string(param), Valid: volumeParameters}
	}
	return nil
}

// MechanicsParameter names one mechanics scalar.
type MechanicsParameter string

// Mechanics parameters.
const (
	MechCellCellAdhesionStrength        MechanicsParameter = "cell_cell_adhesion_strength"
	MechCellCellRepulsionStrength       MechanicsParameter = "cell_cell_repulsion_strength"
	MechRelativeMaximumAdhesionDistance MechanicsParameter = "relative_maximum_adhesion_distance"
	MechAttachmentElasticConstant       MechanicsParameter = "attachment_elastic_constant"
	MechAttachmentRate                  MechanicsParameter = "attachment_rate"
	MechDetachmentRate                  MechanicsParameter = "detachment_rate"
)

var mechanicsParameters = []string{
	string(MechCellCellAdhesionStrength),
	string(MechCellCellRepulsionStrength),
	string(MechRelativeMaximumAdhesionDistance),
	string(MechAttachmentElasticConstant),
	string(MechAttachmentRate),
	string(MechDetachmentRate),
}

// SetMechanicsParameter sets one named mechanics scalar.
func (m *ConfigModel) SetMechanicsParameter(cellType string, param MechanicsParameter, value float64) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	if err := nonNegative(string(param), value); err != nil {
		return err
	}
	mech := &ct.Phenotype.Mechanics
	switch param {
	case MechCellCellAdhesionStrength:
		mech.CellCellAdhesionStrength = value
	case MechCellCellRepulsionStrength:
		mech.CellCellRepulsionStrength = value
	case MechRelativeMaximumAdhesionDistance:
		mech.RelativeMaximumAdhesionDistance = value
	case MechAttachmentElasticConstant:
		mech.AttachmentElasticConstant = value
	case MechAttachmentRate:
		mech.AttachmentRate = value
	case MechDetachmentRate:
		mech.DetachmentRate = value
	default:
		return domain.ErrUnknownParameter{Setter: "set_mechanics_parameter", Name: string(param), Valid: mechanicsParameters}
	}
	return nil
}

// SetCellAdhesionAffinities replaces the entire adhesion-affinity mapping,
// dropping any prior entries including the "default" placeholder.
func (m *ConfigModel) SetCellAdhesionAffinities(cellType string, affinities map[string]float64) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	replacement := make(map[string]float64, len(affinities))
	for target, v := range affinities {
		if err := nonNegative("adhesion_affinity", v); err != nil {
			return err
		}
		replacement[target] = v
	}
	ct.Phenotype.Mechanics.AdhesionAffinities = replacement
	return nil
}

// SetAdhesionAffinity merges a single affinity entry, leaving the rest of
// the mapping untouched.
func (m *ConfigModel) SetAdhesionAffinity(cellType, target string, value float64) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	if err := nonNegative("adhesion_affinity", value); err != nil {
		return err
	}
	if ct.Phenotype.Mechanics.AdhesionAffinities == nil {
		ct.Phenotype.Mechanics.AdhesionAffinities = make(map[string]float64)
	}
	ct.Phenotype.Mechanics.AdhesionAffinities[target] = value
	return nil
}

// PopulateAdhesionAffinities fills in the missing pairwise affinities for
// every cell type with the supplied default, never overwriting an explicit
// entry. The "default" placeholder is dropped once real pairs exist.
func (m *ConfigModel) PopulateAdhesionAffinities(value float64) error {
	if err := nonNegative("adhesion_affinity", value); err != nil {
		return err
	}
	for _, ct := range m.cellTypes {
		mech := &ct.Phenotype.Mechanics
		if mech.AdhesionAffinities == nil {
			mech.AdhesionAffinities = make(map[string]float64, len(m.cellTypeOrder))
		}
		for _, target := range m.cellTypeOrder {
			if _, ok := mech.AdhesionAffinities[target]; !ok {
				mech.AdhesionAffinities[target] = value
			}
		}
		delete(mech.AdhesionAffinities, domain.DefaultAffinityKey)
	}
	return nil
}

// SetMotility sets the motility scalars and enables motility.
func (m *ConfigModel) SetMotility(cellType string, speed, persistenceTime, migrationBias float64) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	if err := nonNegative("speed", speed); err != nil {
		return err
	}
	if err := nonNegative("persistence_time", persistenceTime); err != nil {
		return err
	}
	if migrationBias < 0 || migrationBias > 1 {
		return domain.ErrInvalidValue{Field: "migration_bias", Value: migrationBias, Reason: "must be within [0, 1]"}
	}
	mot := &ct.Phenotype.Motility
	mot.Speed = speed
	mot.PersistenceTime = persistenceTime
	mot.MigrationBias = migrationBias
	mot.Enabled = true
	return nil
}

// DisableMotility turns motility off without discarding its scalars.
func (m *ConfigModel) DisableMotility(cellType string) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	ct.Phenotype.Motility.Enabled = false
	return nil
}

// EnableChemotaxis points single-substrate chemotaxis at the named
// substrate. Direction must be +1 (up the gradient) or -1 (down).
func (m *ConfigModel) EnableChemotaxis(cellType, substrate string, direction int) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	if direction != 1 && direction != -1 {
		return domain.ErrInvalidValue{Field: "chemotaxis_direction", Value: float64(direction), Reason: "must be 1 or -1"}
	}
	ct.Phenotype.Motility.Chemotaxis = domain.Chemotaxis{Enabled: true, Substrate: substrate, Direction: direction}
	return nil
}

// SetChemotacticSensitivity merges one advanced-chemotaxis sensitivity and
// enables advanced chemotaxis.
func (m *ConfigModel) SetChemotacticSensitivity(cellType, substrate string, sensitivity float64) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	adv := &ct.Phenotype.Motility.AdvancedChemotaxis
	if adv.Sensitivities == nil {
		adv.Sensitivities = make(map[string]float64)
	}
	adv.Sensitivities[substrate] = sensitivity
	adv.Enabled = true
	return nil
}

// SetSecretion sets the per-substrate secretion block. The substrate name
// is a weak reference checked at serialization time.
func (m *ConfigModel) SetSecretion(cellType, substrate string, sec domain.Secretion) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	if err := nonNegative("secretion_rate", sec.Rate); err != nil {
		return err
	}
	if err := nonNegative("secretion_target", sec.Target); err != nil {
		return err
	}
	if err := nonNegative("uptake_rate", sec.UptakeRate); err != nil {
		return err
	}
	if ct.Phenotype.Secretion == nil {
		ct.Phenotype.Secretion = make(map[string]domain.Secretion)
	}
	ct.Phenotype.Secretion[substrate] = sec
	return nil
}

// InteractionParameter names one scalar of the cell interactions block.
type InteractionParameter string

// Interaction parameters.
const (
	InteractionApoptoticPhagocytosisRate InteractionParameter = "apoptotic_phagocytosis_rate"
	InteractionNecroticPhagocytosisRate  InteractionParameter = "necrotic_phagocytosis_rate"
	InteractionOtherDeadPhagocytosisRate InteractionParameter = "other_dead_phagocytosis_rate"
	InteractionAttackDamageRate          InteractionParameter = "attack_damage_rate"
	InteractionAttackDuration            InteractionParameter = "attack_duration"
)

var interactionParameters = []string{
	string(InteractionApoptoticPhagocytosisRate),
	string(InteractionNecroticPhagocytosisRate),
	string(InteractionOtherDeadPhagocytosisRate),
	string(InteractionAttackDamageRate),
	string(InteractionAttackDuration),
}

// SetInteractionParameter sets one named cell-interactions scalar.
func (m *ConfigModel) SetInteractionParameter(cellType string, param InteractionParameter, value float64) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	if err := nonNegative(string(param), value); err != nil {
		return err
	}
	in := &ct.Phenotype.Interactions
	switch param {
	case InteractionApoptoticPhagocytosisRate:
		in.ApoptoticPhagocytosisRate = value
	case InteractionNecroticPhagocytosisRate:
		in.NecroticPhagocytosisRate = value
	case InteractionOtherDeadPhagocytosisRate:
		in.OtherDeadPhagocytosisRate = value
	case InteractionAttackDamageRate:
		in.AttackDamageRate = value
	case InteractionAttackDuration:
		in.AttackDuration = value
	default:
		return domain.ErrUnknownParameter{Setter: "set_interaction_parameter", Name: string(param), Valid: interactionParameters}
	}
	return nil
}

// SetLivePhagocytosisRate merges one per-target live phagocytosis rate.
func (m *ConfigModel) SetLivePhagocytosisRate(cellType, target string, rate float64) error {
	return m.setTargetRate(cellType, "live_phagocytosis_rate", target, rate, func(p *domain.Phenotype) *map[string]float64 {
		return &p.Interactions.LivePhagocytosisRates
	})
}

// SetAttackRate merges one per-target attack rate.
func (m *ConfigModel) SetAttackRate(cellType, target string, rate float64) error {
	return m.setTargetRate(cellType, "attack_rate", target, rate, func(p *domain.Phenotype) *map[string]float64 {
		return &p.Interactions.AttackRates
	})
}

// SetFusionRate merges one per-target fusion rate.
func (m *ConfigModel) SetFusionRate(cellType, target string, rate float64) error {
	return m.setTargetRate(cellType, "fusion_rate", target, rate, func(p *domain.Phenotype) *map[string]float64 {
		return &p.Interactions.FusionRates
	})
}

// SetTransformationRate merges one per-target transformation rate.
func (m *ConfigModel) SetTransformationRate(cellType, target string, rate float64) error {
	return m.setTargetRate(cellType, "transformation_rate", target, rate, func(p *domain.Phenotype) *map[string]float64 {
		return &p.Transformations.Rates
	})
}

func (m *ConfigModel) setTargetRate(cellType, field, target string, rate float64, pick func(*domain.Phenotype) *map[string]float64) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	if err := nonNegative(field, rate); err != nil {
		return err
	}
	mp := pick(&ct.Phenotype)
	if *mp == nil {
		*mp = make(map[string]float64)
	}
	(*mp)[target] = rate
	return nil
}

// IntegrityParameter names one cell-integrity scalar.
type IntegrityParameter string

// Integrity parameters.
const (
	IntegrityDamageRate       IntegrityParameter = "damage_rate"
	IntegrityDamageRepairRate IntegrityParameter = "damage_repair_rate"
)

var integrityParameters = []string{
	string(IntegrityDamageRate),
	string(IntegrityDamageRepairRate),
}

// SetIntegrityParameter sets one named cell-integrity scalar.
func (m *ConfigModel) SetIntegrityParameter(cellType string, param IntegrityParameter, value float64) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	if err := nonNegative(string(param), value); err != nil {
		return err
	}
	switch param {
	case IntegrityDamageRate:
		ct.Phenotype.Integrity.DamageRate = value
	case IntegrityDamageRepairRate:
		ct.Phenotype.Integrity.DamageRepairRate = value
	default:
		return domain.ErrUnknownParameter{Setter: "set_integrity_parameter", Name: string(param), Valid: integrityParameters}
	}
	return nil
}

// AddCustomData merges-or-replaces one custom data variable by name,
// preserving insertion order for existing entries.
func (m *ConfigModel) AddCustomData(cellType string, cv domain.CustomVariable) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	if cv.Units == "" {
		cv.Units = "dimensionless"
	}
	for i, existing := range ct.Phenotype.CustomData {
		if existing.Name == cv.Name {
			ct.Phenotype.CustomData[i] = cv
			return nil
		}
	}
	ct.Phenotype.CustomData = append(ct.Phenotype.CustomData, cv)
	return nil
}

// EnableIntracellular attaches a boolean network to the cell type with the
// standard execution defaults.
func (m *ConfigModel) EnableIntracellular(cellType, bndFilename, cfgFilename string) error {
	ct, err := m.CellType(cellType)
	if err != nil {
		return err
	}
	ct.Phenotype.Intracellular = &domain.Intracellular{
		Type:        "maboss",
		BndFilename: bndFilename,
		CfgFilename: cfgFilename,
		Settings: domain.IntracellularSettings{
			IntracellularDt: 12.0,
			Scaling:         10.0,
			StartTime:       0.0,
		},
	}
	return nil
}

func (m *ConfigModel) intracellular(cellType string) (*domain.Intracellular, error) {
	ct, err := m.CellType(cellType)
	if err != nil {
		return nil, err
	}
	if ct.Phenotype.Intracellular == nil {
		return nil, domain.ErrNotFound{Kind: domain.KindIntracellular, Name: cellType}
	}
	return ct.Phenotype.Intracellular, nil
}

// IntracellularParameter names one boolean network execution scalar.
type IntracellularParameter string

// Intracellular parameters.
const (
	IntracellularDt                IntracellularParameter = "intracellular_dt"
	IntracellularTimeStochasticity IntracellularParameter = "time_stochasticity"
	IntracellularScaling           IntracellularParameter = "scaling"
	IntracellularStartTime         IntracellularParameter = "start_time"
)

var intracellularParameters = []string{
	string(IntracellularDt),
	string(IntracellularTimeStochasticity),
	string(IntracellularScaling),
	string(IntracellularStartTime),
}

// SetIntracellularParameter sets one named boolean network scalar. The
// network must be enabled first.
func (m *ConfigModel) SetIntracellularParameter(cellType string, param IntracellularParameter, value float64) error {
	ic, err := m.intracellular(cellType)
	if err != nil {
		return err
	}
	if err := nonNegative(string(param), value); err != nil {
		return err
	}
	switch param {
	case IntracellularDt:
		ic.Settings.IntracellularDt = value
	case IntracellularTimeStochasticity:
		ic.Settings.TimeStochasticity = value
	case IntracellularScaling:
		ic.Settings.Scaling = value
	case IntracellularStartTime:
		ic.Settings.StartTime = value
	default:
		return domain.ErrUnknownParameter{Setter: "set_intracellular_parameter", Name: string(param), Valid: intracellularParameters}
	}
	return nil
}

// SetIntracellularInheritance toggles global inheritance of node states.
func (m *ConfigModel) SetIntracellularInheritance(cellType string, global bool) error {
	ic, err := m.intracellular(cellType)
	if err != nil {
		return err
	}
	ic.Settings.InheritanceGlobal = global
	return nil
}

// AddIntracellularInitialValue assigns an initial boolean state to a node,
// replacing any earlier assignment for the same node.
func (m *ConfigModel) AddIntracellularInitialValue(cellType, node string, value bool) error {
	ic, err := m.intracellular(cellType)
	if err != nil {
		return err
	}
	ic.InitialValues = upsertNodeValue(ic.InitialValues, node, value)
	return nil
}

// AddIntracellularMutation forces a node to a fixed boolean state.
func (m *ConfigModel) AddIntracellularMutation(cellType, node string, value bool) error {
	ic, err := m.intracellular(cellType)
	if err != nil {
		return err
	}
	ic.Mutations = upsertNodeValue(ic.Mutations, node, value)
	return nil
}

func upsertNodeValue(values []domain.NodeValue, node string, value bool) []domain.NodeValue {
	for i, nv := range values {
		if nv.Node == node {
			values[i].Value = value
			return values
		}
	}
	return append(values, domain.NodeValue{Node: node, Value: value})
}

// AddIntracellularInput maps a document-level signal onto a network node.
func (m *ConfigModel) AddIntracellularInput(cellType string, mapping domain.IOMapping) error {
	ic, err := m.intracellular(cellType)
	if err != nil {
		return err
	}
	ic.Inputs = append(ic.Inputs, mapping)
	return nil
}

// AddIntracellularOutput maps a network node onto a document-level behavior.
func (m *ConfigModel) AddIntracellularOutput(cellType string, mapping domain.IOMapping) error {
	ic, err := m.intracellular(cellType)
	if err != nil {
		return err
	}
	ic.Outputs = append(ic.Outputs, mapping)
	return nil
}
