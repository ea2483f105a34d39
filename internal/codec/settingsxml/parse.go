package settingsxml

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"physiconf/internal/core"
	"physiconf/pkg/domain"
)

// Parse reconstructs a model from a settings XML document. Structural
// validation runs first so schema-level problems surface as validation
// errors instead of partial decodes.
func (c *Codec) Parse(data []byte) (*core.ConfigModel, error) {
	if err := validateStructure(data); err != nil {
		return nil, err
	}
	var doc settingsDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, domain.ErrValidation{Reason: err.Error()}
	}

	m := core.NewConfigModel(c.templates, c.signals)
	m.Domain = domain.SimulationDomain{
		XMin: doc.Domain.XMin, XMax: doc.Domain.XMax,
		YMin: doc.Domain.YMin, YMax: doc.Domain.YMax,
		ZMin: doc.Domain.ZMin, ZMax: doc.Domain.ZMax,
		DX: doc.Domain.DX, DY: doc.Domain.DY, DZ: doc.Domain.DZ,
		Use2D: doc.Domain.Use2D,
	}
	m.Overall = domain.Overall{
		MaxTime:     doc.Overall.MaxTime.Value,
		TimeUnits:   doc.Overall.TimeUnits,
		SpaceUnits:  doc.Overall.SpaceUnits,
		DtDiffusion: doc.Overall.DtDiffusion.Value,
		DtMechanics: doc.Overall.DtMechanics.Value,
		DtPhenotype: doc.Overall.DtPhenotype.Value,
	}
	m.Parallel = domain.Parallel{OmpNumThreads: doc.Parallel.OmpNumThreads}
	m.Save = domain.SaveOptions{
		Folder:           doc.Save.Folder,
		FullDataInterval: doc.Save.FullData.Interval.Value,
		FullDataEnable:   doc.Save.FullData.Enable,
		SVGInterval:      doc.Save.SVG.Interval.Value,
		SVGEnable:        doc.Save.SVG.Enable,
		LegacyData:       doc.Save.LegacyData.Enable,
	}
	m.Options = domain.SimulationOptions{
		VirtualWallAtDomainEdge:         doc.Options.VirtualWallAtDomainEdge,
		DisableAutomatedSpringAdhesions: doc.Options.DisableAutomatedSpringAdhesions,
		RandomSeed:                      doc.Options.RandomSeed,
	}
	m.MicroenvOpts = domain.MicroenvironmentOptions{
		CalculateGradients:          doc.Microenvironment.Options.CalculateGradients,
		TrackInternalizedSubstrates: doc.Microenvironment.Options.TrackInternalizedSubstrates,
	}
	if doc.InitialConditions != nil {
		cp := doc.InitialConditions.CellPositions
		m.Initial = domain.InitialConditions{
			Enabled:  cp.Enabled,
			Folder:   cp.Folder,
			Filename: cp.Filename,
			Type:     cp.Type,
		}
	}

	for _, v := range doc.Microenvironment.Variables {
		s, err := m.AddSubstrate(v.Name)
		if err != nil {
			return nil, err
		}
		s.ID = v.ID
		s.Units = v.Units
		s.DiffusionCoefficient = v.Physical.DiffusionCoefficient.Value
		s.DecayRate = v.Physical.DecayRate.Value
		s.InitialCondition = v.InitialCondition.Value
		s.InitialUnits = v.InitialCondition.Units
		s.DirichletEnabled = v.Dirichlet.Enabled
		s.DirichletValue = v.Dirichlet.Value
		if v.DirichletOptions != nil {
			s.DirichletOptions = make(map[domain.BoundaryFace]domain.FaceCondition, len(v.DirichletOptions.BoundaryValues))
			for _, bv := range v.DirichletOptions.BoundaryValues {
				s.DirichletOptions[domain.BoundaryFace(bv.ID)] = domain.FaceCondition{
					Enabled: bv.Enabled,
					Value:   bv.Value,
				}
			}
		}
	}

	for _, cd := range doc.CellDefinitions.CellDefinitions {
		ct, err := m.AddCellType(cd.Name, "")
		if err != nil {
			return nil, err
		}
		ct.ID = cd.ID
		m.ReserveCellID(cd.ID)
		ct.ParentType = cd.ParentType
		phenotype, err := c.parsePhenotype(cd)
		if err != nil {
			return nil, err
		}
		ct.Phenotype = phenotype
	}

	if doc.CellRules != nil {
		for _, rs := range doc.CellRules.Rulesets.Rulesets {
			name := rulesetName(m, rs.Filename)
			if err := m.AddRuleset(name, rs.Folder, rs.Filename, rs.Enabled); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// rulesetName derives a unique registry name from the rule file name.
func rulesetName(m *core.ConfigModel, filename string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if base == "" || base == "." {
		base = "rules"
	}
	name := base
	existing := make(map[string]struct{})
	for _, rs := range m.Rulesets() {
		existing[rs.Name] = struct{}{}
	}
	for i := 2; ; i++ {
		if _, ok := existing[name]; !ok {
			return name
		}
		name = fmt.Sprintf("%s_%d", base, i)
	}
}

func (c *Codec) parsePhenotype(cd cellDefinitionXML) (domain.Phenotype, error) {
	px := cd.Phenotype
	var p domain.Phenotype

	p.Cycle = domain.Cycle{
		Code:            px.Cycle.Code,
		Name:            px.Cycle.Name,
		TransitionRates: ratesField(px.Cycle.TransitionRates),
		PhaseDurations:  durationsField(px.Cycle.PhaseDurations),
	}
	if p.Cycle.Name == "" {
		if cm, ok := c.templates.CycleModelByCode(p.Cycle.Code); ok {
			p.Cycle.Name = cm.Name
		}
	}

	p.Death = make(map[domain.DeathKind]domain.DeathModel, len(px.Death.Models))
	for _, dm := range px.Death.Models {
		kind, ok := c.templates.DeathKindByCode(dm.Code)
		if !ok {
			kind = domain.DeathKind(dm.Name)
			if kind != domain.DeathApoptosis && kind != domain.DeathNecrosis {
				return domain.Phenotype{}, domain.ErrValidation{
					Reason: fmt.Sprintf("cell definition %q: unknown death model code %d", cd.Name, dm.Code),
				}
			}
		}
		p.Death[kind] = domain.DeathModel{
			Code:            dm.Code,
			Rate:            dm.DeathRate.Value,
			PhaseDurations:  durationsField(dm.PhaseDurations),
			TransitionRates: ratesField(dm.TransitionRates),
			Parameters: domain.DeathParameters{
				UnlysedFluidChangeRate:       dm.Parameters.UnlysedFluidChangeRate.Value,
				LysedFluidChangeRate:         dm.Parameters.LysedFluidChangeRate.Value,
				CytoplasmicBiomassChangeRate: dm.Parameters.CytoplasmicBiomassChangeRate.Value,
				NuclearBiomassChangeRate:     dm.Parameters.NuclearBiomassChangeRate.Value,
				CalcificationRate:            dm.Parameters.CalcificationRate.Value,
				RelativeRuptureVolume:        dm.Parameters.RelativeRuptureVolume.Value,
			},
		}
	}

	p.Volume = domain.Volume{
		Total:                        px.Volume.Total.Value,
		FluidFraction:                px.Volume.FluidFraction.Value,
		Nuclear:                      px.Volume.Nuclear.Value,
		FluidChangeRate:              px.Volume.FluidChangeRate.Value,
		CytoplasmicBiomassChangeRate: px.Volume.CytoplasmicBiomassChangeRate.Value,
		NuclearBiomassChangeRate:     px.Volume.NuclearBiomassChangeRate.Value,
		CalcifiedFraction:            px.Volume.CalcifiedFraction.Value,
		CalcificationRate:            px.Volume.CalcificationRate.Value,
		RelativeRuptureVolume:        px.Volume.RelativeRuptureVolume.Value,
	}

	p.Mechanics = domain.Mechanics{
		CellCellAdhesionStrength:        px.Mechanics.CellCellAdhesionStrength.Value,
		CellCellRepulsionStrength:       px.Mechanics.CellCellRepulsionStrength.Value,
		RelativeMaximumAdhesionDistance: px.Mechanics.RelativeMaximumAdhesionDistance.Value,
		AttachmentElasticConstant:       px.Mechanics.AttachmentElasticConstant.Value,
		AttachmentRate:                  px.Mechanics.AttachmentRate.Value,
		DetachmentRate:                  px.Mechanics.DetachmentRate.Value,
	}
	if px.Mechanics.AdhesionAffinities != nil {
		p.Mechanics.AdhesionAffinities = floatMap(px.Mechanics.AdhesionAffinities.Affinities)
	}

	p.Motility = domain.Motility{
		Speed:           px.Motility.Speed.Value,
		PersistenceTime: px.Motility.PersistenceTime.Value,
		MigrationBias:   px.Motility.MigrationBias.Value,
		Enabled:         px.Motility.Options.Enabled,
		Use2D:           px.Motility.Options.Use2D,
		Chemotaxis: domain.Chemotaxis{
			Enabled:   px.Motility.Options.Chemotaxis.Enabled,
			Substrate: px.Motility.Options.Chemotaxis.Substrate,
			Direction: px.Motility.Options.Chemotaxis.Direction,
		},
	}
	if adv := px.Motility.Options.AdvancedChemotaxis; adv != nil {
		p.Motility.AdvancedChemotaxis = domain.AdvancedChemotaxis{
			Enabled:           adv.Enabled,
			NormalizeGradient: adv.NormalizeGradient,
		}
		if adv.Sensitivities != nil {
			p.Motility.AdvancedChemotaxis.Sensitivities = floatMap(adv.Sensitivities.Sensitivities)
		}
	}

	if px.Secretion != nil {
		p.Secretion = make(map[string]domain.Secretion, len(px.Secretion.Substrates))
		for _, s := range px.Secretion.Substrates {
			p.Secretion[s.Name] = domain.Secretion{
				Rate:          s.SecretionRate.Value,
				Target:        s.SecretionTarget.Value,
				UptakeRate:    s.UptakeRate.Value,
				NetExportRate: s.NetExportRate.Value,
			}
		}
	}

	if in := px.Interactions; in != nil {
		p.Interactions = domain.CellInteractions{
			ApoptoticPhagocytosisRate: in.ApoptoticPhagocytosisRate.Value,
			NecroticPhagocytosisRate:  in.NecroticPhagocytosisRate.Value,
			OtherDeadPhagocytosisRate: in.OtherDeadPhagocytosisRate.Value,
			AttackDamageRate:          in.AttackDamageRate.Value,
			AttackDuration:            in.AttackDuration.Value,
		}
		if in.LivePhagocytosisRates != nil {
			p.Interactions.LivePhagocytosisRates = floatMap(in.LivePhagocytosisRates.Rates)
		}
		if in.AttackRates != nil {
			p.Interactions.AttackRates = floatMap(in.AttackRates.Rates)
		}
		if in.FusionRates != nil {
			p.Interactions.FusionRates = floatMap(in.FusionRates.Rates)
		}
	}

	if tr := px.Transformations; tr != nil && tr.Rates != nil {
		p.Transformations.Rates = floatMap(tr.Rates.Rates)
	}

	if ig := px.Integrity; ig != nil {
		p.Integrity = domain.CellIntegrity{
			DamageRate:       ig.DamageRate.Value,
			DamageRepairRate: ig.DamageRepairRate.Value,
		}
	}

	if ic := px.Intracellular; ic != nil {
		p.Intracellular = parseIntracellular(ic)
	}

	if cd.CustomData != nil {
		for _, v := range cd.CustomData.Vars {
			p.CustomData = append(p.CustomData, domain.CustomVariable{
				Name:        v.Name,
				Value:       v.Value,
				Units:       v.Units,
				Description: v.Description,
				Conserved:   v.Conserved,
			})
		}
	}

	return p, nil
}

func parseIntracellular(ic *intracellularXML) *domain.Intracellular {
	out := &domain.Intracellular{
		Type:        ic.Type,
		BndFilename: ic.BndFilename,
		CfgFilename: ic.CfgFilename,
		Settings: domain.IntracellularSettings{
			IntracellularDt:   ic.Settings.IntracellularDt,
			TimeStochasticity: ic.Settings.TimeStochasticity,
			Scaling:           ic.Settings.Scaling,
			StartTime:         ic.Settings.StartTime,
			InheritanceGlobal: ic.Settings.Inheritance.Global,
		},
	}
	if ic.InitialValues != nil {
		for _, nv := range ic.InitialValues.Values {
			out.InitialValues = append(out.InitialValues, domain.NodeValue{Node: nv.Node, Value: nv.Value})
		}
	}
	if ic.Mutations != nil {
		for _, nv := range ic.Mutations.Values {
			out.Mutations = append(out.Mutations, domain.NodeValue{Node: nv.Node, Value: nv.Value})
		}
	}
	if ic.Mapping != nil {
		for _, io := range ic.Mapping.Inputs {
			out.Inputs = append(out.Inputs, parseIOMapping(io))
		}
		for _, io := range ic.Mapping.Outputs {
			out.Outputs = append(out.Outputs, parseIOMapping(io))
		}
	}
	return out
}

func parseIOMapping(io ioMappingXML) domain.IOMapping {
	return domain.IOMapping{
		PhysiCellName:       io.PhysiCellName,
		IntracellularName:   io.IntracellularName,
		Action:              io.Settings.Action,
		Threshold:           io.Settings.Threshold,
		InactivityThreshold: io.Settings.InactivityThreshold,
		Smoothing:           io.Settings.Smoothing,
	}
}

// durationsField maps a timing element back to the tri-state: a missing
// element is absent, an element without children is explicitly empty.
func durationsField(el *phaseDurationsXML) domain.ListField {
	if el == nil {
		return domain.AbsentField()
	}
	if len(el.Durations) == 0 {
		return domain.EmptyField()
	}
	values := make([]float64, 0, len(el.Durations))
	for _, d := range el.Durations {
		values = append(values, d.Value)
	}
	return domain.SetField(values...)
}

func ratesField(el *transitionRatesXML) domain.ListField {
	if el == nil {
		return domain.AbsentField()
	}
	if len(el.Rates) == 0 {
		return domain.EmptyField()
	}
	values := make([]float64, 0, len(el.Rates))
	for _, r := range el.Rates {
		values = append(values, r.Value)
	}
	return domain.SetField(values...)
}

func floatMap(entries []namedValueXML) map[string]float64 {
	out := make(map[string]float64, len(entries))
	for _, e := range entries {
		out[e.Name] = e.Value
	}
	return out
}
