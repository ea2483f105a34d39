package settingsxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"sort"

	"physiconf/internal/core"
	"physiconf/pkg/domain"
	"physiconf/pkg/registry"
)

// Codec translates between the configuration model and the settings XML
// document. It is bound to the immutable registries so parsed documents
// come back attached to the same template and signal catalogs.
type Codec struct {
	templates *registry.TemplateStore
	signals   *registry.SignalBehaviorRegistry
}

// NewCodec constructs a codec over the supplied registries.
func NewCodec(templates *registry.TemplateStore, signals *registry.SignalBehaviorRegistry) *Codec {
	return &Codec{templates: templates, signals: signals}
}

// Serialize renders the model as a settings XML document. It fails when any
// name-based weak reference dangles or when a timing pair has both
// representations populated.
func (c *Codec) Serialize(m *core.ConfigModel) ([]byte, error) {
	if issues := m.CheckReferences(); len(issues) > 0 {
		errs := make([]error, 0, len(issues))
		for _, issue := range issues {
			errs = append(errs, issue)
		}
		return nil, errors.Join(errs...)
	}

	doc := settingsDoc{
		Version: documentVersion,
		Domain: domainXML{
			XMin: m.Domain.XMin, XMax: m.Domain.XMax,
			YMin: m.Domain.YMin, YMax: m.Domain.YMax,
			ZMin: m.Domain.ZMin, ZMax: m.Domain.ZMax,
			DX: m.Domain.DX, DY: m.Domain.DY, DZ: m.Domain.DZ,
			Use2D: m.Domain.Use2D,
		},
		Overall: overallXML{
			MaxTime:     vu(m.Overall.TimeUnits, m.Overall.MaxTime),
			TimeUnits:   m.Overall.TimeUnits,
			SpaceUnits:  m.Overall.SpaceUnits,
			DtDiffusion: vu(m.Overall.TimeUnits, m.Overall.DtDiffusion),
			DtMechanics: vu(m.Overall.TimeUnits, m.Overall.DtMechanics),
			DtPhenotype: vu(m.Overall.TimeUnits, m.Overall.DtPhenotype),
		},
		Parallel: parallelXML{OmpNumThreads: m.Parallel.OmpNumThreads},
		Save: saveXML{
			Folder: m.Save.Folder,
			FullData: enableIntervalXML{
				Interval: vu(m.Overall.TimeUnits, m.Save.FullDataInterval),
				Enable:   m.Save.FullDataEnable,
			},
			SVG: enableIntervalXML{
				Interval: vu(m.Overall.TimeUnits, m.Save.SVGInterval),
				Enable:   m.Save.SVGEnable,
			},
			LegacyData: enableXML{Enable: m.Save.LegacyData},
		},
		Options: optionsXML{
			VirtualWallAtDomainEdge:         m.Options.VirtualWallAtDomainEdge,
			DisableAutomatedSpringAdhesions: m.Options.DisableAutomatedSpringAdhesions,
			RandomSeed:                      m.Options.RandomSeed,
		},
		Microenvironment: microenvXML{
			Options: microenvOptionsXML{
				CalculateGradients:          m.MicroenvOpts.CalculateGradients,
				TrackInternalizedSubstrates: m.MicroenvOpts.TrackInternalizedSubstrates,
			},
		},
	}

	for _, s := range m.Substrates() {
		doc.Microenvironment.Variables = append(doc.Microenvironment.Variables, substrateElement(s))
	}

	for _, ct := range m.CellTypes() {
		el, err := c.cellDefinitionElement(ct)
		if err != nil {
			return nil, err
		}
		doc.CellDefinitions.CellDefinitions = append(doc.CellDefinitions.CellDefinitions, el)
	}

	doc.InitialConditions = &initialConditionsXML{
		CellPositions: cellPositionsXML{
			Type:     orDefault(m.Initial.Type, "csv"),
			Enabled:  m.Initial.Enabled,
			Folder:   m.Initial.Folder,
			Filename: m.Initial.Filename,
		},
	}

	if rulesets := m.Rulesets(); len(rulesets) > 0 {
		rules := &cellRulesXML{}
		for _, rs := range rulesets {
			rules.Rulesets.Rulesets = append(rules.Rulesets.Rulesets, rulesetXML{
				Protocol: rs.Protocol,
				Version:  rs.Version,
				Format:   rs.Format,
				Enabled:  rs.Enabled,
				Folder:   rs.Folder,
				Filename: rs.Filename,
			})
		}
		doc.CellRules = rules
	}

	out, err := xml.MarshalIndent(doc, "", "\t")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

func vu(units string, value float64) valueUnitsXML {
	return valueUnitsXML{Units: units, Value: value}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func substrateElement(s domain.Substrate) variableXML {
	el := variableXML{
		Name:  s.Name,
		Units: s.Units,
		ID:    s.ID,
		Physical: physicalParamsXML{
			DiffusionCoefficient: vu("micron^2/min", s.DiffusionCoefficient),
			DecayRate:            vu("1/min", s.DecayRate),
		},
		InitialCondition: vu(s.InitialUnits, s.InitialCondition),
		Dirichlet: dirichletXML{
			Units:   s.InitialUnits,
			Enabled: s.DirichletEnabled,
			Value:   s.DirichletValue,
		},
	}
	if s.DirichletOptions != nil {
		opts := &dirichletOptionsXML{}
		for _, face := range domain.BoundaryFaces() {
			fc, ok := s.DirichletOptions[face]
			if !ok {
				continue
			}
			opts.BoundaryValues = append(opts.BoundaryValues, boundaryValueXML{
				ID:      string(face),
				Enabled: fc.Enabled,
				Value:   fc.Value,
			})
		}
		el.DirichletOptions = opts
	}
	return el
}

func (c *Codec) cellDefinitionElement(ct domain.CellType) (cellDefinitionXML, error) {
	p := ct.Phenotype
	el := cellDefinitionXML{
		Name:       ct.Name,
		ID:         ct.ID,
		ParentType: ct.ParentType,
	}

	cycle, err := c.cycleElement(ct.Name, p.Cycle)
	if err != nil {
		return cellDefinitionXML{}, err
	}
	el.Phenotype.Cycle = cycle

	death, err := c.deathElement(ct.Name, p.Death)
	if err != nil {
		return cellDefinitionXML{}, err
	}
	el.Phenotype.Death = death

	el.Phenotype.Volume = volumeXML{
		Total:                        vu("micron^3", p.Volume.Total),
		FluidFraction:                vu("dimensionless", p.Volume.FluidFraction),
		Nuclear:                      vu("micron^3", p.Volume.Nuclear),
		FluidChangeRate:              vu("1/min", p.Volume.FluidChangeRate),
		CytoplasmicBiomassChangeRate: vu("1/min", p.Volume.CytoplasmicBiomassChangeRate),
		NuclearBiomassChangeRate:     vu("1/min", p.Volume.NuclearBiomassChangeRate),
		CalcifiedFraction:            vu("dimensionless", p.Volume.CalcifiedFraction),
		CalcificationRate:            vu("1/min", p.Volume.CalcificationRate),
		RelativeRuptureVolume:        vu("dimensionless", p.Volume.RelativeRuptureVolume),
	}

	el.Phenotype.Mechanics = mechanicsXML{
		CellCellAdhesionStrength:        vu("micron/min", p.Mechanics.CellCellAdhesionStrength),
		CellCellRepulsionStrength:       vu("micron/min", p.Mechanics.CellCellRepulsionStrength),
		RelativeMaximumAdhesionDistance: vu("dimensionless", p.Mechanics.RelativeMaximumAdhesionDistance),
		AttachmentElasticConstant:       vu("micron/min", p.Mechanics.AttachmentElasticConstant),
		AttachmentRate:                  vu("1/min", p.Mechanics.AttachmentRate),
		DetachmentRate:                  vu("1/min", p.Mechanics.DetachmentRate),
	}
	if p.Mechanics.AdhesionAffinities != nil {
		el.Phenotype.Mechanics.AdhesionAffinities = &adhesionAffinitiesXML{
			Affinities: namedValues(p.Mechanics.AdhesionAffinities),
		}
	}

	el.Phenotype.Motility = motilityXML{
		Speed:           vu("micron/min", p.Motility.Speed),
		PersistenceTime: vu("min", p.Motility.PersistenceTime),
		MigrationBias:   vu("dimensionless", p.Motility.MigrationBias),
		Options: motilityOptionsXML{
			Enabled: p.Motility.Enabled,
			Use2D:   p.Motility.Use2D,
			Chemotaxis: chemotaxisXML{
				Enabled:   p.Motility.Chemotaxis.Enabled,
				Substrate: p.Motility.Chemotaxis.Substrate,
				Direction: p.Motility.Chemotaxis.Direction,
			},
		},
	}
	adv := p.Motility.AdvancedChemotaxis
	if adv.Enabled || adv.Sensitivities != nil {
		advEl := &advancedChemotaxisXML{
			Enabled:           adv.Enabled,
			NormalizeGradient: adv.NormalizeGradient,
		}
		if adv.Sensitivities != nil {
			advEl.Sensitivities = &chemotacticSensitivitiesXML{
				Sensitivities: namedValues(adv.Sensitivities),
			}
		}
		el.Phenotype.Motility.Options.AdvancedChemotaxis = advEl
	}

	if len(p.Secretion) > 0 {
		sec := &secretionXML{}
		for _, name := range sortedKeys(p.Secretion) {
			s := p.Secretion[name]
			sec.Substrates = append(sec.Substrates, secretionSubstrateXML{
				Name:            name,
				SecretionRate:   vu("1/min", s.Rate),
				SecretionTarget: vu("substrate density", s.Target),
				UptakeRate:      vu("1/min", s.UptakeRate),
				NetExportRate:   vu("total substrate/min", s.NetExportRate),
			})
		}
		el.Phenotype.Secretion = sec
	}

	in := p.Interactions
	inEl := &interactionsXML{
		ApoptoticPhagocytosisRate: vu("1/min", in.ApoptoticPhagocytosisRate),
		NecroticPhagocytosisRate:  vu("1/min", in.NecroticPhagocytosisRate),
		OtherDeadPhagocytosisRate: vu("1/min", in.OtherDeadPhagocytosisRate),
		AttackDamageRate:          vu("1/min", in.AttackDamageRate),
		AttackDuration:            vu("min", in.AttackDuration),
	}
	if in.LivePhagocytosisRates != nil {
		inEl.LivePhagocytosisRates = &phagocytosisRatesXML{Rates: namedValues(in.LivePhagocytosisRates)}
	}
	if in.AttackRates != nil {
		inEl.AttackRates = &attackRatesXML{Rates: namedValues(in.AttackRates)}
	}
	if in.FusionRates != nil {
		inEl.FusionRates = &fusionRatesXML{Rates: namedValues(in.FusionRates)}
	}
	el.Phenotype.Interactions = inEl

	trEl := &transformationsXML{}
	if p.Transformations.Rates != nil {
		trEl.Rates = &transformationRatesXML{Rates: namedValues(p.Transformations.Rates)}
	}
	el.Phenotype.Transformations = trEl

	el.Phenotype.Integrity = &integrityXML{
		DamageRate:       vu("1/min", p.Integrity.DamageRate),
		DamageRepairRate: vu("1/min", p.Integrity.DamageRepairRate),
	}

	if p.Intracellular != nil {
		el.Phenotype.Intracellular = intracellularElement(p.Intracellular)
	}

	if len(p.CustomData) > 0 {
		cd := &customDataXML{}
		for _, v := range p.CustomData {
			cd.Vars = append(cd.Vars, customVarXML{
				Name:        v.Name,
				Units:       v.Units,
				Description: v.Description,
				Conserved:   v.Conserved,
				Value:       v.Value,
			})
		}
		el.CustomData = cd
	}

	return el, nil
}

// cycleElement resolves the cycle timing pair. The cycle model's default
// transition rates apply only when neither representation was ever set; a
// present-empty side stays authoritative and renders as an empty element.
func (c *Codec) cycleElement(cellType string, cy domain.Cycle) (cycleXML, error) {
	name := cy.Name
	var fallbackRates []float64
	if cm, ok := c.templates.CycleModelByCode(cy.Code); ok {
		fallbackRates = cm.DefaultRates
		if name == "" {
			name = cm.Name
		}
	}
	owner := fmt.Sprintf("cell type %q cycle", cellType)
	dur, rt, err := domain.ResolveTiming(owner, cy.PhaseDurations, cy.TransitionRates, nil, fallbackRates)
	if err != nil {
		return cycleXML{}, err
	}
	return cycleXML{
		Code:            cy.Code,
		Name:            name,
		TransitionRates: ratesElement(rt, cy.TransitionRates.State),
		PhaseDurations:  durationsElement(dur, cy.PhaseDurations.State),
	}, nil
}

func (c *Codec) deathElement(cellType string, models map[domain.DeathKind]domain.DeathModel) (deathXML, error) {
	var el deathXML
	for _, kind := range domain.DeathKinds() {
		dm, ok := models[kind]
		if !ok {
			continue
		}
		var fallbackDurations []float64
		if frag, err := c.templates.DeathModel(kind); err == nil {
			fallbackDurations = frag.DefaultDurations
		}
		owner := fmt.Sprintf("cell type %q %s", cellType, kind)
		dur, rt, err := domain.ResolveTiming(owner, dm.PhaseDurations, dm.TransitionRates, fallbackDurations, nil)
		if err != nil {
			return deathXML{}, err
		}
		el.Models = append(el.Models, deathModelXML{
			Code:            dm.Code,
			Name:            string(kind),
			DeathRate:       vu("1/min", dm.Rate),
			PhaseDurations:  durationsElement(dur, dm.PhaseDurations.State),
			TransitionRates: ratesElement(rt, dm.TransitionRates.State),
			Parameters: deathParamsXML{
				UnlysedFluidChangeRate:       vu("1/min", dm.Parameters.UnlysedFluidChangeRate),
				LysedFluidChangeRate:         vu("1/min", dm.Parameters.LysedFluidChangeRate),
				CytoplasmicBiomassChangeRate: vu("1/min", dm.Parameters.CytoplasmicBiomassChangeRate),
				NuclearBiomassChangeRate:     vu("1/min", dm.Parameters.NuclearBiomassChangeRate),
				CalcificationRate:            vu("1/min", dm.Parameters.CalcificationRate),
				RelativeRuptureVolume:        vu("dimensionless", dm.Parameters.RelativeRuptureVolume),
			},
		})
	}
	return el, nil
}

// durationsElement renders resolved durations. A present-empty field yields
// an element with no children; an absent, unresolved field yields none.
func durationsElement(values []float64, state domain.FieldState) *phaseDurationsXML {
	if len(values) == 0 && state != domain.FieldEmpty {
		return nil
	}
	el := &phaseDurationsXML{Units: "min"}
	for i, v := range values {
		el.Durations = append(el.Durations, durationXML{Index: i, Value: v})
	}
	return el
}

func ratesElement(values []float64, state domain.FieldState) *transitionRatesXML {
	if len(values) == 0 && state != domain.FieldEmpty {
		return nil
	}
	el := &transitionRatesXML{Units: "1/min"}
	for i, v := range values {
		end := 0
		if len(values) > 0 {
			end = (i + 1) % len(values)
		}
		el.Rates = append(el.Rates, rateXML{StartIndex: i, EndIndex: end, Value: v})
	}
	return el
}

func intracellularElement(ic *domain.Intracellular) *intracellularXML {
	el := &intracellularXML{
		Type:        ic.Type,
		BndFilename: ic.BndFilename,
		CfgFilename: ic.CfgFilename,
		Settings: intracellularSettingsXML{
			IntracellularDt:   ic.Settings.IntracellularDt,
			TimeStochasticity: ic.Settings.TimeStochasticity,
			Scaling:           ic.Settings.Scaling,
			StartTime:         ic.Settings.StartTime,
			Inheritance:       inheritanceXML{Global: ic.Settings.InheritanceGlobal},
		},
	}
	if len(ic.InitialValues) > 0 {
		iv := &initialValuesXML{}
		for _, nv := range ic.InitialValues {
			iv.Values = append(iv.Values, nodeValueXML{Node: nv.Node, Value: nv.Value})
		}
		el.InitialValues = iv
	}
	if len(ic.Mutations) > 0 {
		mu := &mutationsXML{}
		for _, nv := range ic.Mutations {
			mu.Values = append(mu.Values, nodeValueXML{Node: nv.Node, Value: nv.Value})
		}
		el.Mutations = mu
	}
	if len(ic.Inputs) > 0 || len(ic.Outputs) > 0 {
		mp := &mappingXML{}
		for _, io := range ic.Inputs {
			mp.Inputs = append(mp.Inputs, ioMappingElement(io))
		}
		for _, io := range ic.Outputs {
			mp.Outputs = append(mp.Outputs, ioMappingElement(io))
		}
		el.Mapping = mp
	}
	return el
}

func ioMappingElement(io domain.IOMapping) ioMappingXML {
	return ioMappingXML{
		PhysiCellName:     io.PhysiCellName,
		IntracellularName: io.IntracellularName,
		Settings: ioSettingsXML{
			Action:              io.Action,
			Threshold:           io.Threshold,
			InactivityThreshold: io.InactivityThreshold,
			Smoothing:           io.Smoothing,
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func namedValues(m map[string]float64) []namedValueXML {
	out := make([]namedValueXML, 0, len(m))
	for _, name := range sortedKeys(m) {
		out = append(out, namedValueXML{Name: name, Value: m[name]})
	}
	return out
}
