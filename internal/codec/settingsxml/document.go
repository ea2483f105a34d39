// Package settingsxml implements the bidirectional codec between the
// configuration model and the PhysiCell_settings XML document schema.
package settingsxml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// rootElement and versionAttr anchor the structural validation pass.
const (
	rootElement = "PhysiCell_settings"
	versionAttr = "version"
	// documentVersion is stamped on serialized documents.
	documentVersion = "1.14.0"
)

type settingsDoc struct {
	XMLName           xml.Name              `xml:"PhysiCell_settings"`
	Version           string                `xml:"version,attr"`
	Domain            domainXML             `xml:"domain"`
	Overall           overallXML            `xml:"overall"`
	Parallel          parallelXML           `xml:"parallel"`
	Save              saveXML               `xml:"save"`
	Options           optionsXML            `xml:"options"`
	Microenvironment  microenvXML           `xml:"microenvironment_setup"`
	CellDefinitions   cellDefinitionsXML    `xml:"cell_definitions"`
	InitialConditions *initialConditionsXML `xml:"initial_conditions"`
	CellRules         *cellRulesXML         `xml:"cell_rules"`
}

// valueUnitsXML is the recurring scalar-with-units element shape.
type valueUnitsXML struct {
	Units string  `xml:"units,attr,omitempty"`
	Value float64 `xml:",chardata"`
}

// namedValueXML is the recurring per-target scalar element shape.
type namedValueXML struct {
	Name  string  `xml:"name,attr"`
	Units string  `xml:"units,attr,omitempty"`
	Value float64 `xml:",chardata"`
}

type domainXML struct {
	XMin  float64 `xml:"x_min"`
	XMax  float64 `xml:"x_max"`
	YMin  float64 `xml:"y_min"`
	YMax  float64 `xml:"y_max"`
	ZMin  float64 `xml:"z_min"`
	ZMax  float64 `xml:"z_max"`
	DX    float64 `xml:"dx"`
	DY    float64 `xml:"dy"`
	DZ    float64 `xml:"dz"`
	Use2D bool    `xml:"use_2D"`
}

type overallXML struct {
	MaxTime     valueUnitsXML `xml:"max_time"`
	TimeUnits   string        `xml:"time_units"`
	SpaceUnits  string        `xml:"space_units"`
	DtDiffusion valueUnitsXML `xml:"dt_diffusion"`
	DtMechanics valueUnitsXML `xml:"dt_mechanics"`
	DtPhenotype valueUnitsXML `xml:"dt_phenotype"`
}

type parallelXML struct {
	OmpNumThreads int `xml:"omp_num_threads"`
}

type enableIntervalXML struct {
	Interval valueUnitsXML `xml:"interval"`
	Enable   bool          `xml:"enable"`
}

type enableXML struct {
	Enable bool `xml:"enable"`
}

type saveXML struct {
	Folder     string            `xml:"folder"`
	FullData   enableIntervalXML `xml:"full_data"`
	SVG        enableIntervalXML `xml:"SVG"`
	LegacyData enableXML         `xml:"legacy_data"`
}

type optionsXML struct {
	VirtualWallAtDomainEdge         bool `xml:"virtual_wall_at_domain_edge"`
	DisableAutomatedSpringAdhesions bool `xml:"disable_automated_spring_adhesions"`
	RandomSeed                      int  `xml:"random_seed"`
}

type microenvXML struct {
	Variables []variableXML      `xml:"variable"`
	Options   microenvOptionsXML `xml:"options"`
}

type microenvOptionsXML struct {
	CalculateGradients          bool `xml:"calculate_gradients"`
	TrackInternalizedSubstrates bool `xml:"track_internalized_substrates_in_each_agent"`
}

type variableXML struct {
	Name             string               `xml:"name,attr"`
	Units            string               `xml:"units,attr,omitempty"`
	ID               int                  `xml:"ID,attr"`
	Physical         physicalParamsXML    `xml:"physical_parameter_set"`
	InitialCondition valueUnitsXML        `xml:"initial_condition"`
	Dirichlet        dirichletXML         `xml:"Dirichlet_boundary_condition"`
	DirichletOptions *dirichletOptionsXML `xml:"Dirichlet_options"`
}

type physicalParamsXML struct {
	DiffusionCoefficient valueUnitsXML `xml:"diffusion_coefficient"`
	DecayRate            valueUnitsXML `xml:"decay_rate"`
}

type dirichletXML struct {
	Units   string  `xml:"units,attr,omitempty"`
	Enabled bool    `xml:"enabled,attr"`
	Value   float64 `xml:",chardata"`
}

type dirichletOptionsXML struct {
	BoundaryValues []boundaryValueXML `xml:"boundary_value"`
}

type boundaryValueXML struct {
	ID      string  `xml:"ID,attr"`
	Enabled bool    `xml:"enabled,attr"`
	Value   float64 `xml:",chardata"`
}

type cellDefinitionsXML struct {
	CellDefinitions []cellDefinitionXML `xml:"cell_definition"`
}

type cellDefinitionXML struct {
	Name       string         `xml:"name,attr"`
	ID         int            `xml:"ID,attr"`
	ParentType string         `xml:"parent_type,attr,omitempty"`
	Phenotype  phenotypeXML   `xml:"phenotype"`
	CustomData *customDataXML `xml:"custom_data"`
}

type phenotypeXML struct {
	Cycle           cycleXML            `xml:"cycle"`
	Death           deathXML            `xml:"death"`
	Volume          volumeXML           `xml:"volume"`
	Mechanics       mechanicsXML        `xml:"mechanics"`
	Motility        motilityXML         `xml:"motility"`
	Secretion       *secretionXML       `xml:"secretion"`
	Interactions    *interactionsXML    `xml:"cell_interactions"`
	Transformations *transformationsXML `xml:"cell_transformations"`
	Integrity       *integrityXML       `xml:"cell_integrity"`
	Intracellular   *intracellularXML   `xml:"intracellular"`
}

// The paired timing elements are pointers so the tri-state survives the
// codec: nil maps to absent, an allocated element without children maps to
// present-empty, children map to present-with-values.
type cycleXML struct {
	Code            int                 `xml:"code,attr"`
	Name            string              `xml:"name,attr"`
	TransitionRates *transitionRatesXML `xml:"phase_transition_rates"`
	PhaseDurations  *phaseDurationsXML  `xml:"phase_durations"`
}

type transitionRatesXML struct {
	Units string    `xml:"units,attr,omitempty"`
	Rates []rateXML `xml:"rate"`
}

type rateXML struct {
	StartIndex    int     `xml:"start_index,attr"`
	EndIndex      int     `xml:"end_index,attr"`
	FixedDuration bool    `xml:"fixed_duration,attr"`
	Value         float64 `xml:",chardata"`
}

type phaseDurationsXML struct {
	Units     string        `xml:"units,attr,omitempty"`
	Durations []durationXML `xml:"duration"`
}

type durationXML struct {
	Index         int     `xml:"index,attr"`
	FixedDuration bool    `xml:"fixed_duration,attr"`
	Value         float64 `xml:",chardata"`
}

type deathXML struct {
	Models []deathModelXML `xml:"model"`
}

type deathModelXML struct {
	Code            int                 `xml:"code,attr"`
	Name            string              `xml:"name,attr"`
	DeathRate       valueUnitsXML       `xml:"death_rate"`
	PhaseDurations  *phaseDurationsXML  `xml:"phase_durations"`
	TransitionRates *transitionRatesXML `xml:"phase_transition_rates"`
	Parameters      deathParamsXML      `xml:"parameters"`
}

type deathParamsXML struct {
	UnlysedFluidChangeRate       valueUnitsXML `xml:"unlysed_fluid_change_rate"`
	LysedFluidChangeRate         valueUnitsXML `xml:"lysed_fluid_change_rate"`
	CytoplasmicBiomassChangeRate valueUnitsXML `xml:"cytoplasmic_biomass_change_rate"`
	NuclearBiomassChangeRate     valueUnitsXML `xml:"nuclear_biomass_change_rate"`
	CalcificationRate            valueUnitsXML `xml:"calcification_rate"`
	RelativeRuptureVolume        valueUnitsXML `xml:"relative_rupture_volume"`
}

type volumeXML struct {
	Total                        valueUnitsXML `xml:"total"`
	FluidFraction                valueUnitsXML `xml:"fluid_fraction"`
	Nuclear                      valueUnitsXML `xml:"nuclear"`
	FluidChangeRate              valueUnitsXML `xml:"fluid_change_rate"`
	CytoplasmicBiomassChangeRate valueUnitsXML `xml:"cytoplasmic_biomass_change_rate"`
	NuclearBiomassChangeRate     valueUnitsXML `xml:"nuclear_biomass_change_rate"`
	CalcifiedFraction            valueUnitsXML `xml:"calcified_fraction"`
	CalcificationRate            valueUnitsXML `xml:"calcification_rate"`
	RelativeRuptureVolume        valueUnitsXML `xml:"relative_rupture_volume"`
}

type mechanicsXML struct {
	CellCellAdhesionStrength        valueUnitsXML          `xml:"cell_cell_adhesion_strength"`
	CellCellRepulsionStrength       valueUnitsXML          `xml:"cell_cell_repulsion_strength"`
	RelativeMaximumAdhesionDistance valueUnitsXML          `xml:"relative_maximum_adhesion_distance"`
	AdhesionAffinities              *adhesionAffinitiesXML `xml:"cell_adhesion_affinities"`
	AttachmentElasticConstant       valueUnitsXML          `xml:"attachment_elastic_constant"`
	AttachmentRate                  valueUnitsXML          `xml:"attachment_rate"`
	DetachmentRate                  valueUnitsXML          `xml:"detachment_rate"`
}

type adhesionAffinitiesXML struct {
	Affinities []namedValueXML `xml:"cell_adhesion_affinity"`
}

type motilityXML struct {
	Speed           valueUnitsXML      `xml:"speed"`
	PersistenceTime valueUnitsXML      `xml:"persistence_time"`
	MigrationBias   valueUnitsXML      `xml:"migration_bias"`
	Options         motilityOptionsXML `xml:"options"`
}

type motilityOptionsXML struct {
	Enabled            bool                   `xml:"enabled"`
	Use2D              bool                   `xml:"use_2D"`
	Chemotaxis         chemotaxisXML          `xml:"chemotaxis"`
	AdvancedChemotaxis *advancedChemotaxisXML `xml:"advanced_chemotaxis"`
}

type chemotaxisXML struct {
	Enabled   bool   `xml:"enabled"`
	Substrate string `xml:"substrate"`
	Direction int    `xml:"direction"`
}

type advancedChemotaxisXML struct {
	Enabled           bool                         `xml:"enabled"`
	NormalizeGradient bool                         `xml:"normalize_each_gradient"`
	Sensitivities     *chemotacticSensitivitiesXML `xml:"chemotactic_sensitivities"`
}

type chemotacticSensitivitiesXML struct {
	Sensitivities []namedValueXML `xml:"chemotactic_sensitivity"`
}

type secretionXML struct {
	Substrates []secretionSubstrateXML `xml:"substrate"`
}

type secretionSubstrateXML struct {
	Name            string        `xml:"name,attr"`
	SecretionRate   valueUnitsXML `xml:"secretion_rate"`
	SecretionTarget valueUnitsXML `xml:"secretion_target"`
	UptakeRate      valueUnitsXML `xml:"uptake_rate"`
	NetExportRate   valueUnitsXML `xml:"net_export_rate"`
}

type interactionsXML struct {
	ApoptoticPhagocytosisRate valueUnitsXML         `xml:"apoptotic_phagocytosis_rate"`
	NecroticPhagocytosisRate  valueUnitsXML         `xml:"necrotic_phagocytosis_rate"`
	OtherDeadPhagocytosisRate valueUnitsXML         `xml:"other_dead_phagocytosis_rate"`
	LivePhagocytosisRates     *phagocytosisRatesXML `xml:"live_phagocytosis_rates"`
	AttackRates               *attackRatesXML       `xml:"attack_rates"`
	AttackDamageRate          valueUnitsXML         `xml:"attack_damage_rate"`
	AttackDuration            valueUnitsXML         `xml:"attack_duration"`
	FusionRates               *fusionRatesXML       `xml:"fusion_rates"`
}

type phagocytosisRatesXML struct {
	Rates []namedValueXML `xml:"phagocytosis_rate"`
}

type attackRatesXML struct {
	Rates []namedValueXML `xml:"attack_rate"`
}

type fusionRatesXML struct {
	Rates []namedValueXML `xml:"fusion_rate"`
}

type transformationsXML struct {
	Rates *transformationRatesXML `xml:"transformation_rates"`
}

type transformationRatesXML struct {
	Rates []namedValueXML `xml:"transformation_rate"`
}

type integrityXML struct {
	DamageRate       valueUnitsXML `xml:"damage_rate"`
	DamageRepairRate valueUnitsXML `xml:"damage_repair_rate"`
}

type intracellularXML struct {
	Type          string                   `xml:"type,attr"`
	BndFilename   string                   `xml:"bnd_filename"`
	CfgFilename   string                   `xml:"cfg_filename"`
	Settings      intracellularSettingsXML `xml:"settings"`
	InitialValues *initialValuesXML        `xml:"initial_values"`
	Mutations     *mutationsXML            `xml:"mutations"`
	Mapping       *mappingXML              `xml:"mapping"`
}

type intracellularSettingsXML struct {
	IntracellularDt   float64        `xml:"intracellular_dt"`
	TimeStochasticity float64        `xml:"time_stochasticity"`
	Scaling           float64        `xml:"scaling"`
	StartTime         float64        `xml:"start_time"`
	Inheritance       inheritanceXML `xml:"inheritance"`
}

type inheritanceXML struct {
	Global bool `xml:"global,attr"`
}

type initialValuesXML struct {
	Values []nodeValueXML `xml:"initial_value"`
}

type mutationsXML struct {
	Values []nodeValueXML `xml:"mutation"`
}

type nodeValueXML struct {
	Node  string `xml:"intracellular_name,attr"`
	Value bool   `xml:",chardata"`
}

type mappingXML struct {
	Inputs  []ioMappingXML `xml:"input"`
	Outputs []ioMappingXML `xml:"output"`
}

type ioMappingXML struct {
	PhysiCellName     string        `xml:"physicell_name,attr"`
	IntracellularName string        `xml:"intracellular_name,attr"`
	Settings          ioSettingsXML `xml:"settings"`
}

type ioSettingsXML struct {
	Action              string  `xml:"action"`
	Threshold           float64 `xml:"threshold"`
	InactivityThreshold float64 `xml:"inactivity_threshold"`
	Smoothing           int     `xml:"smoothing"`
}

type initialConditionsXML struct {
	CellPositions cellPositionsXML `xml:"cell_positions"`
}

type cellPositionsXML struct {
	Type     string `xml:"type,attr"`
	Enabled  bool   `xml:"enabled,attr"`
	Folder   string `xml:"folder"`
	Filename string `xml:"filename"`
}

type cellRulesXML struct {
	Rulesets rulesetsXML `xml:"rulesets"`
	Settings struct{}    `xml:"settings"`
}

type rulesetsXML struct {
	Rulesets []rulesetXML `xml:"ruleset"`
}

type rulesetXML struct {
	Protocol string `xml:"protocol,attr"`
	Version  string `xml:"version,attr"`
	Format   string `xml:"format,attr"`
	Enabled  bool   `xml:"enabled,attr"`
	Folder   string `xml:"folder"`
	Filename string `xml:"filename"`
}

// customDataXML carries variable-named child elements, so it implements the
// marshal interfaces directly instead of relying on struct tags.
type customDataXML struct {
	Vars []customVarXML
}

type customVarXML struct {
	Name        string
	Units       string
	Description string
	Conserved   bool
	Value       float64
}

// MarshalXML writes each custom variable as an element named after it.
func (c customDataXML) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, v := range c.Vars {
		el := xml.StartElement{
			Name: xml.Name{Local: v.Name},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "conserved"}, Value: strconv.FormatBool(v.Conserved)},
				{Name: xml.Name{Local: "units"}, Value: v.Units},
			},
		}
		if v.Description != "" {
			el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: "description"}, Value: v.Description})
		}
		if err := e.EncodeElement(v.Value, el); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// UnmarshalXML reads variable-named child elements back into the list.
func (c *customDataXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			v := customVarXML{Name: t.Name.Local}
			for _, a := range t.Attr {
				switch a.Name.Local {
				case "units":
					v.Units = a.Value
				case "description":
					v.Description = a.Value
				case "conserved":
					b, err := strconv.ParseBool(a.Value)
					if err != nil {
						return err
					}
					v.Conserved = b
				}
			}
			var raw string
			if err := d.DecodeElement(&raw, &t); err != nil {
				return err
			}
			raw = strings.TrimSpace(raw)
			if raw != "" {
				val, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return err
				}
				v.Value = val
			}
			c.Vars = append(c.Vars, v)
		case xml.EndElement:
			return nil
		}
	}
}
