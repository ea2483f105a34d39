package domain

// SimulationDomain describes the mesh bounds of the simulated volume.
type SimulationDomain struct {
	XMin  float64 `json:"x_min"`
	XMax  float64 `json:"x_max"`
	YMin  float64 `json:"y_min"`
	YMax  float64 `json:"y_max"`
	ZMin  float64 `json:"z_min"`
	ZMax  float64 `json:"z_max"`
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
	DZ    float64 `json:"dz"`
	Use2D bool    `json:"use_2d"`
}

// Overall holds the global simulation timing parameters.
type Overall struct {
	MaxTime     float64 `json:"max_time"`
	TimeUnits   string  `json:"time_units"`
	SpaceUnits  string  `json:"space_units"`
	DtDiffusion float64 `json:"dt_diffusion"`
	DtMechanics float64 `json:"dt_mechanics"`
	DtPhenotype float64 `json:"dt_phenotype"`
}

// Parallel configures OpenMP threading for the consuming engine.
type Parallel struct {
	OmpNumThreads int `json:"omp_num_threads"`
}

// SaveOptions configures output folders and intervals.
type SaveOptions struct {
	Folder           string  `json:"folder"`
	FullDataInterval float64 `json:"full_data_interval"`
	FullDataEnable   bool    `json:"full_data_enable"`
	SVGInterval      float64 `json:"svg_interval"`
	SVGEnable        bool    `json:"svg_enable"`
	LegacyData       bool    `json:"legacy_data"`
}

// SimulationOptions holds miscellaneous engine toggles.
type SimulationOptions struct {
	VirtualWallAtDomainEdge         bool `json:"virtual_wall_at_domain_edge"`
	DisableAutomatedSpringAdhesions bool `json:"disable_automated_spring_adhesions"`
	RandomSeed                      int  `json:"random_seed"`
}

// InitialConditions references an external cell-position file.
type InitialConditions struct {
	Enabled  bool   `json:"enabled"`
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
	Type     string `json:"type"`
}

// MicroenvironmentOptions holds microenvironment-wide toggles.
type MicroenvironmentOptions struct {
	CalculateGradients          bool `json:"calculate_gradients"`
	TrackInternalizedSubstrates bool `json:"track_internalized_substrates"`
}

// BoundaryFace identifies one face of the simulation box.
type BoundaryFace string

// Faces of the simulation box.
const (
	FaceXMin BoundaryFace = "xmin"
	FaceXMax BoundaryFace = "xmax"
	FaceYMin BoundaryFace = "ymin"
	FaceYMax BoundaryFace = "ymax"
	FaceZMin BoundaryFace = "zmin"
	FaceZMax BoundaryFace = "zmax"
)

// BoundaryFaces lists the faces in canonical serialization order.
func BoundaryFaces() []BoundaryFace {
	return []BoundaryFace{FaceXMin, FaceXMax, FaceYMin, FaceYMax, FaceZMin, FaceZMax}
}

// FaceCondition is a per-face Dirichlet override.
type FaceCondition struct {
	Enabled bool    `json:"enabled"`
	Value   float64 `json:"value"`
}

// Substrate is one diffusing microenvironment variable.
type Substrate struct {
	Name                 string                         `json:"name"`
	ID                   int                            `json:"id"`
	Units                string                         `json:"units"`
	DiffusionCoefficient float64                        `json:"diffusion_coefficient"`
	DecayRate            float64                        `json:"decay_rate"`
	InitialCondition     float64                        `json:"initial_condition"`
	InitialUnits         string                         `json:"initial_units"`
	DirichletEnabled     bool                           `json:"dirichlet_enabled"`
	DirichletValue       float64                        `json:"dirichlet_value"`
	DirichletOptions     map[BoundaryFace]FaceCondition `json:"dirichlet_options,omitempty"`
}

// Clone returns a deep copy of the substrate.
func (s Substrate) Clone() Substrate {
	out := s
	if s.DirichletOptions != nil {
		out.DirichletOptions = make(map[BoundaryFace]FaceCondition, len(s.DirichletOptions))
		for k, v := range s.DirichletOptions {
			out.DirichletOptions[k] = v
		}
	}
	return out
}

// RuleDirection states how a signal modulates a behavior.
type RuleDirection string

// Permitted rule directions.
const (
	DirectionIncreases RuleDirection = "increases"
	DirectionDecreases RuleDirection = "decreases"
)

// Rule is one behavioral rule row in the CBHG v3.0 format. Signal and
// Behavior carry their contextual parameter folded into the name (for
// example "contact with tumor"). CellType is a name-based weak reference
// validated at serialization time, not at mutation time.
type Rule struct {
	CellType        string        `json:"cell_type"`
	Signal          string        `json:"signal"`
	Direction       RuleDirection `json:"direction"`
	Behavior        string        `json:"behavior"`
	SaturationValue float64       `json:"saturation_value"`
	HalfMax         float64       `json:"half_max"`
	HillPower       float64       `json:"hill_power"`
	ApplyToDead     bool          `json:"apply_to_dead"`
}

// Ruleset registers one rule CSV file in the document.
type Ruleset struct {
	Name     string `json:"name"`
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
	Enabled  bool   `json:"enabled"`
	Protocol string `json:"protocol"`
	Version  string `json:"version"`
	Format   string `json:"format"`
}

// CellType is one cell definition. ParentType is informational only; no
// inheritance semantics are attached to it.
type CellType struct {
	Name       string    `json:"name"`
	ID         int       `json:"id"`
	ParentType string    `json:"parent_type,omitempty"`
	Phenotype  Phenotype `json:"phenotype"`
}

// Clone returns a deep copy of the cell type.
func (c CellType) Clone() CellType {
	out := c
	out.Phenotype = c.Phenotype.Clone()
	return out
}
