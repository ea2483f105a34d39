package core

import (
	"errors"
	"testing"

	"physiconf/pkg/domain"
)

func modelWithCell(t *testing.T) *ConfigModel {
	t.Helper()
	m := newTestModel(t)
	if _, err := m.AddCellType("tumor", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func TestSetCyclePhaseDurationsClearsRates(t *testing.T) {
	m := modelWithCell(t)
	if err := m.SetCycleTransitionRates("tumor", []float64{0.001}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetCyclePhaseDurations("tumor", []float64{516}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct, _ := m.CellType("tumor")
	if !ct.Phenotype.Cycle.PhaseDurations.Populated() {
		t.Fatal("durations not recorded")
	}
	if ct.Phenotype.Cycle.TransitionRates.Present() {
		t.Fatal("setting durations must clear the paired transition rates")
	}
}

func TestSetCycleTransitionRatesClearsDurations(t *testing.T) {
	m := modelWithCell(t)
	if err := m.SetCyclePhaseDurations("tumor", []float64{516}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetCycleTransitionRates("tumor", []float64{0.001}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct, _ := m.CellType("tumor")
	if !ct.Phenotype.Cycle.TransitionRates.Populated() {
		t.Fatal("rates not recorded")
	}
	if ct.Phenotype.Cycle.PhaseDurations.Present() {
		t.Fatal("setting rates must clear the paired phase durations")
	}
}

func TestSetCyclePhaseDurationsEmptyIsPresent(t *testing.T) {
	m := modelWithCell(t)
	if err := m.SetCyclePhaseDurations("tumor", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct, _ := m.CellType("tumor")
	f := ct.Phenotype.Cycle.PhaseDurations
	if !f.Present() || f.Populated() {
		t.Fatalf("explicit empty durations must be present-empty, got state %v", f.State)
	}
}

func TestSetCycleModelResetsTiming(t *testing.T) {
	m := modelWithCell(t)
	if err := m.SetCyclePhaseDurations("tumor", []float64{516}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetCycleModel("tumor", "Ki67 (basic)"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct, _ := m.CellType("tumor")
	if ct.Phenotype.Cycle.Code != 1 {
		t.Fatalf("unexpected cycle code %d", ct.Phenotype.Cycle.Code)
	}
	if ct.Phenotype.Cycle.PhaseDurations.Present() || ct.Phenotype.Cycle.TransitionRates.Present() {
		t.Fatal("selecting a cycle model must reset both timing representations")
	}
	if err := m.SetCycleModel("tumor", "nonexistent"); err == nil {
		t.Fatal("unknown cycle model must fail")
	}
}

func TestSetDeathTimingPairing(t *testing.T) {
	m := modelWithCell(t)
	if err := m.SetDeathTransitionRates("tumor", domain.DeathApoptosis, []float64{0.002}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetDeathPhaseDurations("tumor", domain.DeathApoptosis, []float64{600}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct, _ := m.CellType("tumor")
	dm := ct.Phenotype.Death[domain.DeathApoptosis]
	if !dm.PhaseDurations.Populated() || dm.TransitionRates.Present() {
		t.Fatalf("death timing pairing broken: %+v", dm)
	}
	// The other death model is untouched.
	nec := ct.Phenotype.Death[domain.DeathNecrosis]
	if nec.PhaseDurations.Present() {
		t.Fatal("necrosis timing must stay absent")
	}
}

func TestSetDeathRateAndParameter(t *testing.T) {
	m := modelWithCell(t)
	if err := m.SetDeathRate("tumor", domain.DeathNecrosis, 0.005); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetDeathParameter("tumor", domain.DeathNecrosis, DeathLysedFluidChangeRate, 0.001); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct, _ := m.CellType("tumor")
	dm := ct.Phenotype.Death[domain.DeathNecrosis]
	if dm.Rate != 0.005 || dm.Parameters.LysedFluidChangeRate != 0.001 {
		t.Fatalf("unexpected death model %+v", dm)
	}
	if err := m.SetDeathRate("tumor", domain.DeathNecrosis, -1); err == nil {
		t.Fatal("negative death rate must fail")
	}
	err := m.SetDeathParameter("tumor", domain.DeathApoptosis, "bogus", 1)
	var unknown domain.ErrUnknownParameter
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownParameter, got %v", err)
	}
	if len(unknown.Valid) != 6 {
		t.Fatalf("expected 6 valid death parameters, got %v", unknown.Valid)
	}
}

func TestSetVolumeParameter(t *testing.T) {
	m := modelWithCell(t)
	if err := m.SetVolumeParameter("tumor", VolumeTotal, 3000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct, _ := m.CellType("tumor")
	if ct.Phenotype.Volume.Total != 3000 {
		t.Fatalf("unexpected total volume %v", ct.Phenotype.Volume.Total)
	}
	if err := m.SetVolumeParameter("tumor", VolumeTotal, -1); err == nil {
		t.Fatal("negative volume must fail")
	}
	if err := m.SetVolumeParameter("tumor", "bogus", 1); err == nil {
		t.Fatal("unknown volume parameter must fail")
	}
}

func TestSetMotilityValidatesBias(t *testing.T) {
	m := modelWithCell(t)
	if err := m.SetMotility("tumor", 1, 5, 1.5); err == nil {
		t.Fatal("bias above 1 must fail")
	}
	if err := m.SetMotility("tumor", 1, 5, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct, _ := m.CellType("tumor")
	if !ct.Phenotype.Motility.Enabled || ct.Phenotype.Motility.Speed != 1 {
		t.Fatalf("unexpected motility %+v", ct.Phenotype.Motility)
	}
	if err := m.DisableMotility("tumor"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct.Phenotype.Motility.Enabled {
		t.Fatal("motility still enabled after disable")
	}
	if ct.Phenotype.Motility.Speed != 1 {
		t.Fatal("disable must keep motility scalars")
	}
}

func TestEnableChemotaxisDirection(t *testing.T) {
	m := modelWithCell(t)
	if err := m.EnableChemotaxis("tumor", "oxygen", 0); err == nil {
		t.Fatal("direction 0 must fail")
	}
	if err := m.EnableChemotaxis("tumor", "oxygen", -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct, _ := m.CellType("tumor")
	chem := ct.Phenotype.Motility.Chemotaxis
	if !chem.Enabled || chem.Substrate != "oxygen" || chem.Direction != -1 {
		t.Fatalf("unexpected chemotaxis %+v", chem)
	}
}

func TestPopulateAdhesionAffinities(t *testing.T) {
	m := newTestModel(t)
	m.AddCellType("tumor", "")
	m.AddCellType("macrophage", "")
	if err := m.SetAdhesionAffinity("tumor", "macrophage", 0.25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.PopulateAdhesionAffinities(1.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tumor, _ := m.CellType("tumor")
	aff := tumor.Phenotype.Mechanics.AdhesionAffinities
	if aff["macrophage"] != 0.25 {
		t.Fatal("explicit affinity must not be overwritten")
	}
	if aff["tumor"] != 1.0 {
		t.Fatal("missing self affinity not filled")
	}
	if _, ok := aff[domain.DefaultAffinityKey]; ok {
		t.Fatal("placeholder affinity must be dropped once real pairs exist")
	}
	macrophage, _ := m.CellType("macrophage")
	aff = macrophage.Phenotype.Mechanics.AdhesionAffinities
	if aff["tumor"] != 1.0 || aff["macrophage"] != 1.0 {
		t.Fatalf("unexpected affinities %+v", aff)
	}
}

func TestSetCellAdhesionAffinitiesReplaces(t *testing.T) {
	m := modelWithCell(t)
	if err := m.SetCellAdhesionAffinities("tumor", map[string]float64{"tumor": 0.5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct, _ := m.CellType("tumor")
	aff := ct.Phenotype.Mechanics.AdhesionAffinities
	if len(aff) != 1 || aff["tumor"] != 0.5 {
		t.Fatalf("unexpected affinities %+v", aff)
	}
}

func TestSetSecretionValidation(t *testing.T) {
	m := modelWithCell(t)
	if err := m.SetSecretion("tumor", "oxygen", domain.Secretion{Rate: -1}); err == nil {
		t.Fatal("negative secretion rate must fail")
	}
	if err := m.SetSecretion("tumor", "oxygen", domain.Secretion{Rate: 10, Target: 38, UptakeRate: 0.1, NetExportRate: -2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct, _ := m.CellType("tumor")
	sec := ct.Phenotype.Secretion["oxygen"]
	// Net export may be negative, so it passes through unchecked.
	if sec.NetExportRate != -2 {
		t.Fatalf("unexpected secretion %+v", sec)
	}
}

func TestTargetRateSetters(t *testing.T) {
	m := modelWithCell(t)
	if err := m.SetLivePhagocytosisRate("tumor", "debris", 0.01); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetAttackRate("tumor", "invader", 0.2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetFusionRate("tumor", "tumor", 0.05); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetTransformationRate("tumor", "stromal", 0.001); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ct, _ := m.CellType("tumor")
	p := ct.Phenotype
	if p.Interactions.LivePhagocytosisRates["debris"] != 0.01 ||
		p.Interactions.AttackRates["invader"] != 0.2 ||
		p.Interactions.FusionRates["tumor"] != 0.05 ||
		p.Transformations.Rates["stromal"] != 0.001 {
		t.Fatalf("target rate setters did not record values: %+v", p)
	}
	if err := m.SetAttackRate("tumor", "invader", -1); err == nil {
		t.Fatal("negative attack rate must fail")
	}
}

func TestAddCustomDataUpsert(t *testing.T) {
	m := modelWithCell(t)
	m.AddCustomData("tumor", domain.CustomVariable{Name: "sample", Value: 1})
	m.AddCustomData("tumor", domain.CustomVariable{Name: "other", Value: 2, Units: "mmHg"})
	m.AddCustomData("tumor", domain.CustomVariable{Name: "sample", Value: 9, Conserved: true})

	ct, _ := m.CellType("tumor")
	cd := ct.Phenotype.CustomData
	if len(cd) != 2 {
		t.Fatalf("expected 2 custom variables, got %d", len(cd))
	}
	if cd[0].Name != "sample" || cd[0].Value != 9 || !cd[0].Conserved {
		t.Fatalf("replacement must keep insertion order: %+v", cd)
	}
	if cd[0].Units != "dimensionless" {
		t.Fatalf("missing units must default, got %q", cd[0].Units)
	}
	if cd[1].Units != "mmHg" {
		t.Fatalf("explicit units lost, got %q", cd[1].Units)
	}
}

func TestIntracellularLifecycle(t *testing.T) {
	m := modelWithCell(t)
	if err := m.SetIntracellularParameter("tumor", IntracellularDt, 6); err == nil {
		t.Fatal("setting parameters before enabling must fail")
	}
	if err := m.EnableIntracellular("tumor", "network.bnd", "network.cfg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetIntracellularParameter("tumor", IntracellularDt, 6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetIntracellularInheritance("tumor", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddIntracellularInitialValue("tumor", "A", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddIntracellularInitialValue("tumor", "A", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddIntracellularMutation("tumor", "B", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddIntracellularInput("tumor", domain.IOMapping{PhysiCellName: "oxygen", IntracellularName: "Oxy", Action: "activation", Threshold: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddIntracellularOutput("tumor", domain.IOMapping{PhysiCellName: "apoptosis", IntracellularName: "Death", Action: "activation", Threshold: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ct, _ := m.CellType("tumor")
	ic := ct.Phenotype.Intracellular
	if ic == nil || ic.Type != "maboss" {
		t.Fatalf("unexpected intracellular %+v", ic)
	}
	if ic.Settings.IntracellularDt != 6 || !ic.Settings.InheritanceGlobal {
		t.Fatalf("unexpected settings %+v", ic.Settings)
	}
	if len(ic.InitialValues) != 1 || ic.InitialValues[0].Value {
		t.Fatalf("initial value upsert broken: %+v", ic.InitialValues)
	}
	if len(ic.Inputs) != 1 || len(ic.Outputs) != 1 {
		t.Fatalf("mappings not recorded: %+v", ic)
	}
}
