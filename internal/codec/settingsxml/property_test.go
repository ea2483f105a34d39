package settingsxml

import (
	"bytes"
	"testing"

	"pgregory.net/rapid"

	"physiconf/internal/core"
	"physiconf/pkg/domain"
	"physiconf/pkg/registry"
)

// TestRoundTripProperty drives randomized models through serialize, parse,
// and a second serialize, checking that the parsed model preserves the
// generated values and that the second pass reproduces the first byte for
// byte.
func TestRoundTripProperty(t *testing.T) {
	templates := registry.NewTemplateStore()
	signals := registry.NewSignalBehaviorRegistry()
	codec := NewCodec(templates, signals)

	rapid.Check(t, func(rt *rapid.T) {
		m := core.NewConfigModel(templates, signals)

		m.Overall.MaxTime = rapid.Float64Range(1, 1e6).Draw(rt, "maxTime")
		m.Parallel.OmpNumThreads = rapid.IntRange(1, 64).Draw(rt, "threads")
		m.Options.RandomSeed = rapid.IntRange(0, 1<<30).Draw(rt, "seed")

		s, err := m.AddSubstrate("oxygen")
		if err != nil {
			rt.Fatalf("add substrate: %v", err)
		}
		s.DiffusionCoefficient = rapid.Float64Range(0, 1e6).Draw(rt, "diffusion")
		s.DecayRate = rapid.Float64Range(0, 10).Draw(rt, "decay")
		s.InitialCondition = rapid.Float64Range(0, 100).Draw(rt, "initial")

		if _, err := m.AddCellType("tumor", ""); err != nil {
			rt.Fatalf("add cell type: %v", err)
		}
		switch rapid.IntRange(0, 2).Draw(rt, "timingMode") {
		case 0:
			durations := rapid.SliceOfN(rapid.Float64Range(0, 1e5), 1, 6).Draw(rt, "durations")
			if err := m.SetCyclePhaseDurations("tumor", durations); err != nil {
				rt.Fatalf("set durations: %v", err)
			}
		case 1:
			rates := rapid.SliceOfN(rapid.Float64Range(0, 1), 1, 6).Draw(rt, "rates")
			if err := m.SetCycleTransitionRates("tumor", rates); err != nil {
				rt.Fatalf("set rates: %v", err)
			}
		case 2:
			if err := m.SetCyclePhaseDurations("tumor", nil); err != nil {
				rt.Fatalf("set empty durations: %v", err)
			}
		}
		rate := rapid.Float64Range(0, 1).Draw(rt, "deathRate")
		if err := m.SetDeathRate("tumor", domain.DeathApoptosis, rate); err != nil {
			rt.Fatalf("set death rate: %v", err)
		}

		first, err := codec.Serialize(m)
		if err != nil {
			rt.Fatalf("serialize: %v", err)
		}
		parsed, err := codec.Parse(first)
		if err != nil {
			rt.Fatalf("parse: %v", err)
		}

		if parsed.Overall.MaxTime != m.Overall.MaxTime {
			rt.Fatalf("max time %v != %v", parsed.Overall.MaxTime, m.Overall.MaxTime)
		}
		ps, err := parsed.Substrate("oxygen")
		if err != nil {
			rt.Fatalf("parsed substrate: %v", err)
		}
		if ps.DiffusionCoefficient != s.DiffusionCoefficient || ps.DecayRate != s.DecayRate {
			rt.Fatalf("substrate scalars diverged: %+v vs %+v", ps, s)
		}
		ct, err := parsed.CellType("tumor")
		if err != nil {
			rt.Fatalf("parsed cell type: %v", err)
		}
		orig, _ := m.CellType("tumor")
		if orig.Phenotype.Cycle.PhaseDurations.State == domain.FieldEmpty &&
			ct.Phenotype.Cycle.PhaseDurations.State != domain.FieldEmpty {
			rt.Fatalf("present-empty durations lost: %+v", ct.Phenotype.Cycle.PhaseDurations)
		}
		if ct.Phenotype.Death[domain.DeathApoptosis].Rate != rate {
			rt.Fatalf("death rate diverged: %v", ct.Phenotype.Death[domain.DeathApoptosis].Rate)
		}

		second, err := codec.Serialize(parsed)
		if err != nil {
			rt.Fatalf("second serialize: %v", err)
		}
		if !bytes.Equal(first, second) {
			rt.Fatal("second serialization diverged from the first")
		}
	})
}
