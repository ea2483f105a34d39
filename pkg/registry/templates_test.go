package registry

import (
	"errors"
	"testing"

	"physiconf/pkg/domain"
)

func TestTemplateReturnsCopy(t *testing.T) {
	s := NewTemplateStore()
	first, err := s.Template("default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.Mechanics.AdhesionAffinities[domain.DefaultAffinityKey] = 42
	first.Death[domain.DeathApoptosis] = domain.DeathModel{Rate: 1}

	second, err := s.Template("default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Mechanics.AdhesionAffinities[domain.DefaultAffinityKey] != 1.0 {
		t.Fatal("template mechanics leaked a prior caller's mutation")
	}
	if second.Death[domain.DeathApoptosis].Rate != 5.31667e-05 {
		t.Fatal("template death map leaked a prior caller's mutation")
	}
}

func TestTemplateUnknown(t *testing.T) {
	s := NewTemplateStore()
	_, err := s.Template("nonexistent")
	var notFound domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if notFound.Kind != domain.KindTemplate {
		t.Fatalf("unexpected kind %q", notFound.Kind)
	}
}

func TestTemplateNames(t *testing.T) {
	s := NewTemplateStore()
	names := s.TemplateNames()
	want := []string{"default", "motile", "secretory"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestCycleModelByCode(t *testing.T) {
	s := NewTemplateStore()
	m, ok := s.CycleModelByCode(5)
	if !ok {
		t.Fatal("live cycle model not found by code")
	}
	if m.Name != "live" || len(m.DefaultRates) != 1 || m.DefaultRates[0] != 0.00072 {
		t.Fatalf("unexpected model %+v", m)
	}
	if _, ok := s.CycleModelByCode(999); ok {
		t.Fatal("unknown code must not resolve")
	}
}

func TestCycleModelCopyIsolation(t *testing.T) {
	s := NewTemplateStore()
	m, err := s.CycleModel("live")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.DefaultRates[0] = 99
	again, _ := s.CycleModel("live")
	if again.DefaultRates[0] != 0.00072 {
		t.Fatal("cycle model defaults shared with caller")
	}
}

func TestDeathModelDefaults(t *testing.T) {
	s := NewTemplateStore()
	apo, err := s.DeathModel(domain.DeathApoptosis)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if apo.Code != 100 || apo.DefaultRate != 5.31667e-05 {
		t.Fatalf("unexpected apoptosis model %+v", apo)
	}
	if len(apo.DefaultDurations) != 1 || apo.DefaultDurations[0] != 516.0 {
		t.Fatalf("unexpected apoptosis durations %v", apo.DefaultDurations)
	}
	nec, err := s.DeathModel(domain.DeathNecrosis)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nec.Code != 101 || nec.DefaultRate != 0 {
		t.Fatalf("unexpected necrosis model %+v", nec)
	}
	if len(nec.DefaultDurations) != 2 || nec.DefaultDurations[1] != 86400.0 {
		t.Fatalf("unexpected necrosis durations %v", nec.DefaultDurations)
	}
}

func TestDeathKindByCode(t *testing.T) {
	s := NewTemplateStore()
	kind, ok := s.DeathKindByCode(101)
	if !ok || kind != domain.DeathNecrosis {
		t.Fatalf("got %q ok=%v", kind, ok)
	}
	if _, ok := s.DeathKindByCode(7); ok {
		t.Fatal("unknown code must not resolve")
	}
}

func TestMotileTemplateDiffersFromDefault(t *testing.T) {
	s := NewTemplateStore()
	motile, err := s.Template("motile")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !motile.Motility.Enabled || motile.Motility.Speed != 1.0 {
		t.Fatalf("unexpected motile template motility %+v", motile.Motility)
	}
	base, _ := s.Template("default")
	if base.Motility.Enabled {
		t.Fatal("default template must not be motile")
	}
}
