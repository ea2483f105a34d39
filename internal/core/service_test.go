package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"physiconf/internal/blob"
	"physiconf/internal/infra/persistence/memory"
	"physiconf/pkg/domain"
	"physiconf/pkg/registry"
)

type stubSettingsCodec struct {
	serializeErr error
}

func (c stubSettingsCodec) Serialize(*ConfigModel) ([]byte, error) {
	if c.serializeErr != nil {
		return nil, c.serializeErr
	}
	return []byte("<settings/>"), nil
}

func (c stubSettingsCodec) Parse([]byte) (*ConfigModel, error) {
	m := NewConfigModel(registry.NewTemplateStore(), registry.NewSignalBehaviorRegistry())
	m.AddCellType("tumor", "")
	return m, nil
}

type stubRuleCodec struct{}

func (stubRuleCodec) Encode([]domain.Rule) ([]byte, error) { return []byte("rules"), nil }

func (stubRuleCodec) Decode([]byte, *registry.Context) ([]domain.Rule, error) {
	return []domain.Rule{{
		CellType:  "tumor",
		Signal:    "pressure",
		Direction: domain.DirectionDecreases,
		Behavior:  "cycle entry",
		HalfMax:   1,
		HillPower: 4,
	}}, nil
}

func TestServiceRender(t *testing.T) {
	svc := NewService(stubSettingsCodec{}, stubRuleCodec{})
	m := newTestModel(t)
	settings, rules, err := svc.Render(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(settings) != "<settings/>" {
		t.Fatalf("unexpected settings %q", settings)
	}
	if rules != nil {
		t.Fatal("model without rules must render nil rules")
	}

	m.AddCellType("tumor", "")
	m.AddRule(domain.Rule{CellType: "tumor", Signal: "pressure", Direction: domain.DirectionDecreases, Behavior: "cycle entry", HalfMax: 1, HillPower: 4})
	_, rules, err = svc.Render(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(rules) != "rules" {
		t.Fatalf("unexpected rules %q", rules)
	}
}

func TestServiceRequiresStores(t *testing.T) {
	svc := NewService(stubSettingsCodec{}, stubRuleCodec{})
	ctx := context.Background()
	if err := svc.SaveDocument(ctx, "doc", newTestModel(t)); err == nil {
		t.Fatal("save without a document store must fail")
	}
	if _, err := svc.LoadDocument(ctx, "doc"); err == nil {
		t.Fatal("load without a document store must fail")
	}
	if _, err := svc.ListDocuments(ctx); err == nil {
		t.Fatal("list without a document store must fail")
	}
	if err := svc.DeleteDocument(ctx, "doc"); err == nil {
		t.Fatal("delete without a document store must fail")
	}
	if _, err := svc.PublishArtifacts(ctx, "p", newTestModel(t)); err == nil {
		t.Fatal("publish without a blob store must fail")
	}
}

func TestServiceSaveLoadDelete(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(stubSettingsCodec{}, stubRuleCodec{}, WithDocumentStore(store))
	ctx := context.Background()

	m := newTestModel(t)
	m.AddCellType("tumor", "")
	m.AddRule(domain.Rule{CellType: "tumor", Signal: "pressure", Direction: domain.DirectionDecreases, Behavior: "cycle entry", HalfMax: 1, HillPower: 4})
	if err := svc.SaveDocument(ctx, "experiment", m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	docs, err := svc.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "experiment" {
		t.Fatalf("unexpected listing %+v", docs)
	}
	if docs[0].UpdatedAt.IsZero() {
		t.Fatal("stored document must carry a timestamp")
	}

	loaded, err := svc.LoadDocument(ctx, "experiment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded.Rules()) != 1 {
		t.Fatalf("rules not re-attached, got %d", len(loaded.Rules()))
	}

	if err := svc.DeleteDocument(ctx, "experiment"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var notFound domain.ErrNotFound
	if _, err := svc.LoadDocument(ctx, "experiment"); !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestServicePublishArtifacts(t *testing.T) {
	blobs := blob.NewMemory()
	svc := NewService(stubSettingsCodec{}, stubRuleCodec{}, WithBlobStore(blobs))
	ctx := context.Background()

	m := newTestModel(t)
	m.AddCellType("tumor", "")
	m.AddRule(domain.Rule{CellType: "tumor", Signal: "pressure", Direction: domain.DirectionDecreases, Behavior: "cycle entry", HalfMax: 1, HillPower: 4})

	infos, err := svc.PublishArtifacts(ctx, "experiments/base", m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected settings and rules artifacts, got %d", len(infos))
	}
	if infos[0].Key != "experiments/base/settings.xml" || infos[0].ContentType != "application/xml" {
		t.Fatalf("unexpected settings info %+v", infos[0])
	}
	if infos[1].Key != "experiments/base/rules.csv" || infos[1].ContentType != "text/csv" {
		t.Fatalf("unexpected rules info %+v", infos[1])
	}

	// Publishing again replaces the artifacts in place.
	if _, err := svc.PublishArtifacts(ctx, "experiments/base", m); err != nil {
		t.Fatalf("republish: %v", err)
	}
	listed, err := blobs.List(ctx, "experiments/base")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("republish must not duplicate keys, got %d", len(listed))
	}
}

func TestServiceMetrics(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	svc := NewService(stubSettingsCodec{}, stubRuleCodec{}, WithMetrics(rec))
	if _, _, err := svc.Render(newTestModel(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	failing := NewService(stubSettingsCodec{serializeErr: errors.New("boom")}, stubRuleCodec{}, WithMetrics(rec))
	if _, _, err := failing.Render(newTestModel(t)); err == nil {
		t.Fatal("expected serialize failure")
	}
	snap := rec.Snapshot()
	if snap.Results["render"]["success"] != 1 || snap.Results["render"]["error"] != 1 {
		t.Fatalf("unexpected render results %v", snap.Results["render"])
	}
}

func TestServiceTimestampsUseInjectedClock(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(stubSettingsCodec{}, stubRuleCodec{}, WithDocumentStore(store))
	fixed := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	if err := svc.SaveDocument(context.Background(), "doc", newTestModel(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, err := store.Get(context.Background(), "doc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.UpdatedAt.Equal(fixed) {
		t.Fatalf("unexpected timestamp %v", doc.UpdatedAt)
	}
}
