package core

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"physiconf/internal/blob"
	"physiconf/pkg/domain"
	"physiconf/pkg/registry"
)

// SettingsCodec renders a model to the settings XML document and back.
// Implemented by the settings XML codec; accepted as an interface to keep
// the codec layered above the model.
type SettingsCodec interface {
	Serialize(m *ConfigModel) ([]byte, error)
	Parse(data []byte) (*ConfigModel, error)
}

// RuleCodec renders behavioral rules to the companion CSV format and back.
type RuleCodec interface {
	Encode(rules []domain.Rule) ([]byte, error)
	Decode(data []byte, ctx *registry.Context) ([]domain.Rule, error)
}

// Service persists named configuration documents and publishes rendered
// artifacts. Document storage and artifact publishing are optional; a
// service without them still serializes and parses.
type Service struct {
	codec   SettingsCodec
	rules   RuleCodec
	docs    DocumentStore
	blobs   blob.Store
	metrics MetricsRecorder
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithDocumentStore attaches a persistent document store.
func WithDocumentStore(store DocumentStore) Option {
	return func(s *Service) { s.docs = store }
}

// WithBlobStore attaches an artifact blob store.
func WithBlobStore(store blob.Store) Option {
	return func(s *Service) { s.blobs = store }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(rec MetricsRecorder) Option {
	return func(s *Service) { s.metrics = rec }
}

// NewService constructs a service around the supplied codecs.
func NewService(codec SettingsCodec, rules RuleCodec, opts ...Option) *Service {
	s := &Service{
		codec:   codec,
		rules:   rules,
		metrics: NoopMetricsRecorder{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) observe(op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.Observe(op, time.Since(start), status)
}

// Render serializes the model to its two external surfaces: the settings
// XML document and the rules CSV (nil when the model has no rules).
func (s *Service) Render(m *ConfigModel) (settings, rules []byte, err error) {
	start := time.Now()
	defer func() { s.observe("render", start, err) }()
	settings, err = s.codec.Serialize(m)
	if err != nil {
		return nil, nil, err
	}
	if rs := m.Rules(); len(rs) > 0 {
		rules, err = s.rules.Encode(rs)
		if err != nil {
			return nil, nil, err
		}
	}
	return settings, rules, nil
}

// SaveDocument renders the model and stores it under name.
func (s *Service) SaveDocument(ctx context.Context, name string, m *ConfigModel) (err error) {
	start := time.Now()
	defer func() { s.observe("save_document", start, err) }()
	if s.docs == nil {
		return fmt.Errorf("no document store configured")
	}
	settings, rules, err := s.Render(m)
	if err != nil {
		return err
	}
	return s.docs.Put(ctx, domain.StoredDocument{
		Name:      name,
		Settings:  settings,
		Rules:     rules,
		UpdatedAt: s.now().UTC(),
	})
}

// LoadDocument retrieves a stored document and parses it back into a model,
// re-attaching its rules against the parsed entity context.
func (s *Service) LoadDocument(ctx context.Context, name string) (m *ConfigModel, err error) {
	start := time.Now()
	defer func() { s.observe("load_document", start, err) }()
	if s.docs == nil {
		return nil, fmt.Errorf("no document store configured")
	}
	doc, err := s.docs.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	m, err = s.codec.Parse(doc.Settings)
	if err != nil {
		return nil, err
	}
	if len(doc.Rules) > 0 {
		rules, err := s.rules.Decode(doc.Rules, m.Context())
		if err != nil {
			return nil, err
		}
		for _, r := range rules {
			if err := m.AddRule(r); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// ListDocuments lists stored documents.
func (s *Service) ListDocuments(ctx context.Context) ([]domain.StoredDocument, error) {
	if s.docs == nil {
		return nil, fmt.Errorf("no document store configured")
	}
	return s.docs.List(ctx)
}

// DeleteDocument removes a stored document.
func (s *Service) DeleteDocument(ctx context.Context, name string) error {
	if s.docs == nil {
		return fmt.Errorf("no document store configured")
	}
	return s.docs.Delete(ctx, name)
}

// PublishArtifacts renders the model and writes the settings XML (and rules
// CSV when present) to the blob store under the given key prefix.
func (s *Service) PublishArtifacts(ctx context.Context, prefix string, m *ConfigModel) (infos []blob.Info, err error) {
	start := time.Now()
	defer func() { s.observe("publish_artifacts", start, err) }()
	if s.blobs == nil {
		return nil, fmt.Errorf("no blob store configured")
	}
	settings, rules, err := s.Render(m)
	if err != nil {
		return nil, err
	}
	info, err := s.blobs.Put(ctx, prefix+"/settings.xml", bytes.NewReader(settings), blob.PutOptions{ContentType: "application/xml"})
	if err != nil {
		return nil, err
	}
	infos = append(infos, info)
	if len(rules) > 0 {
		info, err = s.blobs.Put(ctx, prefix+"/rules.csv", bytes.NewReader(rules), blob.PutOptions{ContentType: "text/csv"})
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}
