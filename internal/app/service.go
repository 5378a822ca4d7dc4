package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/skolverk/betyg/internal/grading"
	"github.com/skolverk/betyg/internal/report"
	"github.com/skolverk/betyg/internal/store"
)

// Service wires the calculation pipeline together from one immutable config:
// policy registry, calculator, summarizer, renderer, audit store and cache.
// Everything is constructed once at startup; per-request state is local.
type Service struct {
	Config     *Config
	Registry   *grading.Registry
	Calculator *grading.Calculator
	Summarizer *grading.Summarizer
	Renderer   *report.Renderer
	Store      store.AuditStore
	Cache      *Cache
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	engine := report.NewWkhtmltopdfEngine(config.Report.PageSize, config.Report.DPI)

	return NewServiceWithEngine(config, engine)
}

// NewServiceWithEngine builds the service around a specific render engine.
// Tests use it to substitute a fake for wkhtmltopdf.
func NewServiceWithEngine(config *Config, engine report.Engine) (*Service, error) {
	percentageBands := Bands(config.Grading.PercentageBands, grading.DefaultPercentageBands)

	registry := grading.NewRegistry()
	registry.Register(grading.NewBandPolicy(grading.PolicyPercentage, percentageBands))
	registry.Register(grading.NewBandPolicy(
		grading.PolicyLetterScale,
		Bands(config.Grading.LetterScaleBands, grading.DefaultLetterScaleBands),
	))
	registry.Register(grading.NewBandPolicy(
		grading.PolicyGPA,
		Bands(config.Grading.GPABands, grading.DefaultGPABands),
	))
	registry.Register(grading.NewPassFailPolicy(grading.PolicyPassFail, config.PassThreshold()))

	templates, err := report.LoadTemplates(config.Report.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	auditStore, err := NewStore(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	cache, err := NewCache(config)
	if err != nil {
		return nil, fmt.Errorf("failed to init cache: %w", err)
	}

	return &Service{
		Config:     config,
		Registry:   registry,
		Calculator: grading.NewCalculator(registry),
		Summarizer: grading.NewSummarizer(percentageBands, config.PassThreshold()),
		Renderer: report.NewRenderer(
			templates,
			engine,
			config.Report.MaxConcurrentRenders,
			config.Report.RetryTransient,
		),
		Store: auditStore,
		Cache: cache,
	}, nil
}

func (s *Service) ValidateHeaders(headers map[string][]string) bool {
	for _, required := range s.Config.API.RequiredHeaders {
		value := headers[http.CanonicalHeaderKey(required.Name)]
		if len(value) == 0 || !strings.EqualFold(value[0], required.Value) {
			return false
		}
	}
	return true
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("cache: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
