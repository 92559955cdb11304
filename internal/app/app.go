// Package app wires configuration into a ready engine for the CLI and the server.
package app

import (
	"go.uber.org/zap"

	"phone-bill/adapters/document"
	"phone-bill/adapters/plans"
	"phone-bill/core/engine"
	"phone-bill/core/receipt"
	"phone-bill/core/tariff"
	"phone-bill/internal/config"
	"phone-bill/internal/logging"
)

// LoadCatalog returns the plans from path, or the presets when path is empty
func LoadCatalog(path string) (*tariff.Catalog, error) {
	if path == "" {
		return tariff.DefaultCatalog(), nil
	}

	catalog, err := plans.NewLoader().LoadFile(path)
	if err != nil {
		return nil, err
	}
	logging.Debug("loaded plan file", zap.String("path", path), zap.Int("plans", catalog.Len()))
	return catalog, nil
}

// ReceiptConfig converts receipt settings for the generator
func ReceiptConfig(cfg *config.Config) receipt.GeneratorConfig {
	return receipt.GeneratorConfig{
		TemplatePath:     cfg.Receipt.TemplatePath,
		OutputDir:        cfg.Receipt.OutputDir,
		FilePrefix:       cfg.Receipt.FilePrefix,
		DecimalSeparator: cfg.Receipt.DecimalSeparator,
		Placeholders:     cfg.Receipt.Placeholders,
	}
}

// NewEngine builds an engine from cfg. recorder may be nil.
func NewEngine(cfg *config.Config, recorder engine.Recorder) (*engine.Engine, error) {
	catalog, err := LoadCatalog(cfg.Billing.PlansFile)
	if err != nil {
		return nil, err
	}

	renderers := document.NewRegistry(document.Options{
		PDFFontPath: cfg.Receipt.PDFFont,
		Currency:    string(cfg.Billing.Currency),
	})

	return engine.New(catalog, renderers, recorder, engine.Config{
		MaxMinutes: cfg.Billing.MaxMinutes,
		Currency:   cfg.Billing.Currency,
		Format:     cfg.Receipt.Format,
		Receipt:    ReceiptConfig(cfg),
	}), nil
}
