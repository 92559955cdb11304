package receipt

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"phone-bill/internal/errors"
	"phone-bill/internal/logging"
)

// GeneratorConfig locates the template and the output directory
type GeneratorConfig struct {
	// TemplatePath is the template file; ignored by template-free renderers
	TemplatePath string

	// OutputDir receives generated receipts; empty means the working directory
	OutputDir string

	// FilePrefix starts every file name
	FilePrefix string

	// DecimalSeparator is written into the amount
	DecimalSeparator string

	// Placeholders are the template markers
	Placeholders Placeholders
}

// Generator renders receipts to files, one new file per call
type Generator struct {
	cfg      GeneratorConfig
	renderer Renderer
}

// NewGenerator validates the placeholders and returns a generator
func NewGenerator(cfg GeneratorConfig, renderer Renderer) (*Generator, error) {
	if renderer == nil {
		return nil, errors.New(errors.TypeConfig, "receipt renderer is required")
	}
	if err := cfg.Placeholders.Validate(); err != nil {
		return nil, err
	}
	if cfg.FilePrefix == "" {
		cfg.FilePrefix = DefaultFilePrefix
	}
	if cfg.DecimalSeparator == "" {
		cfg.DecimalSeparator = DefaultDecimalSeparator
	}
	return &Generator{cfg: cfg, renderer: renderer}, nil
}

// FileName returns the file name Generate would use for r
func (g *Generator) FileName(r Receipt) string {
	return FileName(g.cfg.FilePrefix, r.Number, r.IssuedAt, g.renderer.Extension())
}

// Render writes the filled document for r to w
func (g *Generator) Render(ctx context.Context, r Receipt, w io.Writer) error {
	tmpl, err := g.loadTemplate()
	if err != nil {
		return err
	}

	fields := BuildFields(r, g.cfg.Placeholders, g.cfg.DecimalSeparator)
	if err := g.renderer.Render(ctx, tmpl, fields, w); err != nil {
		if errors.TypeOf(err) != "" {
			return err
		}
		return errors.Render("failed to fill receipt template", err)
	}
	return nil
}

// Generate writes a new receipt file and returns its absolute path.
// A failed render leaves no partial file behind.
func (g *Generator) Generate(ctx context.Context, r Receipt) (string, error) {
	runID := uuid.New().String()
	log := logging.ForReceipt(runID, r.Number, string(g.renderer.Format()))

	dir := g.cfg.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(errors.TypeRender, err, "failed to create output directory %s", dir)
	}

	path, err := filepath.Abs(filepath.Join(dir, g.FileName(r)))
	if err != nil {
		return "", errors.Internal("failed to resolve output path", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", errors.Wrapf(errors.TypeRender, err, "failed to create receipt file %s", path)
	}

	renderErr := g.Render(ctx, r, file)
	closeErr := file.Close()
	if renderErr == nil && closeErr != nil {
		renderErr = errors.Wrapf(errors.TypeRender, closeErr, "failed to save receipt %s", path)
	}
	if renderErr != nil {
		_ = os.Remove(path)
		log.Warn("receipt generation failed", zap.Error(renderErr))
		return "", renderErr
	}

	log.Info("receipt generated", zap.String("path", path))
	return path, nil
}

func (g *Generator) loadTemplate() ([]byte, error) {
	if !g.renderer.NeedsTemplate() {
		return nil, nil
	}

	path := g.cfg.TemplatePath
	if path == "" {
		return nil, errors.New(errors.TypeConfig, "receipt template path is not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			abs, _ := filepath.Abs(path)
			return nil, errors.NotFound("receipt template", abs).
				WithContext("hint", "place the template file next to the program or set receipt.template_path")
		}
		return nil, errors.Wrapf(errors.TypeRender, err, "failed to read receipt template %s", path)
	}
	return data, nil
}
