package ocr

import (
	"context"
	"fmt"

	"pantrio/internal/config"
	"pantrio/internal/domain"
)

// Provider abstracts one OCR backend. Implementations must be safe for
// concurrent use by multiple worker goroutines.
type Provider interface {
	// ProcessDocument runs OCR on the document bytes. Known error classes
	// (unreadable image, malformed document) are reported inside the Result;
	// only infrastructure failures (network, auth) return a Go error.
	ProcessDocument(ctx context.Context, input ProcessInput) (*Result, error)
	// SupportsDocumentType reports whether this backend can handle the type.
	SupportsDocumentType(docType domain.DocumentType) bool
	// IsAvailable checks credentials/configuration, not network reachability.
	IsAvailable() bool
	// Name identifies the provider in logs and persisted receipts.
	Name() string
}

// ProviderFactory creates a Provider from a provider config.
type ProviderFactory func(cfg *config.OCRProviderConfig) (Provider, error)

// registry of OCR provider factories, populated explicitly via
// RegisterProvider during wiring.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an OCR provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewProvider creates a Provider from a provider config using the registered
// factory.
func NewProvider(cfg *config.OCRProviderConfig) (Provider, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown OCR provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// Selector picks a provider for a document type. Policy: first registered
// provider that is available and supports the type.
type Selector struct {
	ordered []Provider
}

// NewSelector creates a Selector over the given providers, in priority order.
func NewSelector(ordered ...Provider) *Selector {
	return &Selector{ordered: ordered}
}

// Select returns the first available provider supporting docType, or
// domain.ErrNoOcrProvider when none qualifies.
func (s *Selector) Select(docType domain.DocumentType) (Provider, error) {
	for _, p := range s.ordered {
		if p.IsAvailable() && p.SupportsDocumentType(docType) {
			return p, nil
		}
	}
	return nil, domain.ErrNoOcrProvider
}
