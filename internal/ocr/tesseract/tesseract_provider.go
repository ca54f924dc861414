// Package tesseract implements a local OCR provider that shells out to the
// tesseract binary and parses its plain-text output into line items. It is
// the zero-cost fallback when no cloud provider is configured.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pantrio/internal/config"
	"pantrio/internal/domain"
	"pantrio/internal/ocr"
)

const providerName = "tesseract"

// Plain-text OCR has no per-field confidence; these are conservative fixed
// estimates for downstream flagging.
const (
	overallConfidence = 0.6
	lineConfidence    = 0.5
)

var (
	// "LAIT DEMI ECREME 1L    1,29", description then price at end of line
	itemLineRe = regexp.MustCompile(`^(.{2,}?)\s{2,}(-?\d+[.,]\d{2})\s*$`)
	// "TOTAL 23,45" / "TOTAL TTC : 23.45"
	totalLineRe = regexp.MustCompile(`(?i)^\s*total(?:\s+ttc)?\s*:?\s*(\d+[.,]\d{2})\s*$`)
	taxLineRe   = regexp.MustCompile(`(?i)^\s*tva\s*:?\s*(\d+[.,]\d{2})\s*$`)
)

type tesseractProvider struct {
	binaryPath string
	languages  string
}

// New creates a tesseract-backed ocr.Provider from the provider config.
func New(cfg *config.OCRProviderConfig) (ocr.Provider, error) {
	binary := cfg.BinaryPath
	if binary == "" {
		binary = "tesseract"
	}
	langs := cfg.Languages
	if langs == "" {
		langs = "fra+eng"
	}
	return &tesseractProvider{binaryPath: binary, languages: langs}, nil
}

func (p *tesseractProvider) Name() string { return providerName }

func (p *tesseractProvider) IsAvailable() bool {
	_, err := exec.LookPath(p.binaryPath)
	return err == nil
}

func (p *tesseractProvider) SupportsDocumentType(docType domain.DocumentType) bool {
	return docType == domain.DocumentTypeReceiptImage
}

func (p *tesseractProvider) ProcessDocument(ctx context.Context, input ocr.ProcessInput) (*ocr.Result, error) {
	start := time.Now()

	tmp, err := os.CreateTemp("", "pantrio-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("tesseract: creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(input.FileBytes); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("tesseract: writing temp file: %w", err)
	}
	tmp.Close()

	cmd := exec.CommandContext(ctx, p.binaryPath, tmp.Name(), "stdout", "-l", p.languages, "--psm", "6")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("tesseract: %w", ctx.Err())
		}
		// Unreadable image is a known error class, not infrastructure
		return ocr.Failure(providerName, input.DocumentType,
			fmt.Sprintf("tesseract failed: %v: %s", err, strings.TrimSpace(stderr.String())),
			time.Since(start)), nil
	}

	data := parseReceiptText(stdout.String())
	if len(data.LineItems) == 0 && data.TotalAmount == nil {
		return ocr.Failure(providerName, input.DocumentType,
			"no recognizable receipt content in OCR output", time.Since(start)), nil
	}

	return &ocr.Result{
		Success:        true,
		Data:           data,
		ProcessingTime: time.Since(start),
		Provider:       providerName,
		DocumentType:   input.DocumentType,
	}, nil
}

// parseReceiptText applies line heuristics to raw OCR text: the first
// non-empty line is taken as the merchant, trailing-price lines become line
// items, and TOTAL/TVA lines feed the amounts.
func parseReceiptText(text string) *ocr.ReceiptData {
	data := &ocr.ReceiptData{
		Confidence: overallConfidence,
		Currency:   "EUR",
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if data.MerchantName == "" {
			data.MerchantName = line
			continue
		}

		if m := totalLineRe.FindStringSubmatch(line); m != nil {
			if v, err := parseAmount(m[1]); err == nil {
				data.TotalAmount = &v
			}
			continue
		}
		if m := taxLineRe.FindStringSubmatch(line); m != nil {
			if v, err := parseAmount(m[1]); err == nil {
				data.TaxAmount = &v
			}
			continue
		}
		if m := itemLineRe.FindStringSubmatch(line); m != nil {
			price, err := parseAmount(m[2])
			if err != nil {
				continue
			}
			data.LineItems = append(data.LineItems, ocr.LineItem{
				Description: strings.TrimSpace(m[1]),
				TotalPrice:  &price,
				Confidence:  lineConfidence,
			})
		}
	}

	return data
}

func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
