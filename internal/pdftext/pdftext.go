// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext downloads paper PDFs and extracts their plain text.
// Callers treat it as bytes in, text out: any failure here means the
// pipeline falls back to the abstract, so errors are reported, never
// fatal.
package pdftext

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/paper-scout/internal/httputil"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// Resolver downloads PDFs into a working directory and extracts text.
type Resolver struct {
	client *http.Client
	cfg    types.PDFConfig
	dir    string
}

// NewResolver returns a Resolver writing into cfg.DownloadDir, or a
// fresh directory under the system temp dir when unset.
func NewResolver(cfg types.PDFConfig) (*Resolver, error) {
	dir := cfg.DownloadDir
	if dir == "" {
		var err error
		dir, err = os.MkdirTemp("", "paper-scout-pdfs-")
		if err != nil {
			return nil, fmt.Errorf("creating download directory: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating download directory %s: %w", dir, err)
	}

	return &Resolver{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		dir:    dir,
	}, nil
}

// Dir returns the download directory.
func (r *Resolver) Dir() string { return r.dir }

// FullText downloads the candidate's PDF (skipping the download when the
// file is already on disk) and extracts its text.
func (r *Resolver) FullText(ctx context.Context, c types.Candidate) (string, error) {
	if c.PDFURL == "" {
		return "", fmt.Errorf("candidate %s has no PDF URL", c.ID)
	}

	pdfPath := r.pdfPath(c.ID)
	if _, err := os.Stat(pdfPath); err != nil {
		if err := r.download(ctx, c.PDFURL, pdfPath); err != nil {
			return "", fmt.Errorf("downloading %s: %w", c.ID, err)
		}
	}

	text, err := extractText(pdfPath)
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", c.ID, err)
	}
	if text == "" {
		return "", fmt.Errorf("no text extracted from %s", c.ID)
	}
	return text, nil
}

// Remove deletes the downloaded artifact for one paper. Used by the
// pipeline once the paper's summarization is finished.
func (r *Resolver) Remove(id string) error {
	err := os.Remove(r.pdfPath(id))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Cleanup removes every downloaded PDF and, when it ends up empty, the
// download directory itself.
func (r *Resolver) Cleanup() error {
	matches, err := filepath.Glob(filepath.Join(r.dir, "*.pdf"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return err
		}
	}
	os.Remove(r.dir)
	return nil
}

func (r *Resolver) pdfPath(id string) string {
	return filepath.Join(r.dir, strings.ReplaceAll(id, "/", "_")+".pdf")
}

// download fetches url to destPath using a temporary file so a partial
// download never masquerades as a complete PDF.
func (r *Resolver) download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, r.client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// extractText pulls the plain text out of a PDF and normalizes its
// whitespace. Pages that fail to extract are skipped rather than
// failing the whole document.
func extractText(path string) (text string, err error) {
	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing PDF: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for page := 1; page <= reader.NumPage(); page++ {
		p := reader.Page(page)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return cleanText(b.String()), nil
}

// cleanText drops empty and single-character lines and collapses runs of
// whitespace, matching what summarization wants to see.
func cleanText(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 1 {
			lines = append(lines, line)
		}
	}
	return strings.Join(strings.Fields(strings.Join(lines, " ")), " ")
}
