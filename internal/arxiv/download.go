// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/harvest/pkg/types"
)

const maxTitleLen = 100

// ErrNoPDF is returned for papers whose entry carried no PDF link.
var ErrNoPDF = errors.New("PDF link not found")

// SafeTitle keeps ASCII letters, digits, spaces, hyphens, and underscores
// from title, drops trailing whitespace, and caps the result at 100 bytes.
func SafeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	s := strings.TrimRight(b.String(), " ")
	if len(s) > maxTitleLen {
		s = strings.TrimRight(s[:maxTitleLen], " ")
	}
	return s
}

// FileName returns "<arxiv id>_<safe title>.pdf".
func FileName(p types.Paper) string {
	return p.ArxivID + "_" + SafeTitle(p.Title) + ".pdf"
}

// Downloader fetches paper PDFs into OutputDir.
type Downloader struct {
	Client    *http.Client
	OutputDir string
}

// Download fetches p's PDF and returns the written path. Papers without a
// PDF link fail with ErrNoPDF before any I/O. The file appears under its
// final name only once the whole body has arrived.
func (d *Downloader) Download(ctx context.Context, p types.Paper) (string, error) {
	if !p.HasPDF() {
		return "", ErrNoPDF
	}

	body, err := d.fetchPDF(ctx, p.PDFURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if err := os.MkdirAll(d.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", d.OutputDir, err)
	}
	path := filepath.Join(d.OutputDir, FileName(p))
	if err := savePDF(path, body); err != nil {
		return "", err
	}
	return path, nil
}

// fetchPDF opens the PDF response body. Non-200 answers are a *StatusError.
func (d *Downloader) fetchPDF(ctx context.Context, pdfURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", pdfMediaType)

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: pdfURL}
	}
	return resp.Body, nil
}

// savePDF streams body into a hidden sibling of path and renames it over
// path when complete. Any failure removes the partial file.
func savePDF(path string, body io.Reader) (err error) {
	part, err := os.CreateTemp(filepath.Dir(path), ".partial-*.pdf")
	if err != nil {
		return fmt.Errorf("creating partial file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(part.Name())
		}
	}()

	if _, err = io.Copy(part, body); err != nil {
		part.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err = part.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	if err = os.Rename(part.Name(), path); err != nil {
		return fmt.Errorf("moving %s into place: %w", filepath.Base(path), err)
	}
	return nil
}
