// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared records and configuration for the harvest tools.
// Implements: arxiv-fetch (Paper, SearchConfig, DownloadConfig);
//
//	github-fetch (Repo, FilterConfig, CloneConfig).
package types

// Paper holds the metadata parsed from one arXiv Atom feed entry.
// Records are built by the parser and read once by the downloader.
type Paper struct {
	// Title is the trimmed entry title, or "Unknown Title" when absent.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// Summary is the trimmed abstract, empty when absent.
	Summary string `json:"summary" yaml:"summary"`

	// ArxivID is the last path segment of the entry id URL
	// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041v1").
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`

	// PDFURL is the href of the first link typed application/pdf.
	// Empty means the entry carried no PDF link.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`
}

// HasPDF reports whether the entry carried a PDF link.
func (p Paper) HasPDF() bool {
	return p.PDFURL != ""
}
