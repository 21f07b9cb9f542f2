// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed/atom"

	"github.com/pdiddy/harvest/pkg/types"
)

const (
	unknownTitle = "Unknown Title"
	pdfMediaType = "application/pdf"
)

// ParseFeed decodes an arXiv Atom document into one Paper per entry, in
// document order. Missing optional elements fall back to defaults; only a
// malformed document is an error.
func ParseFeed(data []byte) ([]types.Paper, error) {
	if err := checkWellFormed(data); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	feed, err := (&atom.Parser{}).Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	papers := make([]types.Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		papers = append(papers, paperFromEntry(entry))
	}
	return papers, nil
}

// checkWellFormed reads every token of data with a strict XML decoder. The
// atom parser tolerates mismatched tags, bare ampersands, and unclosed
// elements, which must be rejected here.
func checkWellFormed(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func paperFromEntry(entry *atom.Entry) types.Paper {
	p := types.Paper{
		Title:   strings.TrimSpace(entry.Title),
		Summary: strings.TrimSpace(entry.Summary),
		ArxivID: lastSegment(entry.ID),
		Authors: []string{},
	}
	if p.Title == "" {
		p.Title = unknownTitle
	}

	for _, a := range entry.Authors {
		if a == nil || a.Name == "" {
			continue
		}
		p.Authors = append(p.Authors, a.Name)
	}

	for _, link := range entry.Links {
		if link != nil && link.Type == pdfMediaType {
			p.PDFURL = link.Href
			break
		}
	}
	return p
}

// lastSegment returns the text after the final "/" of an entry id URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041v1").
func lastSegment(idURL string) string {
	idURL = strings.TrimSpace(idURL)
	if i := strings.LastIndex(idURL, "/"); i >= 0 {
		return idURL[i+1:]
	}
	return idURL
}
