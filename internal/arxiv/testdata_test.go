// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"
)

const fakePDFContent = "%PDF-1.4 fake"

// feedXML renders an arXiv-style Atom feed. Each entry is a raw XML fragment.
func feedXML(entries ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title type="html">ArXiv Query: search_query=all:transformer</title>
  <id>http://arxiv.org/api/cHxbiOdZaP56ODnBPIenZhzg5f8</id>
` + strings.Join(entries, "\n") + `
</feed>`
}

// entryXML renders one entry whose PDF link points at pdfBase+id. An empty
// pdfBase omits the PDF link.
func entryXML(id, title, pdfBase string) string {
	pdfLink := ""
	if pdfBase != "" {
		pdfLink = fmt.Sprintf(`<link title="pdf" href="%s%s" rel="related" type="application/pdf"/>`, pdfBase, id)
	}
	return fmt.Sprintf(`  <entry>
    <id>http://arxiv.org/abs/%s</id>
    <updated>2023-01-17T18:58:28Z</updated>
    <published>2023-01-17T18:58:28Z</published>
    <title>%s</title>
    <summary>  Abstract of %s.
    </summary>
    <author><name>Alice Smith</name></author>
    <author><name>Bob Jones</name></author>
    <link href="http://arxiv.org/abs/%s" rel="alternate" type="text/html"/>
    %s
    <arxiv:primary_category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
  </entry>`, id, title, id, id, pdfLink)
}

// newArxivServer serves feed at /api/query and fake PDFs under /pdf/.
// Requests for /pdf/missing* return 404.
func newArxivServer(t *testing.T, feed func(tsURL string) string) *httptest.Server {
	t.Helper()
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/query":
			w.Header().Set("Content-Type", "application/atom+xml")
			fmt.Fprint(w, feed(ts.URL))
		case strings.HasPrefix(r.URL.Path, "/pdf/missing"):
			http.NotFound(w, r)
		case strings.HasPrefix(r.URL.Path, "/pdf/"):
			w.Header().Set("Content-Type", "application/pdf")
			fmt.Fprint(w, fakePDFContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

// overrideAPIBase points arxivAPIBase at the test server for one test.
func overrideAPIBase(t *testing.T, tsURL string) {
	t.Helper()
	orig := arxivAPIBase
	arxivAPIBase = tsURL + "/api/query"
	t.Cleanup(func() { arxivAPIBase = orig })
}

// readQueryFile loads a file written by WriteQueryFile.
func readQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, err
	}
	return &qf, nil
}
