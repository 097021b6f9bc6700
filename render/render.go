// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package render renders a record's markup as a standalone browser page.
package render

import (
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
{{.CSS}}
  </style>
</head>
<body>
{{.Body}}
<script>{{.JS}}</script>
</body>
</html>
`))

// Renderer renders record markup into standalone HTML pages.
type Renderer struct {
	// Dir is the dictionary's Contents directory holding media, stylesheet,
	// and script files.
	Dir string

	// CSSFile and JSFile are the names of the dictionary's stylesheet and
	// script inside Dir. Both are optional; a missing file is rendered as
	// empty.
	CSSFile string
	JSFile  string
}

// Page renders one record's markup as a standalone page. Relative audio
// references are rewritten to absolute file URIs so they resolve from
// anywhere, and the record's entry wrapper element, which browsers do not
// know, is stripped.
func (r *Renderer) Page(title, record string) (string, error) {
	data := struct {
		Title string
		Body  template.HTML
		CSS   template.CSS
		JS    template.JS
	}{
		Title: title,
		//nolint:gosec // record markup comes from the dictionary itself.
		Body: template.HTML(r.absoluteMedia(stripWrapper(record))),
		CSS:  template.CSS(r.readAsset(r.CSSFile)),
		//nolint:gosec // script content comes from the dictionary itself.
		JS: template.JS(r.readAsset(r.JSFile)),
	}

	var b strings.Builder
	if err := pageTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering page: %w", err)
	}
	return b.String(), nil
}

// stripWrapper removes the record's d:entry wrapper element.
func stripWrapper(record string) string {
	s := strings.TrimSpace(record)
	if strings.HasPrefix(s, "<d:entry") {
		if i := strings.IndexByte(s, '>'); i >= 0 {
			s = s[i+1:]
		}
	}
	return strings.TrimSuffix(s, "</d:entry>")
}

// absoluteMedia rewrites quoted relative .mp3 references to absolute file
// URIs under the dictionary directory.
func (r *Renderer) absoluteMedia(s string) string {
	parts := strings.Split(s, `"`)
	// Odd parts sit between quotes.
	for i := 1; i < len(parts); i += 2 {
		name := parts[i]
		if !strings.HasSuffix(name, ".mp3") || strings.Contains(name, "/") {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(r.Dir, name))
		if err != nil {
			continue
		}
		u := url.URL{Scheme: "file", Path: abs}
		parts[i] = u.String()
	}
	return strings.Join(parts, `"`)
}

func (r *Renderer) readAsset(name string) string {
	if name == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(r.Dir, name))
	if err != nil {
		return ""
	}
	return string(data)
}
