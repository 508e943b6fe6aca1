// internal/service/listing/interfaces/preview.go
package interfaces

import (
	"html/template"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/klausterra/alpha-se-1/internal/service/listing/domain"
)

const previewDescriptionMax = 160

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}} - Alpha-se</title>
<meta property="og:type" content="product">
<meta property="og:site_name" content="Alpha-se">
<meta property="og:title" content="{{.Title}} - R$ {{.Price}}">
<meta property="og:description" content="{{.Description}}">
{{- if .Image}}
<meta property="og:image" content="{{.Image}}">
<meta name="twitter:card" content="summary_large_image">
{{- end}}
<meta property="og:url" content="{{.URL}}">
</head>
<body>
<p><a href="{{.URL}}">{{.Title}}</a></p>
</body>
</html>
`))

// PreviewRenderer writes the Open Graph page social networks read when a
// listing link is shared.
type PreviewRenderer struct {
	baseURL string
}

func NewPreviewRenderer(baseURL string) *PreviewRenderer {
	return &PreviewRenderer{baseURL: strings.TrimRight(baseURL, "/")}
}

type previewData struct {
	Title       string
	Description string
	Price       string
	Image       string
	URL         string
}

func (p *PreviewRenderer) Render(w io.Writer, l *domain.Listing) error {
	return previewTemplate.Execute(w, previewData{
		Title:       l.Title,
		Description: truncate(l.Description, previewDescriptionMax),
		Price:       domain.FormatAmount(l.Price),
		Image:       l.CoverImage(),
		URL:         p.baseURL + "/AnuncioDetalhes?id=" + l.ID,
	})
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
