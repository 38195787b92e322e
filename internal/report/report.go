package report

import "unicode/utf8"

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
	ContentTypePNG  = "image/png"
)

// Generator renders the documents handed out by the API. It holds no state
// besides the organization printed on labels and is safe for concurrent use.
type Generator struct {
	organization string
}

func NewGenerator(organization string) *Generator {
	return &Generator{organization: organization}
}

func (g *Generator) Organization() string {
	return g.organization
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Document is a rendered file ready to be sent as an attachment.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}
