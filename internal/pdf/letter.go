package pdf

import (
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/civicpost/internal/model"
)

// Letter renders the letter template once per mailpiece, one letter per
// page, substituting the {{name}} placeholder.
type Letter struct {
	doc  *fpdf.Fpdf
	tmpl model.Letter
}

// NewLetter creates a letter document from the template.
func NewLetter(tmpl model.Letter) *Letter {
	doc := fpdf.New("P", "mm", "Letter", "")
	doc.SetMargins(25, 25, 25)
	doc.SetAutoPageBreak(true, 25)
	return &Letter{doc: doc, tmpl: tmpl}
}

// AddLetter renders one letter addressed to the mailpiece recipient.
func (l *Letter) AddLetter(mp model.Mailpiece) {
	l.doc.AddPage()
	l.doc.SetFont("Times", "", 12)

	if l.tmpl.To != "" {
		l.doc.MultiCell(0, 6, strings.ReplaceAll(l.tmpl.To, "{{name}}", mp.Name), "", "L", false)
		l.doc.Ln(4)
	}
	for _, par := range l.tmpl.Paragraphs {
		l.doc.MultiCell(0, 6, strings.ReplaceAll(par, "{{name}}", mp.Name), "", "L", false)
		l.doc.Ln(4)
	}
	if l.tmpl.From != "" {
		l.doc.Ln(4)
		l.doc.MultiCell(0, 6, l.tmpl.From, "", "L", false)
	}
}

// Save writes the document.
func (l *Letter) Save(path string) error {
	return l.doc.OutputFileAndClose(path)
}
