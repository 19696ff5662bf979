// Package pdf renders the print artifacts of a mailing: envelope
// documents, letter documents and the postage statement summary.
package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/civicpost/internal/config"
	"github.com/civicpost/internal/model"
)

// Number 10 envelope dimensions in millimeters.
const (
	envWidth  = 241.3
	envHeight = 104.8
)

const barcodeFontName = "USPSIMBStandard"

// Envelope renders one envelope per page: return address top left,
// recipient block with the IMb line beneath the address, and the
// "Return Service Requested" endorsement.
type Envelope struct {
	doc         *fpdf.Fpdf
	cfg         *config.MailingCfg
	barcodeFont string
}

// NewEnvelope creates an envelope document. When the configured IMb font
// file exists it renders barcodes with it; otherwise the raw F/A/D/T
// string prints in Courier for proofing.
func NewEnvelope(cfg *config.MailingCfg) *Envelope {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: envWidth, Ht: envHeight},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	barcodeFont := "Courier"
	if cfg.BarcodeFontPath != "" {
		if _, err := os.Stat(cfg.BarcodeFontPath); err == nil {
			doc.AddUTF8Font(barcodeFontName, "", cfg.BarcodeFontPath)
			barcodeFont = barcodeFontName
		}
	}
	return &Envelope{doc: doc, cfg: cfg, barcodeFont: barcodeFont}
}

// AddPage renders one mailpiece.
func (e *Envelope) AddPage(to model.Mailpiece) {
	e.doc.AddPage()

	// Return address in the upper left corner, inside the 15 mm USPS
	// placement area.
	const marginFrom = 10.0
	from := e.cfg.From
	e.doc.SetFont("Helvetica", "", 10)
	y := marginFrom
	for _, lne := range []string{
		from.Name,
		from.Address1,
		fmt.Sprintf("%s  %s  %05d-%04d", from.City, from.State, from.Zip5, from.Zip4),
	} {
		e.doc.Text(marginFrom, y, lne)
		y += 4.2
	}

	// Recipient block: USPS wants the address block roughly centered,
	// 40 mm from the top edge.
	const (
		marginToX = 85.0
		marginToY = 45.0
	)
	e.doc.SetFont("Helvetica", "", 12)
	y = marginToY
	lines := []string{strings.ToUpper(strings.ReplaceAll(to.Name, ".", ""))}
	if to.Title1 != "" {
		lines = append(lines, to.Title1)
	}
	if to.Title2 != "" {
		lines = append(lines, to.Title2)
	}
	lines = append(lines,
		to.Address1,
		fmt.Sprintf("%s  %s  %05d-%04d", to.City, to.State, to.Zip5, to.Zip4),
	)
	for _, lne := range lines {
		e.doc.Text(marginToX, y, lne)
		y += 6.3
	}

	// IMb beneath the address, per https://pe.usps.com/text/qsg300/Q201a.htm.
	e.doc.SetFont(e.barcodeFont, "", 16)
	e.doc.Text(marginToX, y, to.Barcode)

	// Endorsement under the postage area.
	e.doc.SetFont("Helvetica", "", 8)
	e.doc.Text(envWidth-37.0, 30.0, "Return Service Requested")
}

// Save writes the document.
func (e *Envelope) Save(path string) error {
	return e.doc.OutputFileAndClose(path)
}
