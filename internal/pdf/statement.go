package pdf

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/civicpost/internal/config"
)

// StatementData carries the mailing totals printed on the postage
// statement summary.
type StatementData struct {
	MailpieceCnt             int
	Tray1ftCnt               int
	Tray2ftCnt               int
	FiveDigCnt               int
	MixedAADCCnt             int
	PostageSubtotalFiveDig   float64
	PostageSubtotalMixedAADC float64
	PartASubtotal            float64
	AdrValidationDate        string
}

// Numfmt formats an integer with thousands separators for the statement.
func Numfmt(n int) string {
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// WriteStatement renders the PS Form 3602-N summary: permit holder,
// mailer identification, piece and tray counts, and the Part A subtotals.
func WriteStatement(path string, cfg *config.MailingCfg, data StatementData) error {
	doc := fpdf.New("P", "mm", "Letter", "")
	doc.SetMargins(20, 20, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 14)
	doc.Cell(0, 8, "Postage Statement - Nonprofit USPS Marketing Mail (PS Form 3602-N)")
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 10)
	ps := cfg.PostageStatement
	rows := []struct{ label, value string }{
		{"Permit Holder", ps.Adr.Name},
		{"Address", fmt.Sprintf("%s, %s, %s %05d-%04d",
			ps.Adr.Address1, ps.Adr.City, ps.Adr.State, ps.Adr.Zip5, ps.Adr.Zip4)},
		{"Email", ps.Email},
		{"Phone", ps.Phone},
		{"Nonprofit Authorization No.", cfg.NonprofitAuthID},
		{"EPS Account No.", cfg.EPSID},
		{"CRID", cfg.CRID},
		{"Mailer ID", cfg.MailerID},
		{"Permit Imprint No.", cfg.Indicia.PermitID},
		{"Post Office of Mailing", ps.PostOfficeMailing},
		{"Mailing Date", ps.MailingDate},
		{"Statement Seq. No.", fmt.Sprintf("%03d", ps.LastStatementID+1)},
		{"Address Validation Date", data.AdrValidationDate},
		{"Total Pieces", Numfmt(data.MailpieceCnt)},
		{"1 ft. Letter Trays", Numfmt(data.Tray1ftCnt)},
		{"2 ft. Letter Trays", Numfmt(data.Tray2ftCnt)},
		{"5-Digit Pieces", Numfmt(data.FiveDigCnt)},
		{"Mixed AADC Pieces", Numfmt(data.MixedAADCCnt)},
		{"5-Digit Subtotal", fmt.Sprintf("$%.2f", data.PostageSubtotalFiveDig)},
		{"Mixed AADC Subtotal", fmt.Sprintf("$%.2f", data.PostageSubtotalMixedAADC)},
		{"Part A Subtotal", fmt.Sprintf("$%.2f", data.PartASubtotal)},
	}
	for _, row := range rows {
		doc.CellFormat(70, 7, row.label, "", 0, "L", false, 0, "")
		doc.CellFormat(0, 7, row.value, "", 1, "L", false, 0, "")
	}

	return doc.OutputFileAndClose(path)
}
