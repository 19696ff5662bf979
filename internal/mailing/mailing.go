package mailing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/civicpost/internal/app"
	"github.com/civicpost/internal/logging"
	"github.com/civicpost/internal/model"
	"github.com/civicpost/internal/pdf"
	"github.com/civicpost/internal/storage"
	"github.com/civicpost/internal/usps"
)

const (
	FileName       = "mailing.json"
	LetterTemplate = "letter-template.json"
)

// Postage prices per piece from PS Form 3602-N. Rates change yearly;
// these are configuration constants, not tariff logic.
var (
	PriceFiveDigit = decimal.RequireFromString("0.173")
	PriceMixedAADC = decimal.RequireFromString("0.208")
)

// ChunkSize is how many envelopes and letters go into one PDF document,
// bounded by the capacity of the envelope printer and folding machine.
const ChunkSize = 50

// Mailing is one quarter's print-ready mailing. It persists to
// mailing.json, which is the source of truth on reruns: an existing file
// is returned as-is with byte-identical totals and tray assignments.
type Mailing struct {
	Name string `json:"name"`
	// AdrValidationDate is the date addresses were validated with the
	// USPS, reported on the postage statement.
	AdrValidationDate        model.Date `json:"adr_validation_date"`
	Trays                    []Tray     `json:"trays"`
	MailpieceCnt             int        `json:"mailpiece_cnt"`
	Tray1ftCnt               int        `json:"tray_1ft_cnt"`
	Tray2ftCnt               int        `json:"tray_2ft_cnt"`
	FiveDigCnt               int        `json:"five_dig_cnt"`
	MixedAADCCnt             int        `json:"mixed_aadc_cnt"`
	PostageSubtotalFiveDig   float64    `json:"postage_subtotal_five_dig"`
	PostageSubtotalMixedAADC float64    `json:"postage_subtotal_mixed_aadc"`
	PartASubtotal            float64    `json:"part_a_subtotal"`
}

// New creates an empty mailing named by the current quarter.
func New() *Mailing {
	today := model.Today()
	return &Mailing{
		Name:              today.YearQuarter(),
		AdrValidationDate: today,
	}
}

// Load returns the persisted mailing or builds one from the resolved
// persons, then barcodes every mailpiece and renders the per-tray
// envelope and letter documents and the postage statement.
func Load(ctx context.Context, a *app.App, persons []model.Person) (*Mailing, error) {
	mailing, err := loadOrBuild(a, persons)
	if err != nil {
		return nil, err
	}

	outDir := filepath.Join(a.Cfg.OutDir, mailing.Name)
	if err := os.RemoveAll(outDir); err != nil {
		return nil, fmt.Errorf("failed to clear mailing directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create mailing directory: %w", err)
	}

	if err := mailing.addBarcodes(ctx, a); err != nil {
		return nil, err
	}
	if err := mailing.render(a, outDir); err != nil {
		return nil, err
	}
	return mailing, nil
}

// loadOrBuild reads mailing.json or constructs and persists a new mailing
// skeleton: mailpieces flattened from persons, serials assigned, trays
// presorted, totals computed.
func loadOrBuild(a *app.App, persons []model.Person) (*Mailing, error) {
	path := a.StatePath(FileName)
	if storage.Exists(path) {
		var mailing Mailing
		if err := storage.ReadFile(&mailing, path); err != nil {
			return nil, err
		}
		a.Log.Info("loaded persisted mailing",
			slog.String("name", mailing.Name),
			logging.Count("mailpiece", mailing.MailpieceCnt))
		return &mailing, nil
	}

	mailing := New()
	mailpieces, err := Flatten(persons)
	if err != nil {
		return nil, err
	}
	mailing.MailpieceCnt = len(mailpieces)

	AssignIDs(mailpieces, a.MailCfg.LastMailpieceID+1)

	mailing.Trays = Presort(mailpieces)
	a.Log.Info("presorted", logging.Count("tray", len(mailing.Trays)))

	mailing.computeTotals()

	if err := storage.WriteFile(mailing, path); err != nil {
		return nil, err
	}
	return mailing, nil
}

// Flatten turns every (person, address) pair into one mailpiece. A person
// without addresses fails the run with the person's identity.
func Flatten(persons []model.Person) ([]model.Mailpiece, error) {
	cnt := 0
	for _, per := range persons {
		cnt += per.AdrLen()
	}
	mailpieces := make([]model.Mailpiece, 0, cnt)
	for _, per := range persons {
		if !per.Resolved() {
			return nil, fmt.Errorf("missing address for %s", per)
		}
		for _, adr := range per.Adrs {
			// Address block formatting follows USPS Publication 28.
			mailpieces = append(mailpieces, model.Mailpiece{
				Name:          per.Name,
				Title1:        per.Title1,
				Title2:        per.Title2,
				Address1:      adr.Address1,
				City:          adr.City,
				State:         adr.State,
				Zip5:          adr.Zip5,
				Zip4:          adr.Zip4,
				DeliveryPoint: adr.DeliveryPoint,
			})
		}
	}
	return mailpieces, nil
}

// AssignIDs sorts mailpieces by (zip5, zip4) and assigns ascending serial
// ids from base. The serial feeds the Intelligent Mail Barcode. After
// Presort the ids are strictly increasing within every tray and contiguous
// within every FiveDigit tray; the Mixed AADC tray pools pieces from
// several zips, so across trays the final order is not contiguous.
func AssignIDs(mailpieces []model.Mailpiece, base uint32) {
	sort.SliceStable(mailpieces, func(i, j int) bool {
		if mailpieces[i].Zip5 != mailpieces[j].Zip5 {
			return mailpieces[i].Zip5 < mailpieces[j].Zip5
		}
		return mailpieces[i].Zip4 < mailpieces[j].Zip4
	})
	for idx := range mailpieces {
		mailpieces[idx].ID = base + uint32(idx)
	}
}

func (m *Mailing) computeTotals() {
	m.Tray1ftCnt, m.Tray2ftCnt = 0, 0
	m.FiveDigCnt, m.MixedAADCCnt = 0, 0
	for _, tray := range m.Trays {
		switch tray.Size {
		case OneFoot:
			m.Tray1ftCnt++
		case TwoFoot:
			m.Tray2ftCnt++
		}
		switch tray.BarcodeID {
		case usps.BarcodeFiveDigit:
			m.FiveDigCnt += len(tray.Mailpieces)
		case usps.BarcodeMixedAADC:
			m.MixedAADCCnt += len(tray.Mailpieces)
		}
	}

	fiveDig := PriceFiveDigit.Mul(decimal.NewFromInt(int64(m.FiveDigCnt)))
	mixed := PriceMixedAADC.Mul(decimal.NewFromInt(int64(m.MixedAADCCnt)))
	m.PostageSubtotalFiveDig = fiveDig.InexactFloat64()
	m.PostageSubtotalMixedAADC = mixed.InexactFloat64()
	m.PartASubtotal = fiveDig.Add(mixed).InexactFloat64()
}

// RoutingCode builds the IMb routing code for a mailpiece: the 5-digit
// zip, plus the zip4 when known, plus the delivery point when the zip4 is
// known and the point is present. Total length is 5, 9 or 11 digits.
func RoutingCode(mp model.Mailpiece) string {
	code := fmt.Sprintf("%05d", mp.Zip5)
	if mp.Zip4 != 0 {
		code += fmt.Sprintf("%04d", mp.Zip4)
		if mp.DeliveryPoint != "" {
			code += mp.DeliveryPoint
		}
	}
	return code
}

// addBarcodes requests an IMb encoding for every mailpiece that lacks
// one. The mailing checkpoints to disk once any encoding was fetched so a
// crash resumes without repeating requests.
func (m *Mailing) addBarcodes(ctx context.Context, a *app.App) error {
	didFetch := false
	for t := range m.Trays {
		tray := &m.Trays[t]
		for i := range tray.Mailpieces {
			mp := &tray.Mailpieces[i]
			if mp.Barcode != "" {
				continue
			}
			didFetch = true
			barcode, err := a.USPS.EncodeBarcode(ctx,
				string(tray.BarcodeID),
				usps.STIDReturnServiceRequested,
				a.MailCfg.MailerID,
				fmt.Sprintf("%06d", mp.ID),
				RoutingCode(*mp),
			)
			if err != nil {
				return fmt.Errorf("failed to barcode mailpiece %d (%s): %w", mp.ID, mp.Name, err)
			}
			mp.Barcode = barcode
		}
	}
	if didFetch {
		if err := storage.WriteFile(m, a.StatePath(FileName)); err != nil {
			return err
		}
	}
	return nil
}

// render emits per-chunk envelope and letter PDFs for every tray, plus
// the postage statement.
func (m *Mailing) render(a *app.App, outDir string) error {
	var tmpl model.Letter
	if err := storage.ReadFile(&tmpl, a.StatePath(LetterTemplate)); err != nil {
		return err
	}

	for _, tray := range m.Trays {
		if err := renderTray(a, tray, tmpl, outDir); err != nil {
			return err
		}
	}

	data := pdf.StatementData{
		MailpieceCnt:             m.MailpieceCnt,
		Tray1ftCnt:               m.Tray1ftCnt,
		Tray2ftCnt:               m.Tray2ftCnt,
		FiveDigCnt:               m.FiveDigCnt,
		MixedAADCCnt:             m.MixedAADCCnt,
		PostageSubtotalFiveDig:   m.PostageSubtotalFiveDig,
		PostageSubtotalMixedAADC: m.PostageSubtotalMixedAADC,
		PartASubtotal:            m.PartASubtotal,
		AdrValidationDate:        m.AdrValidationDate.Format("2006-01-02"),
	}
	return pdf.WriteStatement(filepath.Join(outDir, "_postage_statement.pdf"), a.MailCfg, data)
}

func renderTray(a *app.App, tray Tray, tmpl model.Letter, outDir string) error {
	chunkCnt := (len(tray.Mailpieces) + ChunkSize - 1) / ChunkSize
	for chunkIdx := 0; chunkIdx < chunkCnt; chunkIdx++ {
		lo := chunkIdx * ChunkSize
		hi := lo + ChunkSize
		if hi > len(tray.Mailpieces) {
			hi = len(tray.Mailpieces)
		}
		chunk := tray.Mailpieces[lo:hi]

		envName := fmt.Sprintf("%s_%dof%02d_cnt%d_env", tray.Name, chunkIdx+1, chunkCnt, len(chunk))
		ltrName := fmt.Sprintf("%s_%dof%02d_cnt%d_ltr", tray.Name, chunkIdx+1, chunkCnt, len(chunk))
		a.Log.Info("rendering chunk", slog.String("envelope", envName), logging.Count("piece", len(chunk)))

		env := pdf.NewEnvelope(a.MailCfg)
		ltr := pdf.NewLetter(tmpl)
		for _, mp := range chunk {
			env.AddPage(mp)
			ltr.AddLetter(mp)
		}
		if err := env.Save(filepath.Join(outDir, envName+".pdf")); err != nil {
			return fmt.Errorf("failed to save envelopes %s: %w", envName, err)
		}
		if err := ltr.Save(filepath.Join(outDir, ltrName+".pdf")); err != nil {
			return fmt.Errorf("failed to save letters %s: %w", ltrName, err)
		}
	}
	return nil
}
