// Package mailing owns the presort engine and the mailing orchestrator:
// mailpieces are grouped into USPS rate categories, segmented into trays,
// barcoded and rendered into per-tray envelope and letter documents.
package mailing

import (
	"sort"

	"github.com/civicpost/internal/model"
	"github.com/civicpost/internal/usps"
)

// PresortMin is the minimum group size for the 5-digit rate. Groups of
// fewer pieces pool into a single Mixed AADC group.
const PresortMin = 200

// Tray capacities. A standard #10 envelope with one folded sheet is about
// 0.02 inches thick, so a 12-inch tray holds roughly 600 envelopes.
const (
	Cap1Foot = 600
	Cap2Foot = 1200
)

// TraySize is the physical tray length.
type TraySize string

const (
	OneFoot TraySize = "OneFoot"
	TwoFoot TraySize = "TwoFoot"
)

// Tray is a physical tray of mailpieces sharing one rate category.
// All mailpieces of a FiveDigit tray share one zip5.
type Tray struct {
	Name       string            `json:"name"`
	Size       TraySize          `json:"size"`
	BarcodeID  usps.BarcodeID    `json:"barcode_id"`
	Mailpieces []model.Mailpiece `json:"mailpieces"`
}

// Capacity returns the mailpiece capacity of a tray size.
func Capacity(size TraySize) int {
	if size == TwoFoot {
		return Cap2Foot
	}
	return Cap1Foot
}

// Presort partitions mailpieces into rate categories and segments them
// into trays named A, B, C... in output order. Pieces are stable-sorted
// by zip5 first, so serial order inside a group follows input order.
func Presort(mailpieces []model.Mailpiece) []Tray {
	sort.SliceStable(mailpieces, func(i, j int) bool {
		return mailpieces[i].Zip5 < mailpieces[j].Zip5
	})

	var trays []Tray
	mixedAADCs := make([]model.Mailpiece, 0, len(mailpieces))
	for start := 0; start < len(mailpieces); {
		end := start
		for end < len(mailpieces) && mailpieces[end].Zip5 == mailpieces[start].Zip5 {
			end++
		}
		grp := mailpieces[start:end]
		if len(grp) >= PresortMin {
			trays = append(trays, segmentTrays(usps.BarcodeFiveDigit, grp)...)
		} else {
			mixedAADCs = append(mixedAADCs, grp...)
		}
		start = end
	}

	trays = append(trays, segmentTrays(usps.BarcodeMixedAADC, mixedAADCs)...)

	for idx := range trays {
		trays[idx].Name = string(rune('A' + idx))
	}
	return trays
}

// segmentTrays packs a presorted group into trays: one 1-foot tray up to
// 600 pieces, one 2-foot tray up to 1200, then repeated full 2-foot trays
// with the tail in a 2-foot or 1-foot tray.
func segmentTrays(barcodeID usps.BarcodeID, mailpieces []model.Mailpiece) []Tray {
	var trays []Tray
	switch {
	case len(mailpieces) == 0:
	case len(mailpieces) <= Cap1Foot:
		trays = append(trays, Tray{Size: OneFoot, BarcodeID: barcodeID, Mailpieces: mailpieces})
	case len(mailpieces) <= Cap2Foot:
		trays = append(trays, Tray{Size: TwoFoot, BarcodeID: barcodeID, Mailpieces: mailpieces})
	default:
		remaining := mailpieces
		for len(remaining) > Cap2Foot {
			trays = append(trays, Tray{Size: TwoFoot, BarcodeID: barcodeID, Mailpieces: remaining[:Cap2Foot]})
			remaining = remaining[Cap2Foot:]
		}
		if len(remaining) > Cap1Foot {
			trays = append(trays, Tray{Size: TwoFoot, BarcodeID: barcodeID, Mailpieces: remaining})
		} else if len(remaining) > 0 {
			trays = append(trays, Tray{Size: OneFoot, BarcodeID: barcodeID, Mailpieces: remaining})
		}
	}
	return trays
}
