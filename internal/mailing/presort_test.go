package mailing

import (
	"math"
	"testing"

	"github.com/civicpost/internal/model"
	"github.com/civicpost/internal/usps"
)

func pieces(zip5 uint32, n int) []model.Mailpiece {
	mps := make([]model.Mailpiece, n)
	for i := range mps {
		mps[i] = model.Mailpiece{Name: "Person", Address1: "1 MAIN ST", City: "X", State: "KS", Zip5: zip5}
	}
	return mps
}

func totalsFor(trays []Tray) *Mailing {
	m := New()
	m.Trays = trays
	for _, t := range trays {
		m.MailpieceCnt += len(t.Mailpieces)
	}
	m.computeTotals()
	return m
}

func TestPresortBoundary600(t *testing.T) {
	// 600 same-zip pieces: a single 1-foot FiveDigit tray named A.
	trays := Presort(pieces(66601, 600))
	if len(trays) != 1 {
		t.Fatalf("got %d trays, want 1", len(trays))
	}
	tray := trays[0]
	if tray.Name != "A" || tray.Size != OneFoot || tray.BarcodeID != usps.BarcodeFiveDigit {
		t.Errorf("tray = %+v", tray)
	}
	m := totalsFor(trays)
	if m.FiveDigCnt != 600 {
		t.Errorf("five_dig_cnt = %d, want 600", m.FiveDigCnt)
	}
	if math.Abs(m.PartASubtotal-103.80) > 0.0001 {
		t.Errorf("part_a_subtotal = %v, want 103.80", m.PartASubtotal)
	}
}

func TestPresort601(t *testing.T) {
	trays := Presort(pieces(66601, 601))
	if len(trays) != 1 || trays[0].Size != TwoFoot {
		t.Fatalf("trays = %+v, want one TwoFoot", trays)
	}
}

func TestPresort1200(t *testing.T) {
	trays := Presort(pieces(66601, 1200))
	if len(trays) != 1 || trays[0].Size != TwoFoot {
		t.Fatalf("want one TwoFoot tray, got %+v", summarize(trays))
	}
}

func TestPresort1201(t *testing.T) {
	trays := Presort(pieces(66601, 1201))
	if len(trays) != 2 {
		t.Fatalf("got %d trays, want 2", len(trays))
	}
	if trays[0].Size != TwoFoot || len(trays[0].Mailpieces) != 1200 {
		t.Errorf("tray A = %s with %d pieces", trays[0].Size, len(trays[0].Mailpieces))
	}
	if trays[1].Size != OneFoot || len(trays[1].Mailpieces) != 1 {
		t.Errorf("tray B = %s with %d pieces", trays[1].Size, len(trays[1].Mailpieces))
	}
	if trays[0].Name != "A" || trays[1].Name != "B" {
		t.Errorf("tray names = %q, %q", trays[0].Name, trays[1].Name)
	}
}

func TestPresortEmpty(t *testing.T) {
	if trays := Presort(nil); len(trays) != 0 {
		t.Errorf("empty input produced %d trays", len(trays))
	}
}

func TestPresortMixedThreshold(t *testing.T) {
	// 199 pieces at one zip pool into MixedAADC; one more piece at the
	// same zip promotes the group to FiveDigit.
	trays := Presort(pieces(94110, 199))
	if len(trays) != 1 || trays[0].BarcodeID != usps.BarcodeMixedAADC {
		t.Fatalf("199 pieces: trays = %+v", summarize(trays))
	}

	trays = Presort(pieces(94110, 200))
	if len(trays) != 1 || trays[0].BarcodeID != usps.BarcodeFiveDigit {
		t.Fatalf("200 pieces: trays = %+v", summarize(trays))
	}
}

func TestPresortCategorizesAndOrders(t *testing.T) {
	// Two qualifying 5-digit groups plus small-zip leftovers. FiveDigit
	// groups come first in ascending zip5 order, MixedAADC last.
	mps := append(pieces(94110, 250), pieces(20515, 300)...)
	mps = append(mps, pieces(10001, 10)...)
	mps = append(mps, pieces(99999, 5)...)
	AssignIDs(mps, 1)

	trays := Presort(mps)
	if len(trays) != 3 {
		t.Fatalf("got %d trays: %v", len(trays), summarize(trays))
	}
	if trays[0].BarcodeID != usps.BarcodeFiveDigit || trays[0].Mailpieces[0].Zip5 != 20515 {
		t.Errorf("tray A = %+v", summarize(trays[:1]))
	}
	if trays[1].BarcodeID != usps.BarcodeFiveDigit || trays[1].Mailpieces[0].Zip5 != 94110 {
		t.Errorf("tray B = %+v", summarize(trays[1:2]))
	}
	if trays[2].BarcodeID != usps.BarcodeMixedAADC || len(trays[2].Mailpieces) != 15 {
		t.Errorf("tray C = %+v", summarize(trays[2:]))
	}

	// FiveDigit trays hold exactly one zip5 each.
	for _, tray := range trays[:2] {
		for _, mp := range tray.Mailpieces {
			if mp.Zip5 != tray.Mailpieces[0].Zip5 {
				t.Errorf("tray %s mixes zips", tray.Name)
			}
		}
	}

	// Serial ids are strictly increasing within every tray, and the
	// FiveDigit trays carry contiguous runs.
	total := 0
	for _, tray := range trays {
		for i, mp := range tray.Mailpieces {
			total++
			if i == 0 {
				continue
			}
			prev := tray.Mailpieces[i-1].ID
			if mp.ID <= prev {
				t.Fatalf("tray %s serials not increasing: %d after %d", tray.Name, mp.ID, prev)
			}
			if tray.BarcodeID == usps.BarcodeFiveDigit && mp.ID != prev+1 {
				t.Fatalf("tray %s serial gap: %d after %d", tray.Name, mp.ID, prev)
			}
		}
	}
	if total != len(mps) {
		t.Errorf("tray pieces = %d, want %d", total, len(mps))
	}

	// Category counts add up to the piece count.
	m := totalsFor(trays)
	if m.FiveDigCnt+m.MixedAADCCnt != m.MailpieceCnt {
		t.Errorf("counts: %d + %d != %d", m.FiveDigCnt, m.MixedAADCCnt, m.MailpieceCnt)
	}
	want := float64(m.FiveDigCnt)*0.173 + float64(m.MixedAADCCnt)*0.208
	if math.Abs(m.PartASubtotal-want) > 0.0001 {
		t.Errorf("part_a_subtotal = %v, want %v", m.PartASubtotal, want)
	}
}

func TestTrayCapacityInvariant(t *testing.T) {
	mps := pieces(66601, 3001)
	trays := Presort(mps)
	for _, tray := range trays {
		if len(tray.Mailpieces) > Capacity(tray.Size) {
			t.Errorf("tray %s overfilled: %d > %d", tray.Name, len(tray.Mailpieces), Capacity(tray.Size))
		}
	}
	// 3001 pieces: 1200 + 1200 + 601(TwoFoot tail).
	if len(trays) != 3 || trays[2].Size != TwoFoot || len(trays[2].Mailpieces) != 601 {
		t.Errorf("trays = %v", summarize(trays))
	}
}

func TestRoutingCode(t *testing.T) {
	tests := []struct {
		mp   model.Mailpiece
		want string
	}{
		{model.Mailpiece{Zip5: 20500}, "20500"},
		{model.Mailpiece{Zip5: 20500, Zip4: 5}, "205000005"},
		{model.Mailpiece{Zip5: 20500, Zip4: 5, DeliveryPoint: "00"}, "20500000500"},
		// A delivery point without a zip4 is not appended.
		{model.Mailpiece{Zip5: 20500, DeliveryPoint: "00"}, "20500"},
		{model.Mailpiece{Zip5: 501}, "00501"},
	}
	for _, tt := range tests {
		if got := RoutingCode(tt.mp); got != tt.want {
			t.Errorf("RoutingCode(%+v) = %q, want %q", tt.mp, got, tt.want)
		}
	}
}

func TestAssignIDs(t *testing.T) {
	mps := []model.Mailpiece{
		{Name: "C", Zip5: 94110},
		{Name: "A", Zip5: 20515},
		{Name: "B", Zip5: 20515, Zip4: 4000},
	}
	AssignIDs(mps, 981001)
	if mps[0].Name != "A" || mps[0].ID != 981001 {
		t.Errorf("first = %+v", mps[0])
	}
	if mps[1].Name != "B" || mps[1].ID != 981002 {
		t.Errorf("second = %+v", mps[1])
	}
	if mps[2].Name != "C" || mps[2].ID != 981003 {
		t.Errorf("third = %+v", mps[2])
	}
}

func summarize(trays []Tray) []string {
	out := make([]string, len(trays))
	for i, t := range trays {
		out[i] = string(t.Name[0]) + ":" + string(t.Size) + ":" + string(t.BarcodeID)
	}
	return out
}
