package mailing

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/civicpost/internal/app"
	"github.com/civicpost/internal/config"
	"github.com/civicpost/internal/model"
	"github.com/civicpost/internal/storage"
	"github.com/civicpost/internal/usps"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testApp(t *testing.T, encoderURL string) *app.App {
	t.Helper()
	stateDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.StateDir = stateDir
	cfg.OutDir = filepath.Join(stateDir, "mailings")

	mailCfg := &config.MailingCfg{
		MailerID:        "899999999",
		LastMailpieceID: 980999,
		From: model.Mailpiece{
			Name: "OPEN LETTER PROJECT", Address1: "PO BOX 1",
			City: "TOPEKA", State: "KS", Zip5: 66601, Zip4: 1,
		},
	}

	if err := storage.WriteFile(model.Letter{
		To:         "Dear {{name}},",
		Paragraphs: []string{"A paragraph."},
		From:       "Sincerely",
	}, filepath.Join(stateDir, LetterTemplate)); err != nil {
		t.Fatal(err)
	}

	return &app.App{
		Cfg:     cfg,
		MailCfg: mailCfg,
		USPS:    usps.NewClient(http.DefaultClient, "", encoderURL, nil, nil),
		Log:     discardLogger(),
	}
}

func testPersons() []model.Person {
	adr1 := model.Address{
		Address1: "1600 PENNSYLVANIA AVE NW", City: "WASHINGTON", State: "DC",
		Zip5: 20500, Zip4: 5, DeliveryPoint: "00",
	}
	adr2 := model.Address{
		Address1: "2201 C ST NW", City: "WASHINGTON", State: "DC", Zip5: 20520, Zip4: 1,
	}
	return []model.Person{
		{Name: "Jane Doe", Title1: "Office of the Example", Adrs: []model.Address{adr1}},
		{Name: "John Roe", Adrs: []model.Address{adr2}},
	}
}

func TestFlattenMissingAddress(t *testing.T) {
	_, err := Flatten([]model.Person{{Name: "Jane Doe"}})
	if err == nil {
		t.Fatal("expected error for unresolved person")
	}
	if !strings.Contains(err.Error(), "Jane Doe") {
		t.Errorf("error does not name the person: %v", err)
	}
}

func TestFlattenOnePiecePerAddress(t *testing.T) {
	pers := testPersons()
	pers[0].Adrs = append(pers[0].Adrs, pers[1].Adrs[0])
	mps, err := Flatten(pers)
	if err != nil {
		t.Fatal(err)
	}
	if len(mps) != 3 {
		t.Errorf("got %d mailpieces, want 3", len(mps))
	}
	if mps[0].Title1 != "Office of the Example" {
		t.Errorf("title not carried: %+v", mps[0])
	}
}

func encoderServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"code":"00","imb":"` + strings.Repeat("FADT", 16) + `F"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestLoadBuildsAndRenders(t *testing.T) {
	srv, calls := encoderServer(t)
	a := testApp(t, srv.URL)

	m, err := Load(context.Background(), a, testPersons())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.MailpieceCnt != 2 {
		t.Errorf("mailpiece_cnt = %d", m.MailpieceCnt)
	}
	if m.FiveDigCnt != 0 || m.MixedAADCCnt != 2 {
		t.Errorf("category counts = %d/%d", m.FiveDigCnt, m.MixedAADCCnt)
	}
	if *calls != 2 {
		t.Errorf("encoder calls = %d, want 2", *calls)
	}

	// Serials start after the configured last id, ordered by zip.
	ids := []uint32{}
	for _, tray := range m.Trays {
		for _, mp := range tray.Mailpieces {
			ids = append(ids, mp.ID)
			if mp.Barcode == "" {
				t.Errorf("mailpiece %d missing barcode", mp.ID)
			}
			for _, ch := range mp.Barcode {
				if ch != 'F' && ch != 'A' && ch != 'D' && ch != 'T' {
					t.Errorf("barcode has invalid character %q", ch)
				}
			}
		}
	}
	if !reflect.DeepEqual(ids, []uint32{981000, 981001}) {
		t.Errorf("ids = %v", ids)
	}

	// The mailing directory holds the chunk documents and statement.
	outDir := filepath.Join(a.Cfg.OutDir, m.Name)
	for _, name := range []string{"A_1of01_cnt2_env.pdf", "A_1of01_cnt2_ltr.pdf", "_postage_statement.pdf"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}

func TestLoadRerunIsIdempotent(t *testing.T) {
	srv, calls := encoderServer(t)
	a := testApp(t, srv.URL)

	first, err := Load(context.Background(), a, testPersons())
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	callsAfterFirst := *calls

	// Rerun: persisted mailing is returned without regeneration and no
	// further encodings are requested.
	second, err := Load(context.Background(), a, nil)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if *calls != callsAfterFirst {
		t.Errorf("rerun fetched %d more encodings", *calls-callsAfterFirst)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("rerun differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestChunking(t *testing.T) {
	srv, _ := encoderServer(t)
	a := testApp(t, srv.URL)

	// 120 resolved persons with one address each: 3 chunks of <=50.
	persons := make([]model.Person, 120)
	for i := range persons {
		persons[i] = model.Person{
			Name: "Person",
			Adrs: []model.Address{{
				Address1: "1 MAIN ST", City: "TOPEKA", State: "KS", Zip5: 66601,
			}},
		}
	}
	m, err := Load(context.Background(), a, persons)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	outDir := filepath.Join(a.Cfg.OutDir, m.Name)
	for _, name := range []string{
		"A_1of03_cnt50_env.pdf", "A_2of03_cnt50_env.pdf", "A_3of03_cnt20_env.pdf",
		"A_1of03_cnt50_ltr.pdf", "A_3of03_cnt20_ltr.pdf",
	} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}
