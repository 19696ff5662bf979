package usps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateBarcodeInput(t *testing.T) {
	tests := []struct {
		name      string
		barcodeID string
		serviceID string
		mailerID  string
		serialID  string
		routing   string
		wantField string
	}{
		{
			name:      "valid five digit routing",
			barcodeID: "50", serviceID: "301", mailerID: "899999999",
			serialID: "981000", routing: "12345",
		},
		{
			name:      "valid empty routing",
			barcodeID: "20", serviceID: "272", mailerID: "123456789",
			serialID: "000001", routing: "",
		},
		{
			name:      "valid nine digit routing",
			barcodeID: "20", serviceID: "272", mailerID: "123456789",
			serialID: "000001", routing: "205150001",
		},
		{
			name:      "valid eleven digit routing",
			barcodeID: "20", serviceID: "272", mailerID: "123456789",
			serialID: "000001", routing: "20515000199",
		},
		{
			name:      "invalid barcode id letter",
			barcodeID: "5a", serviceID: "301", mailerID: "899999999",
			serialID: "981000", routing: "01926", wantField: "barcode_id",
		},
		{
			name:      "invalid barcode id second digit",
			barcodeID: "55", serviceID: "301", mailerID: "899999999",
			serialID: "981000", routing: "01926", wantField: "barcode_id",
		},
		{
			name:      "invalid service id",
			barcodeID: "50", serviceID: "30a", mailerID: "899999999",
			serialID: "981000", routing: "01926", wantField: "service_id",
		},
		{
			name:      "invalid mailer id",
			barcodeID: "50", serviceID: "301", mailerID: "89999999a",
			serialID: "981000", routing: "01926", wantField: "mailer_id",
		},
		{
			name:      "invalid serial id",
			barcodeID: "50", serviceID: "301", mailerID: "899999999",
			serialID: "98100a", routing: "01926", wantField: "serial_id",
		},
		{
			name:      "invalid routing charset",
			barcodeID: "50", serviceID: "301", mailerID: "899999999",
			serialID: "981000", routing: "0192a", wantField: "routing_code",
		},
		{
			name:      "invalid routing length",
			barcodeID: "50", serviceID: "301", mailerID: "899999999",
			serialID: "981000", routing: "123456", wantField: "routing_code",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBarcodeInput(tt.barcodeID, tt.serviceID, tt.mailerID, tt.serialID, tt.routing)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			fe, ok := err.(*FieldError)
			if !ok {
				t.Fatalf("error = %v, want *FieldError", err)
			}
			if fe.Field != tt.wantField {
				t.Errorf("field = %q, want %q", fe.Field, tt.wantField)
			}
		})
	}
}

func TestEncodeBarcode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		imb := r.URL.Query().Get("imb")
		if imb != "5030189999999998100012345" {
			t.Errorf("imb query = %q", imb)
		}
		w.Write([]byte(`{"code":"00","imb":"` + strings.Repeat("FADT", 16) + `F"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), "", srv.URL, nil, nil)
	got, err := c.EncodeBarcode(context.Background(), "50", "301", "899999999", "981000", "12345")
	if err != nil {
		t.Fatalf("EncodeBarcode: %v", err)
	}
	if len(got) != 65 {
		t.Errorf("barcode length = %d, want 65", len(got))
	}
	for _, ch := range got {
		if ch != 'F' && ch != 'A' && ch != 'D' && ch != 'T' {
			t.Errorf("unexpected barcode character %q", ch)
		}
	}
}

func TestEncodeBarcodeInvalidInputSkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("encoder must not be called for invalid input")
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), "", srv.URL, nil, nil)
	if _, err := c.EncodeBarcode(context.Background(), "5a", "301", "899999999", "981000", "12345"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestEncodeBarcodeErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"13","imb":""}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), "", srv.URL, nil, nil)
	if _, err := c.EncodeBarcode(context.Background(), "50", "301", "899999999", "981000", "12345"); err == nil {
		t.Fatal("expected encoder error")
	}
}
