package usps

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/civicpost/internal/model"
)

func lookupServer(t *testing.T, handler func(r *http.Request) lookupResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		resp := handler(r)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
}

func TestStandardizeAsIs(t *testing.T) {
	srv := lookupServer(t, func(r *http.Request) lookupResponse {
		if got := r.Form.Get("address1"); got != "1600 PENNSYLVANIA AVENUE NW" {
			t.Errorf("address1 = %q", got)
		}
		if got := r.Form.Get("zip"); got != "20500" {
			t.Errorf("zip = %q", got)
		}
		return lookupResponse{
			ResultStatus: "SUCCESS",
			AddressList: []LookupAddress{{
				AddressLine1: "1600 PENNSYLVANIA AVE NW",
				City:         "WASHINGTON", State: "DC",
				Zip5: "20500", Zip4: "0005", DeliveryPoint: "00",
			}},
		}
	})
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "", nil, nil)
	adrs, err := c.StandardizeAddresses(context.Background(), []model.Address{{
		Address1: "1600 PENNSYLVANIA AVENUE NW",
		City:     "WASHINGTON", State: "DC", Zip5: 20500,
	}})
	if err != nil {
		t.Fatalf("StandardizeAddresses: %v", err)
	}
	if len(adrs) != 1 {
		t.Fatalf("got %d addresses", len(adrs))
	}
	adr := adrs[0]
	if adr.Address1 != "1600 PENNSYLVANIA AVE NW" || adr.Zip4 != 5 || adr.DeliveryPoint != "00" {
		t.Errorf("standardized address = %+v", adr)
	}
}

func TestStandardizeCandidateSelection(t *testing.T) {
	srv := lookupServer(t, func(r *http.Request) lookupResponse {
		return lookupResponse{
			ResultStatus: "SUCCESS",
			AddressList: []LookupAddress{
				{AddressLine1: "100-198 Range MAIN ST", City: "X", State: "NY", Zip5: "10001", Zip4: ""},
				{AddressLine1: "123 MAIN ST", AddressLine2: "FL 2", City: "X", State: "NY", Zip5: "10001", Zip4: "1111"},
				{AddressLine1: "123 MAIN ST", City: "X", State: "NY", Zip5: "10001", Zip4: "2222"},
			},
		}
	})
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "", nil, nil)
	adrs, err := c.StandardizeAddresses(context.Background(), []model.Address{{
		Address1: "123 MAIN STREET", City: "X", State: "NY", Zip5: 10001,
	}})
	if err != nil {
		t.Fatalf("StandardizeAddresses: %v", err)
	}
	// The "Range" candidate is filtered out and the candidate with no
	// second line wins over the earlier one carrying "FL 2".
	if adrs[0].Zip4 != 2222 || adrs[0].Address2 != "" {
		t.Errorf("chose %+v, want the no-line2 candidate", adrs[0])
	}
}

func TestStandardizeCascade(t *testing.T) {
	var calls []string
	srv := lookupServer(t, func(r *http.Request) lookupResponse {
		adr1 := r.Form.Get("address1")
		calls = append(calls, adr1)
		// Only the swapped form succeeds: the street is on line two.
		if adr1 != "910 MAIN STREET" {
			return lookupResponse{ResultStatus: "FAILURE"}
		}
		return lookupResponse{
			ResultStatus: "SUCCESS",
			AddressList: []LookupAddress{{
				AddressLine1: "910 MAIN ST", City: "KANSAS CITY", State: "MO", Zip5: "64105", Zip4: "",
			}},
		}
	})
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "", nil, nil)
	adrs, err := c.StandardizeAddresses(context.Background(), []model.Address{{
		Address1: "COMMERCE TOWER", Address2: "910 MAIN STREET",
		City: "KANSAS CITY", State: "MO", Zip5: 64105,
	}})
	if err != nil {
		t.Fatalf("StandardizeAddresses: %v", err)
	}
	if adrs[0].Address1 != "910 MAIN ST" {
		t.Errorf("address1 = %q", adrs[0].Address1)
	}
	// as_is, combine, then swap.
	if len(calls) != 3 {
		t.Errorf("lookup calls = %v", calls)
	}
}

func TestStandardizeExhausted(t *testing.T) {
	srv := lookupServer(t, func(r *http.Request) lookupResponse {
		return lookupResponse{ResultStatus: "FAILURE"}
	})
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "", nil, nil)
	in := model.Address{Address1: "1 NOWHERE LN", City: "NOWHERE", State: "KS", Zip5: 66062}
	_, err := c.StandardizeAddresses(context.Background(), []model.Address{in})
	if err == nil {
		t.Fatal("expected StandardizeError")
	}
	se, ok := err.(*StandardizeError)
	if !ok {
		t.Fatalf("error = %T, want *StandardizeError", err)
	}
	if se.Adr.Address1 != "1 NOWHERE LN" {
		t.Errorf("error address = %+v", se.Adr)
	}
}

func TestLookupCache(t *testing.T) {
	hits := 0
	srv := lookupServer(t, func(r *http.Request) lookupResponse {
		hits++
		return lookupResponse{
			ResultStatus: "SUCCESS",
			AddressList: []LookupAddress{{
				AddressLine1: "123 MAIN ST", City: "X", State: "NY", Zip5: "10001", Zip4: "",
			}},
		}
	})
	defer srv.Close()

	cache, err := OpenLookupCache(LookupCacheConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("OpenLookupCache: %v", err)
	}
	defer cache.Close()

	c := NewClient(srv.Client(), srv.URL, "", cache, nil)
	in := model.Address{Address1: "123 MAIN STREET", City: "X", State: "NY", Zip5: 10001}
	for i := 0; i < 2; i++ {
		if _, err := c.StandardizeAddresses(context.Background(), []model.Address{in}); err != nil {
			t.Fatalf("StandardizeAddresses #%d: %v", i, err)
		}
	}
	if hits != 1 {
		t.Errorf("lookup hits = %d, want 1 (second run served from cache)", hits)
	}
}
