package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestYearQuarter(t *testing.T) {
	tests := []struct {
		date Date
		want string
	}{
		{NewDate(2024, time.January, 1), "2024-Q1"},
		{NewDate(2024, time.April, 1), "2024-Q2"},
		{NewDate(2024, time.July, 1), "2024-Q3"},
		{NewDate(2024, time.October, 1), "2024-Q4"},
		{NewDate(2024, time.December, 31), "2024-Q4"},
	}
	for _, tt := range tests {
		if got := tt.date.YearQuarter(); got != tt.want {
			t.Errorf("YearQuarter(%v) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.July, 1)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2024-07-01"` {
		t.Errorf("marshaled = %s", data)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestSortDedupAddresses(t *testing.T) {
	adrs := []Address{
		{Address1: "9 OAK ST", City: "SALEM", State: "OR", Zip5: 97301},
		{Address1: "1 MAIN ST", City: "TOPEKA", State: "KS", Zip5: 66601},
		{Address1: "9 OAK ST", City: "SALEM", State: "OR", Zip5: 97301},
	}
	out := SortDedupAddresses(adrs)
	if len(out) != 2 {
		t.Fatalf("out = %v", out)
	}
	if out[0].Address1 != "1 MAIN ST" {
		t.Errorf("not sorted: %v", out)
	}
}
