package parse

import (
	"reflect"
	"testing"

	"github.com/civicpost/internal/model"
)

func TestParseAddresses(t *testing.T) {
	p := NewParser()
	tests := []struct {
		name string
		in   []string
		want []model.Address
	}{
		{
			name: "simple",
			in:   []string{"1710 ALABAMA AVENUE", "JASPER", "AL", "35501"},
			want: []model.Address{{
				Address1: "1710 ALABAMA AVENUE", City: "JASPER", State: "AL", Zip5: 35501,
			}},
		},
		{
			name: "address2 joined",
			in: []string{
				"610 MAIN STREET", "FIRST FLOOR SMALL", "CONFERENCE ROOM",
				"JASPER", "IN", "47547",
			},
			want: []model.Address{{
				Address1: "610 MAIN STREET",
				Address2: "FIRST FLOOR SMALL CONFERENCE ROOM",
				City:     "JASPER", State: "IN", Zip5: 47547,
			}},
		},
		{
			name: "po box with suite",
			in:   []string{"PO BOX 729", "SUITE # I-10", "BELTON", "TX", "76513"},
			want: []model.Address{{
				Address1: "PO BOX 729", Address2: "SUITE # I-10",
				City: "BELTON", State: "TX", Zip5: 76513,
			}},
		},
		{
			name: "zip plus four anchor",
			in:   []string{"2201 C STREET NW", "WASHINGTON", "DC", "20520-0001"},
			want: []model.Address{{
				Address1: "2201 C STREET NW", City: "WASHINGTON", State: "DC",
				Zip5: 20520, Zip4: 1,
			}},
		},
		{
			name: "numbered line above address1 becomes address1",
			in:   []string{"300 EAST 8TH ST", "7TH FLOOR", "AUSTIN", "TX", "78701"},
			want: []model.Address{{
				Address1: "300 EAST 8TH ST", Address2: "7TH FLOOR",
				City: "AUSTIN", State: "TX", Zip5: 78701,
			}},
		},
		{
			name: "two addresses deduped and sorted",
			in: []string{
				"1710 ALABAMA AVENUE", "JASPER", "AL", "35501",
				"610 MAIN STREET", "JASPER", "IN", "47547",
			},
			want: []model.Address{
				{Address1: "1710 ALABAMA AVENUE", City: "JASPER", State: "AL", Zip5: 35501},
				{Address1: "610 MAIN STREET", City: "JASPER", State: "IN", Zip5: 47547},
			},
		},
		{
			name: "no anchor",
			in:   []string{"1710 ALABAMA AVENUE", "JASPER", "AL"},
			want: nil,
		},
		{
			name: "denied zip skipped",
			in:   []string{"100 MAIN ST", "ELKO", "NV", "89801"},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ParseAddresses(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseAddresses(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAddressesDuplicates(t *testing.T) {
	p := NewParser()
	in := []string{
		"1710 ALABAMA AVENUE", "JASPER", "AL", "35501",
		"1710 ALABAMA AVENUE", "JASPER", "AL", "35501",
	}
	got := p.ParseAddresses(in)
	if len(got) != 1 {
		t.Fatalf("expected one deduplicated address, got %v", got)
	}
}
