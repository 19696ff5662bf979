// Package model holds the data types shared across the mailing pipeline:
// persons, postal addresses, mailpieces and rosters. The JSON shapes match
// the persisted state files, which are the source of truth between runs.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// Role classifies a roster for reporting purposes.
type Role string

const (
	RoleMilitary   Role = "Military"
	RoleScientific Role = "Scientific"
	RolePolitical  Role = "Political"
	RoleObserver   Role = "Observer"
)

// Person is a mail recipient. Identity is the cleaned full name.
// A Person with a nil Adrs slice is unresolved; the pipeline's job is
// to resolve every person to at least one address.
type Person struct {
	Name   string    `json:"name"`
	Title1 string    `json:"title1"`
	Title2 string    `json:"title2"`
	URL    string    `json:"url"`
	Adrs   []Address `json:"adrs,omitempty"`
}

func (p Person) String() string {
	return fmt.Sprintf("%s,%s,%s,%s", p.Name, p.Title1, p.Title2, p.URL)
}

// AdrLen returns the number of resolved addresses.
func (p Person) AdrLen() int {
	return len(p.Adrs)
}

// Resolved reports whether the person has at least one address.
func (p Person) Resolved() bool {
	return len(p.Adrs) > 0
}

// Address is a mailing address in USPS canonical form once standardized.
// Zip4 of 0 means unknown. DeliveryPoint, when present, is exactly two
// digits.
type Address struct {
	Address1      string `json:"address1"`
	Address2      string `json:"address2,omitempty"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip5          uint32 `json:"zip5"`
	Zip4          uint16 `json:"zip4"`
	DeliveryPoint string `json:"delivery_point,omitempty"`
}

func (a Address) String() string {
	return fmt.Sprintf("%s,%s,%s,%s,%d,%d,%s",
		a.Address1, a.Address2, a.City, a.State, a.Zip5, a.Zip4, a.DeliveryPoint)
}

// Less orders addresses by field sequence, for stable dedup.
func (a Address) Less(b Address) bool {
	if a.Address1 != b.Address1 {
		return a.Address1 < b.Address1
	}
	if a.Address2 != b.Address2 {
		return a.Address2 < b.Address2
	}
	if a.City != b.City {
		return a.City < b.City
	}
	if a.State != b.State {
		return a.State < b.State
	}
	if a.Zip5 != b.Zip5 {
		return a.Zip5 < b.Zip5
	}
	if a.Zip4 != b.Zip4 {
		return a.Zip4 < b.Zip4
	}
	return a.DeliveryPoint < b.DeliveryPoint
}

// SortDedupAddresses sorts addresses and removes value-equal duplicates.
func SortDedupAddresses(adrs []Address) []Address {
	sort.Slice(adrs, func(i, j int) bool { return adrs[i].Less(adrs[j]) })
	out := adrs[:0]
	for i, adr := range adrs {
		if i == 0 || adr != adrs[i-1] {
			out = append(out, adr)
		}
	}
	return out
}

// AddressList formats addresses for log output, one per line.
type AddressList []Address

func (l AddressList) String() string {
	var b strings.Builder
	for i, adr := range l {
		if i != 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  ")
		b.WriteString(adr.String())
	}
	return b.String()
}

// Mailpiece is one physical envelope. Id is the serial carried in the
// Intelligent Mail Barcode; Barcode is empty until encoded and then holds
// only the characters F, A, D and T.
type Mailpiece struct {
	Name          string `json:"name"`
	Title1        string `json:"title1,omitempty"`
	Title2        string `json:"title2,omitempty"`
	Address1      string `json:"address1"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip5          uint32 `json:"zip5"`
	Zip4          uint16 `json:"zip4"`
	DeliveryPoint string `json:"delivery_point,omitempty"`
	Barcode       string `json:"barcode"`
	ID            uint32 `json:"id"`
}

func (m Mailpiece) String() string {
	return fmt.Sprintf("%s,%s,%s,%s,%s,%s,%d,%d,%s,%d",
		m.Name, m.Title1, m.Title2, m.Address1, m.City, m.State,
		m.Zip5, m.Zip4, m.DeliveryPoint, m.ID)
}

// Roster binds a named source of persons to its reporting role.
type Roster struct {
	Name    string   `json:"name"`
	Role    Role     `json:"role"`
	Persons []Person `json:"persons"`
}

// Letter is the letter template: paragraphs rendered once per mailpiece
// with the {{name}} placeholder substituted.
type Letter struct {
	To         string   `json:"to"`
	Paragraphs []string `json:"paragraphs"`
	From       string   `json:"from"`
}
