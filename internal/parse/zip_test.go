package parse

import "testing"

func TestIsZip5(t *testing.T) {
	valid := []string{"12345", "67890"}
	for _, c := range valid {
		if !IsZip5(c) {
			t.Errorf("IsZip5(%q) = false, want true", c)
		}
	}
	invalid := []string{
		"1234",        // less than five digits
		"123456",      // more than five digits
		"12-567",      // dash inside
		"ABCDE",       // letters
		"12345-6789",  // zip+4 is not a zip5
		"12a45",       // alphabetic character
		"202-225-473", // phone fragment
	}
	for _, c := range invalid {
		if IsZip5(c) {
			t.Errorf("IsZip5(%q) = true, want false", c)
		}
	}
}

func TestIsZip10(t *testing.T) {
	valid := []string{"12345-6789", "98765-4321"}
	for _, c := range valid {
		if !IsZip10(c) {
			t.Errorf("IsZip10(%q) = false, want true", c)
		}
	}
	invalid := []string{
		"1234",
		"123456",
		"1234-5678",
		"12345-678",
		"12345-67890",
		"12345 6789",
		"12a45-6789",
		"12345-678a",
		"123456789",
		"202-225-4735",
	}
	for _, c := range invalid {
		if IsZip10(c) {
			t.Errorf("IsZip10(%q) = true, want false", c)
		}
	}
}

func TestIsZip(t *testing.T) {
	valid := []string{"12345", "67890", "12345-6789", "98765-4321"}
	for _, c := range valid {
		if !IsZip(c) {
			t.Errorf("IsZip(%q) = false, want true", c)
		}
	}
	invalid := []string{
		"1234", "123456", "1234-5678", "12345-678", "12345-67890",
		"12345 6789", "12a45-6789", "12345-678a", "123456789", "202-225-4735",
	}
	for _, c := range invalid {
		if IsZip(c) {
			t.Errorf("IsZip(%q) = true, want false", c)
		}
	}
}

func TestEndsWithZip5(t *testing.T) {
	valid := []struct{ in, want string }{
		{"Address with zip 12345", "12345"},
		{"End with 54321", "54321"},
		{"Starts with zip 98765", "98765"},
	}
	for _, c := range valid {
		if got := EndsWithZip5(c.in); got != c.want {
			t.Errorf("EndsWithZip5(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	invalid := []string{
		"#20127",                           // unit number
		"123456",                           // too many digits
		"Address with 1234",                // less than 5 digits
		"Random text",                      // no zip
		"45678-1234",                       // zip+4 tail
		"Address with zip code 12345-6789", // zip+4 tail
		"P.O. BOX 9023958",                 // PO box number
		"BOX 22201",                        // box number
		"ROOM 20100",                       // room number
		"SUITE 20350",                      // suite number
		"12345",                            // exact zip is not a tail
	}
	for _, c := range invalid {
		if got := EndsWithZip5(c); got != "" {
			t.Errorf("EndsWithZip5(%q) = %q, want \"\"", c, got)
		}
	}
}

func TestEndsWithZip10(t *testing.T) {
	valid := []struct{ in, want string }{
		{"Address with zip 12345-6789", "12345-6789"},
		{"Another one 98765-4321", "98765-4321"},
		{"Some text 54321-1234", "54321-1234"},
	}
	for _, c := range valid {
		if got := EndsWithZip10(c.in); got != c.want {
			t.Errorf("EndsWithZip10(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	invalid := []string{
		"1234567890",
		"Address with 12345-678",
		"Text with 12345-67890",
		"Random text",
		"Another text 123456",
		"Invalid zip 1234-56789",
		"P.O. BOX 9023958",
	}
	for _, c := range invalid {
		if got := EndsWithZip10(c); got != "" {
			t.Errorf("EndsWithZip10(%q) = %q, want \"\"", c, got)
		}
	}
}

func TestEndsWithZip(t *testing.T) {
	valid := []struct{ in, want string }{
		{"Address with zip 12345", "12345"},
		{"Another one 98765-4321", "98765-4321"},
		{"Zip code at end 12345-6789", "12345-6789"},
	}
	for _, c := range valid {
		if got := EndsWithZip(c.in); got != c.want {
			t.Errorf("EndsWithZip(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	invalid := []string{
		"123456", "1234567890", "Address with 1234", "Text with 12345-678",
		"Random text", "P.O. BOX 9023958", "BOX 22201", "ROOM 20100", "SUITE 20350",
	}
	for _, c := range invalid {
		if got := EndsWithZip(c); got != "" {
			t.Errorf("EndsWithZip(%q) = %q, want \"\"", c, got)
		}
	}
}

func TestContainsTime(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"EVERY 1ST, 3RD, AND 5TH WED 12-4PM", true},
		{"OPEN 9AM TO 5PM", true},
		{"9 A.M. UNTIL NOON", true},
		{"10 pm curfew", true},
		{"Event at 17:00", false},
		{"123 AMES ST", false},
		{"1600 PENNSYLVANIA AVENUE NW", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ContainsTime(tt.in); got != tt.want {
			t.Errorf("ContainsTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsInvalidZip(t *testing.T) {
	if !IsInvalidZip("89801") {
		t.Error("IsInvalidZip(89801) = false, want true")
	}
	if IsInvalidZip("20515") {
		t.Error("IsInvalidZip(20515) = true, want false")
	}
}
