package parse

import "testing"

func TestCleanName(t *testing.T) {
	p := NewParser()
	tests := []struct {
		in   string
		want string
	}{
		{"Dr. Jane A. Doe Ph.D.", "Jane A. Doe"},
		{"John Quincy", "John Quincy"},
		{"Gov. Mike Public", "Mike Public"},
		{"Sam Smith Jr.", "Sam Smith"},
		{`Robert "Bob" Jones`, "Robert Jones"},
		{"Ann Lee (she/her)", "Ann Lee"},
		{"Carl Mark III", "Carl Mark"},
		{"Maria Lopez, J.D.", "Maria Lopez"},
		{"Nina Ray MPH", "Nina Ray"},
		{"Omar’s", "Omar's"},
		{"Jane EdD", "Jane"},
	}
	for _, tt := range tests {
		if got := p.CleanName(tt.in); got != tt.want {
			t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanSplitName(t *testing.T) {
	p := NewParser()
	first, rest := p.CleanSplitName("John Quincy Public")
	if first != "John" || rest != "Quincy Public" {
		t.Errorf("CleanSplitName = %q, %q", first, rest)
	}
	first, rest = p.CleanSplitName("Cher")
	if first != "" || rest != "" {
		t.Errorf("CleanSplitName single word = %q, %q", first, rest)
	}
}
