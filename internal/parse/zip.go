package parse

import (
	"strings"
	"unicode"
)

const (
	lenZip5  = 5
	lenZip10 = 10
	zipDash  = '-'
)

// invalidZips are zip codes of addresses the USPS lookup rejects.
// Hand-maintained from observed lookup failures.
var invalidZips = map[string]bool{
	"89801": true,
	"49854": true,
	"78702": true,
	"29142": true,
	"85139": true,
	"78071": true,
	"07410": true,
	"85353": true,
	"12451": true,
	"28562": true,
	"00802": true,
	"96952": true,
}

// IsInvalidZip reports whether the zip belongs to the deny list of
// addresses the USPS lookup does not recognize.
func IsInvalidZip(zip string) bool {
	return invalidZips[zip]
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// IsZip5 reports whether the line is exactly a 5-digit zip, "12345".
func IsZip5(lne string) bool {
	return len(lne) == lenZip5 && allDigits(lne)
}

// IsZip10 reports whether the line is exactly a zip+4, "12345-6789".
func IsZip10(lne string) bool {
	if len(lne) != lenZip10 {
		return false
	}
	for idx, c := range lne {
		if idx == lenZip5 {
			if c != zipDash {
				return false
			}
		} else if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// IsZip reports whether the line is a 5-digit or zip+4 zip code.
func IsZip(lne string) bool {
	return IsZip5(lne) || IsZip10(lne)
}

// EndsWithZip5 returns the trailing 5-digit zip of a longer line, or ""
// when the line does not end with one. Room, suite, box and unit numbers
// ("ROOM 20100", "SUITE 20350", "BOX 22201", "#20127") and tails of six
// or more consecutive digits are not zips.
func EndsWithZip5(lne string) string {
	if len(lne) <= lenZip5 {
		return ""
	}
	zip := lne[len(lne)-lenZip5:]
	if !IsZip5(zip) {
		return ""
	}
	const idxRoom = 10
	if len(lne) >= idxRoom && strings.HasPrefix(lne[len(lne)-idxRoom:], "ROOM") {
		return ""
	}
	const idxSuite = 11
	if len(lne) >= idxSuite && strings.HasPrefix(lne[len(lne)-idxSuite:], "SUITE") {
		return ""
	}
	const idxBox = 9
	if len(lne) >= idxBox && strings.HasPrefix(lne[len(lne)-idxBox:], "BOX") {
		return ""
	}
	c := lne[len(lne)-lenZip5-1]
	if c >= '0' && c <= '9' || c == zipDash || c == '#' {
		return ""
	}
	return zip
}

// EndsWithZip10 returns the trailing zip+4 of a longer line, or "".
func EndsWithZip10(lne string) string {
	if len(lne) <= lenZip10 {
		return ""
	}
	zip := lne[len(lne)-lenZip10:]
	if !IsZip10(zip) {
		return ""
	}
	return zip
}

// EndsWithZip returns the trailing 5-digit or zip+4 zip of a line, or "".
func EndsWithZip(lne string) string {
	if zip := EndsWithZip5(lne); zip != "" {
		return zip
	}
	return EndsWithZip10(lne)
}

// ContainsTime reports whether the line contains a clock time such as
// "9AM" or "5 p.m.". Three or more consecutive digits before the marker
// do not match, so street numbers like "123 AMES" are not times.
func ContainsTime(lne string) bool {
	sawFirstChr := false
	longRun := false
	var cntDig uint8
	for _, c := range lne {
		if cntDig > 0 {
			if unicode.IsSpace(c) {
				continue
			}
			if c >= '0' && c <= '9' {
				if cntDig == 2 {
					// Too many digits: skip the rest of this run.
					cntDig = 0
					longRun = true
					continue
				}
				cntDig = 2
			}
			if sawFirstChr {
				if c == '.' {
					continue
				}
				if c == 'M' || c == 'm' {
					return true
				}
				cntDig = 0
				sawFirstChr = false
			} else if c == 'A' || c == 'a' || c == 'P' || c == 'p' {
				sawFirstChr = true
			} else if c < '0' || c > '9' {
				cntDig = 0
			}
		} else if c >= '0' && c <= '9' {
			if !longRun {
				cntDig = 1
			}
		} else {
			longRun = false
		}
	}
	return false
}
