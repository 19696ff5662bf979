package parse

import (
	"strings"
	"unicode"
)

func removeAt(lnes []string, idx int) []string {
	return append(lnes[:idx], lnes[idx+1:]...)
}

func insertAt(lnes []string, idx int, lne string) []string {
	lnes = append(lnes, "")
	copy(lnes[idx+1:], lnes[idx:])
	lnes[idx] = lne
	return lnes
}

// EditDot removes all dots: "D.C." becomes "DC".
func EditDot(lnes []string) []string {
	for idx, lne := range lnes {
		if strings.Contains(lne, ".") {
			lnes[idx] = strings.ReplaceAll(lne, ".", "")
		}
	}
	return lnes
}

// EditNbspZwsp replaces non-breaking spaces with plain spaces and deletes
// zero-width spaces.
func EditNbspZwsp(lnes []string) []string {
	for idx, lne := range lnes {
		if strings.ContainsRune(lne, '\u00a0') {
			lne = strings.ReplaceAll(lne, "\u00a0", " ")
		}
		if strings.Contains(lne, "\u200b") {
			lne = strings.ReplaceAll(lne, "\u200b", "")
		}
		lnes[idx] = lne
	}
	return lnes
}

// EditMailing strips a leading "MAILING ADDRESS:" label.
func EditMailing(lnes []string) []string {
	const mailing = "MAILING ADDRESS:"
	for idx, lne := range lnes {
		if strings.HasPrefix(lne, mailing) {
			lnes[idx] = strings.TrimSpace(lne[len(mailing):])
		}
	}
	return lnes
}

// EditSplitBar splits lines on '|' into multiple lines:
// "WELLS FARGO PLAZA | 221 N. KANSAS STREET | SUITE 1500".
func EditSplitBar(lnes []string) []string {
	for idx := len(lnes) - 1; idx >= 0; idx-- {
		if !strings.Contains(lnes[idx], "|") {
			continue
		}
		parts := strings.Split(lnes[idx], "|")
		lnes = removeAt(lnes, idx)
		for j := len(parts) - 1; j >= 0; j-- {
			if parts[j] != "" {
				lnes = insertAt(lnes, idx, strings.TrimSpace(parts[j]))
			}
		}
	}
	return lnes
}

// EditConcatZip appends a bare zip line to the previous line unless the
// previous line already ends with a state token. It must not concatenate
// "355 S. WASHINGTON ST, SUITE 210, DANVILLE, IN", "46122" or
// "PR", "00902-3958".
func (p *Parser) EditConcatZip(lnes []string) []string {
	for idx := len(lnes) - 1; idx >= 1; idx-- {
		if !IsZip(lnes[idx]) {
			continue
		}
		prev := trimEndSpacePunct(lnes[idx-1])
		locs := p.State.FindAllStringIndex(prev, -1)
		if len(locs) == 0 || locs[len(locs)-1][1] != len(prev) {
			lnes[idx-1] += " " + lnes[idx]
			lnes = removeAt(lnes, idx)
		}
	}
	return lnes
}

// EditZipDisjoint mends a zip split across two lines:
// "Vidalia, GA 304", "74". At most one repair occurs per line set.
func EditZipDisjoint(lnes []string) []string {
	for idx := len(lnes) - 1; idx >= 1; idx-- {
		if len(lnes[idx]) >= 1 && len(lnes[idx]) < 5 && allDigits(lnes[idx]) {
			lnes[idx-1] += lnes[idx]
			lnes = removeAt(lnes, idx)
			break
		}
	}
	return lnes
}

// trimEndSpacePunct trims trailing whitespace and ASCII punctuation.
func trimEndSpacePunct(lne string) string {
	return strings.TrimRightFunc(lne, func(r rune) bool {
		return unicode.IsSpace(r) || (r < 128 && unicode.IsPunct(r)) || r == '|'
	})
}

// EditSplitCityStateZip splits a line ending with a zip into separate
// prefix, city, state and zip lines:
//
//	"Syracuse, NY  13202"
//	"2303 Rayburn House Office Building, Washington, DC 20515"
//	"GARNER NC, 27529"
//
// The state is located by the last state-regex match because a city and
// state can share a name ("Washington"). The prefix is then comma-split.
func (p *Parser) EditSplitCityStateZip(lnes []string) []string {
	for idx := len(lnes) - 1; idx >= 0; idx-- {
		lne := lnes[idx]
		zip := EndsWithZip(lne)
		if zip == "" {
			continue
		}
		lnes = removeAt(lnes, idx)
		lne = lne[:len(lne)-len(zip)]
		lnes = insertAt(lnes, idx, zip)

		if locs := p.State.FindAllStringIndex(lne, -1); locs != nil {
			last := locs[len(locs)-1]
			lnes = insertAt(lnes, idx, lne[last[0]:last[1]])
			lne = trimEndSpacePunct(lne[:last[0]])
		}

		if strings.Contains(lne, ",") {
			parts := strings.Split(strings.TrimSuffix(lne, ","), ",")
			for j := len(parts) - 1; j >= 0; j-- {
				lnes = insertAt(lnes, idx, strings.TrimSpace(parts[j]))
			}
		} else {
			lnes = insertAt(lnes, idx, lne)
		}
	}
	return lnes
}

// EditDrainAfterLastZip discards all lines after the last zip line.
func EditDrainAfterLastZip(lnes []string) []string {
	for idx := len(lnes) - 1; idx >= 0; idx-- {
		if IsZip(lnes[idx]) {
			return lnes[:idx+1]
		}
	}
	return lnes
}

// EditSingleComma removes lines that are a lone comma.
func EditSingleComma(lnes []string) []string {
	for idx := len(lnes) - 1; idx >= 0; idx-- {
		if lnes[idx] == "," {
			lnes = removeAt(lnes, idx)
		}
	}
	return lnes
}

// EditZip20003 fixes the miscoded D.C. zip on House contact pages:
// "143 CHOB,,WASHINGTON,DC,20003" must route to 20515.
func EditZip20003(lnes []string) []string {
	for idx, lne := range lnes {
		if lne == "20003" {
			lnes[idx] = "20515"
		}
	}
	return lnes
}

// EditSplitComma splits comma-delimited lines into separate lines:
// "U.S. FEDERAL BUILDING, 220 E ROSSER AVENUE".
func EditSplitComma(lnes []string) []string {
	for idx := len(lnes) - 1; idx >= 0; idx-- {
		if !strings.Contains(lnes[idx], ",") {
			continue
		}
		parts := strings.Split(lnes[idx], ",")
		lnes = removeAt(lnes, idx)
		for j := len(parts) - 1; j >= 0; j-- {
			lnes = insertAt(lnes, idx, strings.TrimSpace(parts[j]))
		}
	}
	return lnes
}

// EditStartingHash strips a leading '#' unless only digits follow; unit
// numbers such as "#20127" stay intact.
func EditStartingHash(lnes []string) []string {
	for idx, lne := range lnes {
		if strings.HasPrefix(lne, "#") && len(lne) > 1 && !allDigits(lne[1:]) {
			lnes[idx] = lne[1:]
		}
	}
	return lnes
}

// EditCharHalf rewrites the vulgar fraction: "1411 ½ AVERSBORO RD".
func EditCharHalf(lnes []string) []string {
	for idx, lne := range lnes {
		if strings.Contains(lne, "½") {
			lnes[idx] = strings.ReplaceAll(lne, "½", "1/2")
		}
	}
	return lnes
}

// EditEmpty removes empty lines.
func EditEmpty(lnes []string) []string {
	out := lnes[:0]
	for _, lne := range lnes {
		if lne != "" {
			out = append(out, lne)
		}
	}
	return out
}

// EditNewline splits lines containing embedded newlines:
// "154 CANNON HOUSE OFFICE BUILDING\n\nWASHINGTON, \nDC\n20515".
func EditNewline(lnes []string) []string {
	for idx := len(lnes) - 1; idx >= 0; idx-- {
		if !strings.Contains(lnes[idx], "\n") {
			continue
		}
		var segs []string
		for _, s := range strings.Split(lnes[idx], "\n") {
			s = strings.TrimSuffix(strings.TrimSpace(s), ",")
			if s != "" {
				segs = append(segs, s)
			}
		}
		lnes = removeAt(lnes, idx)
		for j := len(segs) - 1; j >= 0; j-- {
			lnes = insertAt(lnes, idx, segs[j])
		}
	}
	return lnes
}

// EditSOB canonicalizes Senate office building variants into
// "<ROOM> HSOB|DSOB|RSOB" with the room or suite number moved to the
// front. Street-address lines for the buildings are dropped.
func EditSOB(lnes []string) []string {
	const (
		hart    = "HART"
		dirksen = "DIRKSEN"
		russell = "RUSSELL"
	)
	for idx := len(lnes) - 1; idx >= 0; idx-- {
		if strings.HasPrefix(lnes[idx], "2 CONSTITUTION AVE") ||
			strings.HasPrefix(lnes[idx], "50 CONSTITUTION AVE") ||
			strings.HasPrefix(lnes[idx], "120 CONSTITUTION AVE") {
			lnes = removeAt(lnes, idx)
			continue
		}

		if !(strings.Contains(lnes[idx], hart) ||
			strings.Contains(lnes[idx], dirksen) ||
			strings.Contains(lnes[idx], russell)) {
			continue
		}

		// "509 HART", "SENATE OFFICE BLDG"
		if idx+1 != len(lnes) &&
			(strings.HasSuffix(lnes[idx], hart) ||
				strings.HasSuffix(lnes[idx], dirksen) ||
				strings.HasSuffix(lnes[idx], russell)) &&
			strings.HasPrefix(lnes[idx+1], "SENATE OFFICE") {
			lnes[idx] += " SOB"
			lnes = removeAt(lnes, idx+1)
		}

		// "110 HART SENATE OFFICE", "BUILDING"
		if idx+1 != len(lnes) &&
			strings.HasSuffix(lnes[idx], "SENATE OFFICE") &&
			lnes[idx+1] == "BUILDING" {
			lnes[idx] = strings.Replace(lnes[idx], "SENATE OFFICE", "SOB", 1)
			lnes = removeAt(lnes, idx+1)
		}

		// "502 HART SENATE OFFICE BUILDING"
		if fnd := strings.Index(lnes[idx], "SENATE OFFICE"); fnd >= 0 {
			lnes[idx] = lnes[idx][:fnd] + "SOB"
		}

		// "313 HART OFFICE BUILDING"
		if fnd := strings.Index(lnes[idx], "OFFICE BUILDING"); fnd >= 0 {
			lnes[idx] = lnes[idx][:fnd] + "SOB"
		}

		// "331 HART SENATE", "OFFICE BUILDING"
		// "503 HART SENATE", "OFFICE BLDG."
		if idx+1 != len(lnes) &&
			strings.HasSuffix(lnes[idx], "SENATE") &&
			strings.HasPrefix(lnes[idx+1], "OFFICE") {
			lnes[idx] = strings.Replace(lnes[idx], "SENATE", "SOB", 1)
			lnes = removeAt(lnes, idx+1)
		}

		// "261 RUSSELL SENATE BUILDING"
		if fnd := strings.Index(lnes[idx], "SENATE BUILDING"); fnd >= 0 {
			lnes[idx] = lnes[idx][:fnd] + "SOB"
		}

		// "133 HART BUILDING"
		if fnd := strings.Index(lnes[idx], "BUILDING"); fnd >= 0 {
			lnes[idx] = lnes[idx][:fnd] + "SOB"
		}

		// "ROOM 521", "SUITE 455", "SUITE SR-374", "SUITE 479A"
		if idx+1 != len(lnes) &&
			(strings.Contains(lnes[idx+1], "ROOM") || strings.Contains(lnes[idx+1], "SUITE")) &&
			strings.HasSuffix(strings.TrimSpace(lnes[idx]), "SOB") {
			var digits strings.Builder
			for _, c := range lnes[idx+1] {
				if c >= '0' && c <= '9' {
					digits.WriteRune(c)
				}
			}
			lnes[idx] = digits.String() + " " + lnes[idx]
			lnes = removeAt(lnes, idx+1)
		}

		switch {
		case strings.Contains(lnes[idx], hart):
			lnes[idx] = strings.Replace(lnes[idx], "HART SOB", "HSOB", 1)
		case strings.Contains(lnes[idx], dirksen):
			lnes[idx] = strings.Replace(lnes[idx], "DIRKSEN SOB", "DSOB", 1)
		case strings.Contains(lnes[idx], russell):
			lnes[idx] = strings.Replace(lnes[idx], "RUSSELL SOB", "RSOB", 1)
		}
	}
	return lnes
}

// EditHOB canonicalizes House office building variants into
// "<ROOM> CHOB|LHOB|RHOB", the analogue of EditSOB.
func EditHOB(lnes []string) []string {
	const (
		cannon    = "CANNON"
		longworth = "LONGWORTH"
		rayburn   = "RAYBURN"
	)
	for idx := len(lnes) - 1; idx >= 0; idx-- {
		if strings.HasPrefix(lnes[idx], "45 INDEPENDENCE AVE") ||
			strings.HasPrefix(lnes[idx], "15 INDEPENDENCE AVE") ||
			strings.HasPrefix(lnes[idx], "27 INDEPENDENCE AVE") {
			lnes = removeAt(lnes, idx)
			continue
		}

		if !(strings.Contains(lnes[idx], cannon) ||
			strings.Contains(lnes[idx], longworth) ||
			strings.Contains(lnes[idx], rayburn)) {
			continue
		}

		// "RAYBURN HOUSE OFFICE BUILDING, 2419"
		if fnd := strings.Index(lnes[idx], ","); fnd >= 0 {
			lne := lnes[idx]
			lnes[idx] = strings.TrimSpace(lne[fnd+1:]) + " " + lne[:fnd]
		}

		// "1107 LONGWORTH HOUSE", "OFFICE BUILDING"
		if idx+1 != len(lnes) &&
			strings.HasSuffix(lnes[idx], "HOUSE") &&
			lnes[idx+1] == "OFFICE BUILDING" {
			lnes[idx] += " OFFICE BUILDING"
			lnes = removeAt(lnes, idx+1)
		}

		// "2312 RAYBURN HOUSE OFFICE BUILDING"
		// "2430 RAYBURN HOUSE OFFICE BLDG."
		if fnd := strings.Index(lnes[idx], "HOUSE OFFICE"); fnd >= 0 {
			lnes[idx] = lnes[idx][:fnd] + "HOB"
		}

		// "2205 RAYBURN OFFICE BUILDING"
		if fnd := strings.Index(lnes[idx], "OFFICE BUILDING"); fnd >= 0 {
			lnes[idx] = lnes[idx][:fnd] + "HOB"
		}

		// "2205 RAYBURN BUILDING"
		if fnd := strings.Index(lnes[idx], "BUILDING"); fnd >= 0 {
			lnes[idx] = lnes[idx][:fnd] + "HOB"
		}

		// "LONGWORTH HOB", "ROOM 1027"
		if idx+1 != len(lnes) &&
			strings.Contains(lnes[idx+1], "ROOM") &&
			strings.HasSuffix(strings.TrimSpace(lnes[idx]), "HOB") {
			room := strings.Fields(lnes[idx+1])
			if len(room) > 1 {
				lnes[idx] = room[1] + " " + lnes[idx]
			}
			lnes = removeAt(lnes, idx+1)
		}

		switch {
		case strings.Contains(lnes[idx], cannon):
			lnes[idx] = strings.Replace(lnes[idx], "CANNON HOB", "CHOB", 1)
		case strings.Contains(lnes[idx], longworth):
			lnes[idx] = strings.Replace(lnes[idx], "LONGWORTH HOB", "LHOB", 1)
		case strings.Contains(lnes[idx], rayburn):
			lnes[idx] = strings.Replace(lnes[idx], "RAYBURN HOB", "RHOB", 1)
		}
	}
	return lnes
}
