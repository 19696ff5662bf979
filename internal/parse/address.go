package parse

import (
	"strconv"
	"strings"

	"github.com/civicpost/internal/model"
)

// ParseAddresses locates zero or more addresses inside normalized lines.
//
// Lines are walked bottom to top. A line is an address anchor iff it is a
// pure 5-digit zip or zip+4 and not on the invalid-zip deny list. For each
// anchor the state is the line above, the city the line above that, and
// address1 is found by scanning further up for the first line matching the
// address1 or PO-Box pattern. When the line above a non-PO-box address1
// also looks like an address1 it becomes address1 instead ("building name
// then street number on the next line"). Lines between address1 and the
// city join into address2.
//
// A nil result means no address was found; the caller retries with a
// different selector or URL path.
func (p *Parser) ParseAddresses(lnes []string) []model.Address {
	var adrs []model.Address
	for idx := len(lnes) - 1; idx >= 3; idx-- {
		lne := lnes[idx]
		zip5 := IsZip5(lne)
		zip10 := !zip5 && IsZip10(lne)
		if !(zip5 || zip10) || IsInvalidZip(lne) {
			continue
		}

		var adr model.Address
		if zip5 {
			n, _ := strconv.ParseUint(lne, 10, 32)
			adr.Zip5 = uint32(n)
		} else {
			n5, _ := strconv.ParseUint(lne[:lenZip5], 10, 32)
			n4, _ := strconv.ParseUint(lne[len(lne)-4:], 10, 16)
			adr.Zip5 = uint32(n5)
			adr.Zip4 = uint16(n4)
		}
		adr.State = lnes[idx-1]
		idxCity := idx - 2
		adr.City = lnes[idxCity]

		// Address1 starts with a digit and contains a letter. The next
		// line may be address1 or address2:
		//  ["610 MAIN STREET","FIRST FLOOR SMALL","CONFERENCE ROOM","JASPER","IN","47547"]
		//  PO BOX 729,SUITE # I-10,BELTON,TX,76513
		idxAdr1 := idx - 3
		for idxAdr1 >= 0 &&
			!(p.Address1.MatchString(lnes[idxAdr1]) || p.POBox.MatchString(lnes[idxAdr1])) {
			idxAdr1--
		}
		if idxAdr1 < 0 {
			return nil
		}
		// The line above may be the real address1.
		if idxAdr1 != 0 &&
			!p.POBox.MatchString(lnes[idxAdr1]) &&
			p.Address1.MatchString(lnes[idxAdr1-1]) {
			idxAdr1--
		}
		adr.Address1 = lnes[idxAdr1]

		if idxAdr1+1 != idxCity {
			adr.Address2 = strings.Join(lnes[idxAdr1+1:idxCity], " ")
		}
		adrs = append(adrs, adr)
	}

	return model.SortDedupAddresses(adrs)
}
