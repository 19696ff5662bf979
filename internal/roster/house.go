package roster

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/civicpost/internal/app"
	"github.com/civicpost/internal/logging"
	"github.com/civicpost/internal/model"
	"github.com/civicpost/internal/parse"
	"github.com/civicpost/internal/storage"
)

const houseFile = "house.json"

const houseIndexURL = "https://www.house.gov/representatives"

// houseCapacity is 435 voting members plus 6 non-voting delegates; some
// seats may be vacant.
const houseCapacity = 441

// houseAliases maps index-page abbreviations to the names the members'
// own sites use.
var houseAliases = map[string]string{
	"J. Correa":       "Lou Correa",
	"A. Ferguson":     "Drew Ferguson",
	"H. Griffith":     "Morgan Griffith",
	"J. Hill":         "French Hill",
	"C. Ruppersberger": "Dutch Ruppersberger",
	"W. Steube":       "Greg Steube",
}

// housePaths are the candidate contact-page paths, tried in order.
var housePaths = []string{
	"contact/offices",
	"contact/office-locations",
	"district",
	"contact",
	"offices",
	"office-locations",
	"office-information",
	"",
}

// houseSelectors are the address-container candidates probed in order.
var houseSelectors = []string{
	"address",
	"div.address-footer",
	"div.item",
	".internal__offices--address",
	".office-locations",
	"article",
	"div.office-address",
	"body",
}

// houseRewrites are the per-member line fixups, keyed by member name.
var houseRewrites = parse.RewriteTable{
	parse.RewriteKey("house", "Matthew Rosendale"): {
		{Op: parse.OpReplaceExact, Match: "3300 2ND AVENUE N SUITES 7-8", With: "3300 2ND AVENUE N SUITE 7"},
	},
	parse.RewriteKey("house", "Terri Sewell"): {
		{Op: parse.OpReplaceExact, Match: "101 SOUTH LAWRENCE ST COURTHOUSE ANNEX 3", With: "101 SOUTH LAWRENCE ST"},
	},
	parse.RewriteKey("house", "Joe Wilson"): {
		{Op: parse.OpReplaceExact, Match: "1700 SUNSET BLVD (US 378), SUITE 1", With: "1700 SUNSET BLVD STE 1"},
	},
	parse.RewriteKey("house", "Robert Wittman"): {
		{Op: parse.OpRemoveLine, Match: "508 CHURCH LANE"},
		{Op: parse.OpRemoveLine, Match: "307 MAIN STREET"},
	},
	parse.RewriteKey("house", "Andy Biggs"): {
		{Op: parse.OpRemoveLine, Match: "SUPERSTITION PLAZA"},
	},
	parse.RewriteKey("house", "John Carter"): {
		{Op: parse.OpRemoveLine, Match: "SUITE # I-10"},
	},
	parse.RewriteKey("house", "Michael Cloud"): {
		{Op: parse.OpReplaceExact, Match: "TOWER II, SUITE 980", With: "SUITE 980"},
	},
	parse.RewriteKey("house", "Tony Gonzales"): {
		{Op: parse.OpReplaceContains, Match: " (BY APPT ONLY)", With: ""},
	},
	parse.RewriteKey("house", "Garret Graves"): {
		{Op: parse.OpReplaceLine, Match: "615 E WORTHY STREET GONZALES", With: "615 E WORTHY ST\nGONZALES"},
	},
	parse.RewriteKey("house", "Jared Huffman"): {
		{Op: parse.OpReplaceExact, Match: "430 NORTH FRANKLIN ST FORT BRAGG, CA 95437", With: "430 NORTH FRANKLIN ST\nFORT BRAGG, CA 95437"},
		{Op: parse.OpReplaceLine, Match: "FORT BRAGG 95437", With: "FORT BRAGG, CA 95437"},
	},
	parse.RewriteKey("house", "Bill Huizenga"): {
		{Op: parse.OpReplaceContains, Match: "108 PORTAGE, MI 49002", With: "108\nPORTAGE, MI 49002"},
	},
	parse.RewriteKey("house", "Mike Johnson"): {
		{Op: parse.OpRemoveLine, Match: "444 CASPARI DRIVE", Count: 2},
		{Op: parse.OpReplaceExact, Match: "PO BOX 4989 (MAILING)", With: "PO BOX 4989"},
		{Op: parse.OpReplaceExact, Match: "PO BOX 779 (MAILING)", With: "PO BOX 779"},
	},
	parse.RewriteKey("house", "Michael Lawler"): {
		{Op: parse.OpRemoveLine, Match: "PO BOX 1645"},
	},
	parse.RewriteKey("house", "Anna Paulina Luna"): {
		{Op: parse.OpReplaceContains, Match: "OFFICE SUITE:", With: "STE"},
	},
	parse.RewriteKey("house", "Daniel Meuser"): {
		{Op: parse.OpReplaceExact, Match: "SUITE 110, LOSCH PLAZA", With: "SUITE 110"},
	},
	parse.RewriteKey("house", "Max Miller"): {
		{Op: parse.OpInsertBefore, Match: "WASHINGTON", With: "143 CHOB", Offset: 1},
	},
	parse.RewriteKey("house", "Frank Pallone"): {
		{Op: parse.OpReplaceExact, Match: "67/69 CHURCH ST", With: "67 CHURCH ST"},
	},
	parse.RewriteKey("house", "Stacey Plaskett"): {
		{Op: parse.OpReplaceExact, Match: "FREDERIKSTED, VI 00840", With: "ST CROIX, VI 00840"},
	},
	parse.RewriteKey("house", "Raul Grijalva"): {
		{Op: parse.OpRemoveLine, Match: "146 N STATE AVENUE", Count: 1},
		{Op: parse.OpJoinNext, Match: "MAILING ADDRESS", With: "PO BOX "},
		{Op: parse.OpRemoveContains, Match: "EL PUEBLO"},
	},
	parse.RewriteKey("house", "Bryan Steil"): {
		{Op: parse.OpRemoveContains, Match: "CIVIC CENTER"},
	},
	parse.RewriteKey("house", "Kevin Kiley"): {
		{Op: parse.OpRemoveLine, Match: "33 SOUTH MAIN STREET", Count: 3},
	},
}

// fitzpatrickPaths are the two fixed office pages gathered together for
// Brian Fitzpatrick, whose site splits addresses across both.
var fitzpatrickPaths = []string{"washington-d-c-office", "district-office"}

// LoadHouse returns the House roster, resolving members and addresses
// from house.gov when no snapshot exists.
func LoadHouse(ctx context.Context, a *app.App) (*model.Roster, error) {
	path := a.StatePath(houseFile)
	roster := &model.Roster{
		Name: "U.S. House of Representatives",
		Role: model.RolePolitical,
	}
	if storage.Exists(path) {
		if err := storage.ReadFile(roster, path); err != nil {
			return nil, err
		}
	} else {
		persons, err := fetchHouseMembers(ctx, a)
		if err != nil {
			return nil, err
		}
		roster.Persons = persons
		if err := storage.WriteFile(roster, path); err != nil {
			return nil, err
		}
	}

	a.Log.Info("house roster", logging.Count("representative", len(roster.Persons)))

	if err := fetchHouseAddresses(ctx, a, roster, path); err != nil {
		return nil, err
	}
	return roster, nil
}

// fetchHouseMembers scrapes the representatives index table.
func fetchHouseMembers(ctx context.Context, a *app.App) ([]model.Person, error) {
	body, err := a.Fetcher.Fetch(ctx, houseIndexURL)
	if err != nil {
		return nil, err
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	persons := make([]model.Person, 0, houseCapacity)
	var ferr error
	doc.Find("table.table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		nameCell := row.Find("td:nth-of-type(1)").First()
		if nameCell.Length() == 0 {
			return true
		}

		var per model.Person
		// Names come "Last, First".
		if last, first, ok := strings.Cut(nameCell.Text(), ","); ok {
			per.Name = a.Parser.CleanName(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
		}
		// Skip empty cells and vacant seats ("Mike - Vacancy").
		if per.Name == "" || strings.Contains(per.Name, "Vacancy") {
			return true
		}
		if alias, ok := houseAliases[per.Name]; ok {
			per.Name = alias
		}

		per.URL = strings.TrimSuffix(
			row.Find("td:nth-of-type(1) a").First().AttrOr("href", ""), "/")
		// Some entries link deeper pages; keep the site root:
		// "https://example.house.gov/index.cfm/home".
		if !strings.HasSuffix(per.URL, ".gov") {
			if fnd := strings.Index(per.URL, ".gov"); fnd >= 0 {
				per.URL = per.URL[:fnd+4]
			}
		}

		if per.URL == "" {
			ferr = fmt.Errorf("url is empty for %s", per)
			return false
		}
		if !strings.HasSuffix(per.URL, ".house.gov") {
			ferr = fmt.Errorf("url doesn't end with .house.gov: %s", per)
			return false
		}
		persons = append(persons, per)
		return true
	})
	if ferr != nil {
		return nil, ferr
	}
	return persons, nil
}

// fetchHouseAddresses resolves every unresolved member through the
// candidate path cascade, requiring at least two addresses (the capitol
// office plus a district office), and checkpoints after each member.
func fetchHouseAddresses(ctx context.Context, a *app.App, roster *model.Roster, path string) error {
	for idx := range roster.Persons {
		per := &roster.Persons[idx]
		if per.Resolved() {
			continue
		}
		a.Log.Info("resolving", logging.Person(per.Name, per.URL)...)

		opt := parse.PipelineOpts{
			Rewrites: rewritesFor(a, houseRewrites, "house", per.Name),
			Building: parse.BuildingHouse,
		}

		if per.Name == "Brian Fitzpatrick" {
			var adrs []model.Address
			for _, urlPath := range fitzpatrickPaths {
				more, err := fetchAddresses(ctx, a, candidateURL(per.URL, urlPath), houseSelectors, opt)
				if err != nil {
					return err
				}
				adrs = append(adrs, more...)
			}
			per.Adrs = adrs
		} else {
			for _, urlPath := range housePaths {
				adrs, err := fetchAddresses(ctx, a, candidateURL(per.URL, urlPath), houseSelectors, opt)
				if err != nil {
					return err
				}
				if len(adrs) < 2 {
					continue
				}
				per.Adrs = adrs
				break
			}
		}

		if !per.Resolved() {
			return &ResolutionError{Person: *per, URL: per.URL}
		}
		a.Log.Debug("resolved", slog.String("person", per.Name), logging.Count("address", per.AdrLen()))

		if err := storage.WriteFile(roster, path); err != nil {
			return err
		}
	}
	return nil
}
