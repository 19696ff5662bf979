package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/civicpost/internal/app"
	"github.com/civicpost/internal/logging"
	"github.com/civicpost/internal/model"
	"github.com/civicpost/internal/parse"
	"github.com/civicpost/internal/storage"
)

const senateFile = "senate.json"

// Two senators per state regardless of population.
const senateCapacity = 100

var senateStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA", "HI", "ID", "IL",
	"IN", "IA", "KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "MT",
	"NE", "NV", "NH", "NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI",
	"SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

var senatePaths = []string{
	"contact",
	"contact/offices",
	"",
	"public",
	"public/index.cfm/office-locations",
	"contact/office-locations",
}

var senateSelectors = []string{
	"li",
	"div.et_pb_blurb_description",
	"div.et_pb_promo_description",
	"div.OfficeLocations__addressText",
	"div.map-office-box",
	"div.et_pb_text_inner",
	"div.location-content-inner",
	"div.address",
	"address",
	"div.address-footer",
	"div.counties_listing",
	"div.location-info",
	"div.item",
	".internal__offices--address",
	".office-locations",
	"div.office-address",
	"body",
}

var senateRewrites = parse.RewriteTable{
	parse.RewriteKey("senate", "Tommy Tuberville"): {
		{Op: parse.OpReplaceExact, Match: "BB&T CENTRE 41 WEST I-65", With: "41 W I-65 SERVICE RD N STE 2300-A", Count: 1},
	},
	parse.RewriteKey("senate", "Chuck Grassley"): {
		{Op: parse.OpRemoveLine, Match: "210 WALNUT STREET"},
	},
	parse.RewriteKey("senate", "Joni Ernst"): {
		{Op: parse.OpReplaceExact, Match: "2146 27", With: "2146 27TH AVE", Count: 2},
		{Op: parse.OpRemoveLine, Match: "210 WALNUT STREET"},
	},
	parse.RewriteKey("senate", "Roger Marshall"): {
		{Op: parse.OpReplaceContains, Match: "20002", With: "20510"},
	},
	parse.RewriteKey("senate", "Benjamin L. Cardin"): {
		{Op: parse.OpReplaceExact, Match: "TOWER 1, SUITE 1710", With: "SUITE 1710"},
	},
	parse.RewriteKey("senate", "Jeanne Shaheen"): {
		{Op: parse.OpRemoveLine, Match: "OFFICE BUILDING"},
	},
	parse.RewriteKey("senate", "Robert Menendez"): {
		{Op: parse.OpReplaceExact, Match: "HARBORSIDE 3, SUITE 1000", With: "SUITE 1000"},
	},
	parse.RewriteKey("senate", "Martin Heinrich"): {
		{Op: parse.OpReplaceLine, Match: "709 HART", With: "709 HART SOB, WASHINGTON, DC 20510"},
	},
	parse.RewriteKey("senate", "Charles E. Schumer"): {
		{Op: parse.OpReplaceLine, Match: "LEO O'BRIEN", With: "1 CLINTON SQ STE 827"},
	},
	parse.RewriteKey("senate", "Kevin Cramer"): {
		// "328 FEDERAL BUILDING", "220 EAST ROSSER AVENUE"
		{Op: parse.OpRemoveLine, Match: "328 FEDERAL BUILDING"},
		{Op: parse.OpReplaceExact, Match: "220 EAST ROSSER AVENUE", With: "220 EAST ROSSER AVENUE RM 328"},
	},
	parse.RewriteKey("senate", "Sheldon Whitehouse"): {
		{Op: parse.OpReplaceLine, Match: "HART SENATE", With: "530 HART SOB"},
	},
	parse.RewriteKey("senate", "John Thune"): {
		{Op: parse.OpReplaceExact, Match: "UNITED STATES SENATE SD-511", With: "511 DIRKSEN SOB"},
	},
	parse.RewriteKey("senate", "Mike Rounds"): {
		{Op: parse.OpReplaceLine, Match: "HART SENATE", With: "716 HART SOB"},
	},
	parse.RewriteKey("senate", "Marsha Blackburn"): {
		{Op: parse.OpReplaceLine, Match: "10 WEST M", With: "10 MARTIN LUTHER KING BLVD"},
	},
	parse.RewriteKey("senate", "Bill Hagerty"): {
		{Op: parse.OpReplaceLine, Match: "109 S", With: "109 S HIGHLAND AVE"},
		{Op: parse.OpReplaceExact, Match: "20002", With: "20510"},
	},
	parse.RewriteKey("senate", "Ted Cruz"): {
		{Op: parse.OpReplaceLine, Match: "MICKEY LELAND FEDERAL", With: "1919 SMITH ST STE 9047"},
		{Op: parse.OpReplaceExact, Match: "167 RUSSELL", With: "167 RUSSELL SOB"},
	},
	parse.RewriteKey("senate", "Peter Welch"): {
		{Op: parse.OpReplaceContains, Match: "SR-124", With: "124"},
	},
	parse.RewriteKey("senate", "John Barrasso"): {
		{Op: parse.OpReplaceLine, Match: "(COMMERCE BANK)", With: "1575 DEWAR DR"},
	},
	parse.RewriteKey("senate", "Cynthia M. Lummis"): {
		{Op: parse.OpReplaceLine, Match: "RUSSELL SENATE", With: "127 RUSSELL SOB\nWASHINGTON, DC 20510"},
		{Op: parse.OpReplaceLine, Match: "FEDERAL CENTER", With: "2120 CAPITOL AVE STE 2007\nCHEYENNE, WY 82001"},
	},
	parse.RewriteKey("senate", "Jon Tester"): {
		{Op: parse.OpRemoveLine, Match: "SILVER BOW CENTER"},
	},
	parse.RewriteKey("senate", "John Cornyn"): {
		{Op: parse.OpRemoveLine, Match: "WELLS FARGO CENTER"},
	},
}

// hickenlooperURL is a WordPress locations endpoint; the senator's site
// exposes structured JSON instead of parsable HTML.
const hickenlooperURL = "https://hickenlooper.senate.gov/wp-json/wp/v2/locations"

// LoadSenate returns the Senate roster, scraping the per-state intro
// pages for members when no snapshot exists.
func LoadSenate(ctx context.Context, a *app.App) (*model.Roster, error) {
	path := a.StatePath(senateFile)
	roster := &model.Roster{
		Name: "U.S. Senate",
		Role: model.RolePolitical,
	}
	if storage.Exists(path) {
		if err := storage.ReadFile(roster, path); err != nil {
			return nil, err
		}
	} else {
		roster.Persons = make([]model.Person, 0, senateCapacity)
		for _, state := range senateStates {
			pers, err := fetchSenateMembers(ctx, a, state)
			if err != nil {
				return nil, err
			}
			roster.Persons = append(roster.Persons, pers...)
		}
		if err := storage.WriteFile(roster, path); err != nil {
			return nil, err
		}
	}

	a.Log.Info("senate roster", logging.Count("senator", len(roster.Persons)))

	if err := fetchSenateAddresses(ctx, a, roster, path); err != nil {
		return nil, err
	}
	return roster, nil
}

func fetchSenateMembers(ctx context.Context, a *app.App, state string) ([]model.Person, error) {
	url := fmt.Sprintf("https://www.senate.gov/states/%s/intro.htm", state)
	body, err := a.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	var persons []model.Person
	var ferr error
	doc.Find("div.state-column").EachWithBreak(func(_ int, col *goquery.Selection) bool {
		link := col.Find("a").First()
		if link.Length() == 0 {
			return true
		}
		per := model.Person{
			Name: a.Parser.CleanName(link.Text()),
			URL: strings.TrimSuffix(
				strings.ReplaceAll(link.AttrOr("href", ""), "www.", ""), "/"),
		}
		if per.Name == "" {
			ferr = fmt.Errorf("name is empty for %s", url)
			return false
		}
		if !strings.HasSuffix(per.URL, ".senate.gov") {
			ferr = fmt.Errorf("url doesn't end with .senate.gov: %s", per)
			return false
		}
		persons = append(persons, per)
		return true
	})
	if ferr != nil {
		return nil, ferr
	}
	if len(persons) != 2 {
		return nil, fmt.Errorf("missing two senators for %s", state)
	}
	return persons, nil
}

func fetchSenateAddresses(ctx context.Context, a *app.App, roster *model.Roster, path string) error {
	for idx := range roster.Persons {
		per := &roster.Persons[idx]
		if per.Resolved() {
			continue
		}
		a.Log.Info("resolving", logging.Person(per.Name, per.URL)...)

		if per.Name == "John W. Hickenlooper" {
			adrs, err := fetchHickenlooper(ctx, a)
			if err != nil {
				return err
			}
			per.Adrs = adrs
		} else {
			opt := parse.PipelineOpts{
				Rewrites: rewritesFor(a, senateRewrites, "senate", per.Name),
				Building: parse.BuildingSenate,
			}
			for _, urlPath := range senatePaths {
				adrs, err := fetchAddresses(ctx, a, candidateURL(per.URL, urlPath), senateSelectors, opt)
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

type senateLocation struct {
	ACF struct {
		Address string `json:"address"`
		Suite   string `json:"suite"`
		City    string `json:"city"`
		State   string `json:"state"`
		Zipcode string `json:"zipcode"`
	} `json:"acf"`
}

// fetchHickenlooper resolves addresses from the structured locations
// endpoint: "~" placeholder rows drop, and the Russell building suite
// ("2 Constitution Ave NE" + "Suite SR-374") rewrites to room + SOB form.
func fetchHickenlooper(ctx context.Context, a *app.App) ([]model.Address, error) {
	body, err := a.Fetcher.Fetch(ctx, hickenlooperURL)
	if err != nil {
		return nil, err
	}
	var locations []senateLocation
	if err := json.Unmarshal(body, &locations); err != nil {
		return nil, fmt.Errorf("failed to parse locations: %w", err)
	}

	var adrs []model.Address
	for _, loc := range locations {
		if loc.ACF.Address == "~" {
			continue
		}
		adr := model.Address{
			Address1: loc.ACF.Address,
			Address2: loc.ACF.Suite,
			City:     loc.ACF.City,
			State:    loc.ACF.State,
		}
		zip := loc.ACF.Zipcode
		switch {
		case parse.IsZip5(zip):
			n, _ := strconv.ParseUint(zip, 10, 32)
			adr.Zip5 = uint32(n)
		case parse.IsZip10(zip):
			n5, _ := strconv.ParseUint(zip[:5], 10, 32)
			n4, _ := strconv.ParseUint(zip[len(zip)-4:], 10, 16)
			adr.Zip5 = uint32(n5)
			adr.Zip4 = uint16(n4)
		}

		if strings.HasPrefix(adr.Address1, "2 Constitution Ave") && adr.Address2 != "" {
			if fnd := strings.Index(adr.Address2, "SR-"); fnd >= 0 {
				adr.Address1 = adr.Address2[fnd+3:] + " RUSSELL SOB"
				adr.Address2 = ""
			}
		}
		adrs = append(adrs, adr)
	}
	return a.USPS.StandardizeAddresses(ctx, adrs)
}
