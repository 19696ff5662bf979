package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/civicpost/internal/app"
	"github.com/civicpost/internal/logging"
	"github.com/civicpost/internal/model"
	"github.com/civicpost/internal/parse"
	"github.com/civicpost/internal/storage"
)

const governorsFile = "governors.json"

// 50 state governors plus 5 territorial governors.
var governorStates = []string{
	"alabama", "alaska", "arizona", "arkansas", "california", "colorado",
	"connecticut", "delaware", "florida", "georgia", "hawaii", "idaho",
	"illinois", "indiana", "iowa", "kansas", "kentucky", "louisiana",
	"maine", "maryland", "massachusetts", "michigan", "minnesota",
	"mississippi", "missouri", "montana", "nebraska", "nevada",
	"new-hampshire", "new-jersey", "new-mexico", "new-york",
	"north-carolina", "north-dakota", "ohio", "oklahoma", "oregon",
	"pennsylvania", "rhode-island", "south-carolina", "south-dakota",
	"tennessee", "texas", "utah", "vermont", "virginia", "washington",
	"west-virginia", "wisconsin", "wyoming",
	"american-samoa", "guam", "northern-mariana-islands", "puerto-rico",
	"virgin-islands",
}

var governorSelectors = []string{"span.field", "li.item", "body"}

var governorRewrites = parse.RewriteTable{
	parse.RewriteKey("governors", "indiana"): {
		{Op: parse.OpReplaceExact, Match: "STATEHOUSE", With: "200 W WASHINGTON ST STE 206"},
	},
	parse.RewriteKey("governors", "new-jersey"): {
		{Op: parse.OpReplaceContains, Match: "PO BOX", With: ",PO BOX"},
	},
	parse.RewriteKey("governors", "georgia"): {
		{Op: parse.OpReplaceExact, Match: "SUITE 203, STATE CAPITOL", With: "STE 203"},
	},
	parse.RewriteKey("governors", "massachusetts"): {
		{Op: parse.OpReplaceExact, Match: "OFFICE OF THE GOVERNOR, ROOM 280", With: "ROOM 280"},
	},
	parse.RewriteKey("governors", "northern-mariana-islands"): {
		{Op: parse.OpReplaceContains, Match: "CALLER BOX", With: "PO BOX"},
	},
	parse.RewriteKey("governors", "u-s-virgin-islands"): {
		{Op: parse.OpReplaceContains, Match: "(21-22)", With: ""},
	},
}

// Fixed addresses for governors whose pages resist parsing.
var governorFixedAdrs = map[string]model.Address{
	"new-york": {
		Address1: "NYS STATE CAPITOL BUILDING",
		City:     "ALBANY", State: "NY", Zip5: 12224,
	},
	"american-samoa": {
		Address1: "OFFICE OF THE GOVERNOR",
		City:     "PAGO PAGO", State: "AS", Zip5: 96799,
	},
}

// LoadGovernors returns the governors roster. Names come from the NGA
// per-state pages; addresses come from the usa.gov state directory.
func LoadGovernors(ctx context.Context, a *app.App) (*model.Roster, error) {
	path := a.StatePath(governorsFile)
	roster := &model.Roster{
		Name: "U.S. Governors",
		Role: model.RolePolitical,
	}
	if storage.Exists(path) {
		if err := storage.ReadFile(roster, path); err != nil {
			return nil, err
		}
	} else {
		roster.Persons = make([]model.Person, 0, len(governorStates))
		for _, state := range governorStates {
			per, err := fetchGovernor(ctx, a, state)
			if err != nil {
				return nil, err
			}
			roster.Persons = append(roster.Persons, per)
		}
		if err := storage.WriteFile(roster, path); err != nil {
			return nil, err
		}
	}

	a.Log.Info("governors roster", logging.Count("governor", len(roster.Persons)))

	if err := fetchGovernorAddresses(ctx, a, roster, path); err != nil {
		return nil, err
	}
	return roster, nil
}

// fetchGovernor scrapes a governor's name and website from the NGA page.
func fetchGovernor(ctx context.Context, a *app.App, state string) (model.Person, error) {
	url := fmt.Sprintf("https://www.nga.org/governors/%s/", state)
	body, err := a.Fetcher.Fetch(ctx, url)
	if err != nil {
		return model.Person{}, err
	}
	doc, err := parseDoc(body)
	if err != nil {
		return model.Person{}, err
	}

	var per model.Person
	per.Name = a.Parser.CleanName(doc.Find("h1.title").First().Text())
	if per.Name == "" {
		return per, fmt.Errorf("governor name is empty for %s", state)
	}

	// The website link may not exist.
	doc.Find("li.item a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if strings.ToUpper(strings.TrimSpace(link.Text())) == "GOVERNOR'S WEBSITE" {
			per.URL = strings.TrimSuffix(link.AttrOr("href", ""), "/")
			return false
		}
		return true
	})
	return per, nil
}

func fetchGovernorAddresses(ctx context.Context, a *app.App, roster *model.Roster, path string) error {
	for idx := range roster.Persons {
		per := &roster.Persons[idx]
		if per.Resolved() {
			continue
		}
		state := governorStates[idx]
		if state == "virgin-islands" {
			state = "u-s-virgin-islands"
		}
		url := fmt.Sprintf("https://www.usa.gov/states/%s", state)
		if state == "guam" {
			url = per.URL
		}
		a.Log.Info("resolving", logging.Person(per.Name, url)...)

		if adr, ok := governorFixedAdrs[state]; ok {
			per.Adrs = []model.Address{adr}
		} else {
			opt := parse.PipelineOpts{
				Rewrites: rewritesFor(a, governorRewrites, "governors", state),
			}
			adrs, err := fetchAddresses(ctx, a, url, governorSelectors, opt)
			if err != nil {
				return err
			}
			if len(adrs) > 0 {
				per.Adrs = adrs
			}
		}

		if !per.Resolved() {
			return &ResolutionError{Person: *per, URL: url}
		}

		if err := storage.WriteFile(roster, path); err != nil {
			return err
		}
	}
	return nil
}
