package roster

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/civicpost/internal/app"
	"github.com/civicpost/internal/logging"
	"github.com/civicpost/internal/model"
	"github.com/civicpost/internal/parse"
	"github.com/civicpost/internal/storage"
)

const (
	militaryFile    = "military.json"
	militaryAdrFile = "military_adr.json"
)

// MilCenter identifies a military command with a shared mailing address.
type MilCenter string

const (
	ONI  MilCenter = "Oni"  // Office of Naval Intelligence
	USFF MilCenter = "Usff" // U.S. Fleet Forces Command
)

var milCenters = []MilCenter{ONI, USFF}

var milCenterURLs = map[MilCenter]string{
	ONI:  "https://www.oni.navy.mil/Contact-Us/",
	USFF: "https://www.usa.gov/agencies/u-s-fleet-forces-command",
}

var milSelectors = []string{"h6", "span", "body"}

var milRewrites = parse.RewriteTable{
	// Drop service suffixes from signature lines: "JANE DOE, USA".
	parse.RewriteKey("military", string(ONI)): {
		{Op: parse.OpTruncateAt, Match: ", USA"},
	},
}

const dodMailURL = "https://www.defense.gov/Contact/Mailing-Addresses/"

const oniBioURL = "https://www.oni.navy.mil/About/Biographies/"

var usffBioURLs = []string{
	"https://www.usff.navy.mil/Leadership/Biographies/Article/2375906/commander-usff/",
	"https://www.usff.navy.mil/Leadership/Biographies/Article/2728519/deputy-commander-usff/",
	"https://www.usff.navy.mil/Leadership/Biographies/Article/2728549/fleet-master-chief/",
}

// LoadMilitary returns the military leadership roster: the defense.gov
// mailing-address directory plus Navy intelligence and fleet commands.
func LoadMilitary(ctx context.Context, a *app.App) (*model.Roster, error) {
	path := a.StatePath(militaryFile)
	roster := &model.Roster{
		Name: "U.S. Department of Defense",
		Role: model.RoleMilitary,
	}
	if storage.Exists(path) {
		if err := storage.ReadFile(roster, path); err != nil {
			return nil, err
		}
		a.Log.Info("military roster", logging.Count("leader", len(roster.Persons)))
		return roster, nil
	}

	adrs, err := fetchMilCenterAdrs(ctx, a)
	if err != nil {
		return nil, err
	}

	if err := fetchDodMembers(ctx, a, roster); err != nil {
		return nil, err
	}
	if err := fetchOniMembers(ctx, a, roster, adrs); err != nil {
		return nil, err
	}
	if err := fetchUsffMembers(ctx, a, roster, adrs); err != nil {
		return nil, err
	}

	if err := storage.WriteFile(roster, path); err != nil {
		return nil, err
	}
	a.Log.Info("military roster", logging.Count("leader", len(roster.Persons)))
	return roster, nil
}

func fetchMilCenterAdrs(ctx context.Context, a *app.App) (map[MilCenter]model.Address, error) {
	path := a.StatePath(militaryAdrFile)
	if storage.Exists(path) {
		var adrs map[MilCenter]model.Address
		if err := storage.ReadFile(&adrs, path); err != nil {
			return nil, err
		}
		return adrs, nil
	}

	adrs := make(map[MilCenter]model.Address, len(milCenters))
	for _, ctr := range milCenters {
		url := milCenterURLs[ctr]
		a.Log.Info("resolving center", logging.Source(string(ctr)), logging.URL(url))
		opt := parse.PipelineOpts{
			Rewrites: rewritesFor(a, milRewrites, "military", string(ctr)),
		}
		found, err := fetchAddresses(ctx, a, url, milSelectors, opt)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			adrs[ctr] = found[0]
		}
	}

	if err := storage.WriteFile(adrs, path); err != nil {
		return nil, err
	}
	return adrs, nil
}

// fetchDodMembers parses the defense.gov mailing-address directory. Each
// entry is a block of name, office title and a single Washington, DC
// address line ending with the zip.
func fetchDodMembers(ctx context.Context, a *app.App, roster *model.Roster) error {
	body, err := a.Fetcher.Fetch(ctx, dodMailURL)
	if err != nil {
		return err
	}
	doc, err := parseDoc(body)
	if err != nil {
		return err
	}

	var ferr error
	doc.Find("div.address-each").EachWithBreak(func(_ int, block *goquery.Selection) bool {
		var lnes []string
		for _, s := range textFragments(block) {
			if a.Parser.Filter(s) {
				lnes = append(lnes, s)
			}
		}
		if len(lnes) < 3 {
			return true
		}

		per := model.Person{Name: a.Parser.CleanName(lnes[0])}
		per.Title1 = strings.ToUpper(lnes[1])
		// Titles carry either a slash-separated office or a comma form:
		// "SECRETARY, AIR FORCE" -> "SECRETARY OF THE AIR FORCE".
		if fnd := strings.Index(per.Title1, "/"); fnd >= 0 {
			per.Title1 = per.Title1[:fnd]
		} else if strings.Contains(per.Title1, ",") {
			per.Title1 = strings.ReplaceAll(per.Title1, ",", " OF THE")
		}
		if fnd := strings.Index(per.Title1, "OF DEFENSE "); fnd >= 0 {
			per.Title2 = strings.TrimSpace(per.Title1[fnd+11:])
			per.Title1 = per.Title1[:fnd+10]
		}
		if per.Name == "" {
			ferr = fmt.Errorf("name is empty in %s", dodMailURL)
			return false
		}
		if per.Title1 == "" {
			ferr = fmt.Errorf("title is empty for %s", per.Name)
			return false
		}

		adr, err := parseDodAddressLine(lnes[2])
		if err != nil {
			ferr = err
			return false
		}
		std, err := a.USPS.StandardizeAddresses(ctx, []model.Address{adr})
		if err != nil {
			ferr = err
			return false
		}
		per.Adrs = std
		roster.Persons = append(roster.Persons, per)
		return true
	})
	return ferr
}

// parseDodAddressLine splits a single-line Pentagon-style address:
// "1000 DEFENSE PENTAGON WASHINGTON, DC 20301-1000". The zip comes off
// the tail, then the city and state; every entry is in Washington, DC.
func parseDodAddressLine(lne string) (model.Address, error) {
	adr := model.Address{City: "WASHINGTON", State: "DC"}
	if len(lne) < 16 {
		return adr, fmt.Errorf("address line too short: %q", lne)
	}
	switch {
	case parse.IsZip10(lne[len(lne)-10:]):
		n5, _ := strconv.ParseUint(lne[len(lne)-10:len(lne)-5], 10, 32)
		n4, _ := strconv.ParseUint(lne[len(lne)-4:], 10, 16)
		adr.Zip5 = uint32(n5)
		adr.Zip4 = uint16(n4)
		lne = lne[:len(lne)-10]
	case parse.IsZip5(lne[len(lne)-5:]):
		n, _ := strconv.ParseUint(lne[len(lne)-5:], 10, 32)
		adr.Zip5 = uint32(n)
		lne = lne[:len(lne)-5]
	default:
		return adr, fmt.Errorf("no zip in address line %q", lne)
	}

	// Drop the trailing "WASHINGTON, DC" so only the street remains.
	if fnd := strings.LastIndex(lne, "WASHINGTON"); fnd >= 0 {
		lne = lne[:fnd]
	}
	lne = strings.TrimRight(lne, " ,")
	// A suite moves to the second line. The street part keeps a trailing
	// comma after the cut ("1400 DEFENSE PENTAGON,"); strip it here or
	// the last-segment trim below would wipe the street entirely.
	if fnd := strings.Index(lne, " STE "); fnd >= 0 {
		adr.Address2 = lne[fnd+1:]
		lne = strings.TrimRight(lne[:fnd], " ,")
	}
	// Keep only the last comma-separated segment.
	if fnd := strings.LastIndex(lne, ","); fnd >= 0 {
		lne = strings.TrimSpace(lne[fnd+1:])
	}
	adr.Address1 = lne
	return adr, nil
}

func fetchOniMembers(ctx context.Context, a *app.App, roster *model.Roster, adrs map[MilCenter]model.Address) error {
	body, err := a.Fetcher.Fetch(ctx, oniBioURL)
	if err != nil {
		return err
	}
	doc, err := parseDoc(body)
	if err != nil {
		return err
	}

	var ferr error
	doc.Find("div.BioWrap div.BioSenLead").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		link := row.Find("p a").First()
		if link.Length() == 0 {
			return true
		}
		fullName := link.Text()
		if before, _, ok := strings.Cut(fullName, "\n"); ok {
			fullName = before
		}
		if before, _, ok := strings.Cut(fullName, ","); ok {
			fullName = before
		}
		per := model.Person{
			Name: a.Parser.CleanName(fullName),
			Adrs: []model.Address{adrs[ONI]},
		}
		if per.Name == "" {
			ferr = fmt.Errorf("name is empty in %s", oniBioURL)
			return false
		}
		roster.Persons = append(roster.Persons, per)
		return true
	})
	return ferr
}

func fetchUsffMembers(ctx context.Context, a *app.App, roster *model.Roster, adrs map[MilCenter]model.Address) error {
	titleCaser := cases.Title(language.AmericanEnglish)
	for _, url := range usffBioURLs {
		body, err := a.Fetcher.Fetch(ctx, url)
		if err != nil {
			return err
		}
		doc, err := parseDoc(body)
		if err != nil {
			return err
		}

		title := doc.Find("h1.maintitle").First()
		if title.Length() == 0 {
			continue
		}
		fullName := title.Text()
		// Bio pages shout the fleet master chief's rank in the title.
		if strings.Contains(fullName, "FLEET MASTER CHIEF") {
			fullName = strings.ReplaceAll(fullName, "FLEET MASTER CHIEF", "")
			fullName = "FLTCM. " + titleCaser.String(strings.TrimSpace(fullName))
		}
		roster.Persons = append(roster.Persons, model.Person{
			Name: a.Parser.CleanName(fullName),
			Adrs: []model.Address{adrs[USFF]},
		})
	}
	return nil
}
