package roster

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/civicpost/internal/app"
	"github.com/civicpost/internal/logging"
	"github.com/civicpost/internal/model"
	"github.com/civicpost/internal/parse"
	"github.com/civicpost/internal/storage"
)

const (
	nasaFile    = "nasa.json"
	nasaAdrFile = "nasa_adr.json"
)

// NasaCenter identifies a NASA center or facility.
type NasaCenter string

const (
	Ames      NasaCenter = "Ames"
	Armstrong NasaCenter = "Armstrong"
	Glenn     NasaCenter = "Glenn"
	Goddard   NasaCenter = "Goddard" // Goddard Space Flight Center
	HQ        NasaCenter = "HQ"      // Headquarters
	Johnson   NasaCenter = "Johnson"
	JPL       NasaCenter = "Jpl" // Jet Propulsion Laboratory
	Kennedy   NasaCenter = "Kennedy"
	Langley   NasaCenter = "Langley"
	Marshall  NasaCenter = "Marshall"
	Safety    NasaCenter = "Safety" // Safety Center
)

var nasaCenters = []NasaCenter{
	Ames, Armstrong, Glenn, Goddard, HQ, Johnson, JPL, Kennedy, Langley,
	Marshall, Safety,
}

// nasaCenterURLs are the contact or directions pages carrying each
// center's postal address.
var nasaCenterURLs = map[NasaCenter]string{
	Ames:      "https://www.nasa.gov/ames-earth-science-contact-us/",
	Armstrong: "https://www.nasa.gov/armstrong/overview/",
	Glenn:     "https://www.grc.nasa.gov/WWW/K-12/directions.html",
	Goddard:   "https://www.nasa.gov/centers-and-facilities/goddard/driving-directions-to-the-goddard-visitor-center/",
	HQ:        "https://www.nasa.gov/contact/",
	Johnson:   "https://www.nasa.gov/johnson/center-operations-directorate/",
	JPL:       "https://www.jpl.nasa.gov/jpl-and-the-community/directions-and-maps",
	Kennedy:   "https://www.nasa.gov/kennedy-information/",
	Langley:   "https://www.nasa.gov/centers-and-facilities/langley/contacting-nasas-langley-research-center/",
	Marshall:  "https://www.nasa.gov/marshall/visit-marshall-space-flight-center/",
	Safety:    "https://www.nasa.gov/nasa-safety-center-overview/#contact",
}

var nasaSelectors = []string{"body"}

var nasaRewrites = parse.RewriteTable{
	parse.RewriteKey("nasa", string(HQ)): {
		{Op: parse.OpReplaceExact, Match: "300 E STREET SW, SUITE 5R30", With: "300 E STREET SW"},
	},
	parse.RewriteKey("nasa", string(Goddard)): {
		{Op: parse.OpRemoveLine, Match: "9432 GREENBELT ROAD", Count: 1},
	},
	parse.RewriteKey("nasa", string(Kennedy)): {
		{Op: parse.OpReplaceExact, Match: "JOHN F KENNEDY SPACE CENTER", With: "KENNEDY SPACE CENTER"},
	},
	parse.RewriteKey("nasa", string(JPL)): {
		{Op: parse.OpRemoveNext, Match: "STREET ADDRESS FOR USE", Count: 2},
	},
	parse.RewriteKey("nasa", string(Marshall)): {
		{Op: parse.OpReplaceLine, Match: "PO BOX", With: "MARSHALL SPACE FLIGHT CENTER"},
	},
	parse.RewriteKey("nasa", string(Langley)): {
		{Op: parse.OpReplaceContains, Match: "23681-2199", With: "23681"},
	},
}

// nasaCardPage describes a leadership page laid out as card grids with an
// optional section-header filter.
type nasaCardPage struct {
	url      string
	center   NasaCenter
	tableSel string
	rowSel   string
	nameSel  string
	hdrSel   string
	// keepHdrs restricts to the named sections; empty keeps all.
	keepHdrs []string
	// dropHdrs skips the named sections.
	dropHdrs []string
	// trimComma cuts the name at the first comma; the Johnson cards
	// append the title after one.
	trimComma bool
}

var nasaCardPages = []nasaCardPage{
	{
		url:      "https://www.nasa.gov/organization",
		center:   HQ,
		tableSel: "table", rowSel: "tr", nameSel: "td:nth-of-type(1)",
		hdrSel:   "h1.wp-block-heading",
		dropHdrs: []string{"CENTERS AND FACILITIES"},
	},
	{
		url:      "https://www.nasa.gov/directorates/armd/aeronautics-leadership/",
		center:   HQ,
		tableSel: "div.hds-card-grid", rowSel: "div.hds-card-inner", nameSel: "h3",
		hdrSel:   "h2.section-heading-sm",
		keepHdrs: []string{"OFFICE OF THE ASSOCIATE ADMINISTRATOR", "OFFICES"},
	},
	{
		url:      "https://www.nasa.gov/exploration-systems-development-mission-directorate/",
		center:   HQ,
		tableSel: "div.hds-card-grid", rowSel: "div.hds-card-inner", nameSel: "h3",
		hdrSel:   "h2.section-heading-sm",
		keepHdrs: []string{"ESDMD LEADERSHIP", "MOON TO MARS PROGRAM OFFICE"},
	},
	{
		url:      "https://www.nasa.gov/about-stmd/",
		center:   HQ,
		tableSel: "div.hds-card-grid", rowSel: "div.hds-card-inner", nameSel: "h3",
		hdrSel:   "h2.section-heading-sm",
	},
	{
		url:      "https://www.nasa.gov/directorates/space-operations/",
		center:   HQ,
		tableSel: "div.hds-card-grid", rowSel: "div.hds-card-inner", nameSel: "h3",
		hdrSel:   "h2.section-heading-sm",
		keepHdrs: []string{"SPACE OPERATIONS LEADERSHIP"},
	},
	{
		url:      "https://www.nasa.gov/ames/science/management-support/",
		center:   Ames,
		tableSel: "div.hds-card-custom", rowSel: "div.hds-card-inner", nameSel: "h3",
	},
	{
		url:      "https://www.nasa.gov/about-glenn-research-center/nasa-glenn-leadership/",
		center:   Glenn,
		tableSel: "div.hds-card-custom", rowSel: "div.hds-card-inner", nameSel: "h3",
	},
	{
		url:      "https://www.nasa.gov/johnson/#leadership",
		center:   Johnson,
		tableSel: "div.hds-card-grid", rowSel: "div.hds-card-inner", nameSel: "h3",
		hdrSel:    "h2.section-heading-sm",
		keepHdrs:  []string{"JOHNSON LEADERSHIP"},
		trimComma: true,
	},
}

// nasaAnchorPages list leadership as plain anchor lists.
var nasaAnchorPages = []struct {
	url      string
	center   NasaCenter
	skipText string
}{
	{
		url:      "https://www.nasa.gov/ames/ames-leadership-organizations/",
		center:   Ames,
		skipText: "Ames Research Center",
	},
	{
		url:    "https://www.nasa.gov/goddard/about/#leadership",
		center: Goddard,
	},
}

// nasaStaffPages are the Ames science staff rosters.
var nasaStaffPages = []string{
	"https://www.nasa.gov/ames/space-biosciences/bioengineering-branch/scb-staff/",
	"https://www.nasa.gov/ames/space-biosciences/flight-systems-implementation/scf-staff/",
	"https://www.nasa.gov/ames/space-biosciences/space-biosciences-research-branch-staff/",
	"https://www.nasa.gov/earth-science-at-ames/who-we-are/members-sg/",
	"https://www.nasa.gov/earth-science-at-ames/who-we-are/members-sge/",
	"https://www.nasa.gov/earth-science-at-ames/who-we-are/members-sgg/",
	"https://www.nasa.gov/earth-science-project-office-espo/",
	"https://www.nasa.gov/earth-science-at-ames/who-we-are/members-asp/",
	"https://www.nasa.gov/space-science-and-astrobiology-at-ames/who-we-are/members-sta/",
	"https://www.nasa.gov/space-science-and-astrobiology-at-ames/who-we-are/members-stt/",
	"https://www.nasa.gov/space-science-and-astrobiology-at-ames/who-we-are/members-stx/",
}

// LoadNasa returns the scientific leadership roster. Center addresses
// resolve once into nasa_adr.json; every scraped leader binds to their
// center's address.
func LoadNasa(ctx context.Context, a *app.App) (*model.Roster, error) {
	path := a.StatePath(nasaFile)
	roster := &model.Roster{
		Name: "Scientific leaders",
		Role: model.RoleScientific,
	}
	if storage.Exists(path) {
		if err := storage.ReadFile(roster, path); err != nil {
			return nil, err
		}
		a.Log.Info("nasa roster", logging.Count("leader", len(roster.Persons)))
		return roster, nil
	}

	adrs, err := fetchNasaCenterAdrs(ctx, a)
	if err != nil {
		return nil, err
	}

	for _, page := range nasaCardPages {
		pers, err := fetchNasaCardMembers(ctx, a, page, adrs)
		if err != nil {
			return nil, err
		}
		roster.Persons = append(roster.Persons, pers...)
	}
	for _, page := range nasaAnchorPages {
		pers, err := fetchNasaAnchorMembers(ctx, a, page.url, page.center, page.skipText, adrs)
		if err != nil {
			return nil, err
		}
		roster.Persons = append(roster.Persons, pers...)
	}
	for _, url := range nasaStaffPages {
		pers, err := fetchNasaStaffMembers(ctx, a, url, adrs)
		if err != nil {
			return nil, err
		}
		roster.Persons = append(roster.Persons, pers...)
	}
	for _, page := range nasaArmstrongPages {
		pers, err := fetchNasaArmstrongMembers(ctx, a, page, adrs)
		if err != nil {
			return nil, err
		}
		roster.Persons = append(roster.Persons, pers...)
	}

	roster.Persons = dedupConsecutive(roster.Persons)

	if err := storage.WriteFile(roster, path); err != nil {
		return nil, err
	}
	a.Log.Info("nasa roster", logging.Count("leader", len(roster.Persons)))
	return roster, nil
}

var nasaArmstrongPages = []string{
	"https://www.nasa.gov/armstrong/people/leadership-organizations/#center-director",
}

// fetchNasaCenterAdrs resolves each center's postal address once and
// persists the map. The second address line is cleared: center names
// match the address1 pattern ("...CENTER") and the standardizer keeps
// campus annotations there.
func fetchNasaCenterAdrs(ctx context.Context, a *app.App) (map[NasaCenter]model.Address, error) {
	path := a.StatePath(nasaAdrFile)
	if storage.Exists(path) {
		var adrs map[NasaCenter]model.Address
		if err := storage.ReadFile(&adrs, path); err != nil {
			return nil, err
		}
		return adrs, nil
	}

	adrs := make(map[NasaCenter]model.Address, len(nasaCenters))
	for _, ctr := range nasaCenters {
		url := nasaCenterURLs[ctr]
		if url == "" {
			continue
		}
		a.Log.Info("resolving center", logging.Source(string(ctr)), logging.URL(url))
		opt := parse.PipelineOpts{
			Rewrites: rewritesFor(a, nasaRewrites, "nasa", string(ctr)),
		}
		found, err := fetchAddresses(ctx, a, url, nasaSelectors, opt)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			continue
		}
		adr := found[0]
		adr.Address2 = ""
		adrs[ctr] = adr
	}

	if err := storage.WriteFile(adrs, path); err != nil {
		return nil, err
	}
	return adrs, nil
}

func fetchNasaCardMembers(ctx context.Context, a *app.App, page nasaCardPage, adrs map[NasaCenter]model.Address) ([]model.Person, error) {
	body, err := a.Fetcher.Fetch(ctx, page.url)
	if err != nil {
		return nil, err
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	var hdrs []string
	if page.hdrSel != "" {
		doc.Find(page.hdrSel).Each(func(_ int, sel *goquery.Selection) {
			hdrs = append(hdrs, strings.ToUpper(strings.TrimSpace(sel.Text())))
		})
	}

	keep := func(idx int) bool {
		if page.hdrSel == "" || idx >= len(hdrs) {
			return true
		}
		hdr := hdrs[idx]
		for _, drop := range page.dropHdrs {
			if hdr == drop {
				return false
			}
		}
		if len(page.keepHdrs) == 0 {
			return true
		}
		for _, k := range page.keepHdrs {
			if hdr == k {
				return true
			}
		}
		return false
	}

	var persons []model.Person
	doc.Find(page.tableSel).Each(func(tblIdx int, tbl *goquery.Selection) {
		if !keep(tblIdx) {
			return
		}
		tbl.Find(page.rowSel).Each(func(_ int, row *goquery.Selection) {
			cell := row.Find(page.nameSel).First()
			if cell.Length() == 0 {
				return
			}
			fullName := cell.Text()
			if strings.Contains(fullName, "(Vacant)") {
				return
			}
			if page.trimComma {
				if before, _, ok := strings.Cut(fullName, ","); ok {
					fullName = before
				}
			}
			name := a.Parser.CleanName(fullName)
			if name == "" {
				return
			}
			persons = append(persons, model.Person{
				Name: name,
				Adrs: []model.Address{adrs[page.center]},
			})
		})
	})
	return persons, nil
}

func fetchNasaAnchorMembers(ctx context.Context, a *app.App, url string, ctr NasaCenter, skipText string, adrs map[NasaCenter]model.Address) ([]model.Person, error) {
	body, err := a.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	var persons []model.Person
	doc.Find("div.hds-meet-the-content a").Each(func(_ int, link *goquery.Selection) {
		fullName := strings.TrimSpace(link.Text())
		if skipText != "" && fullName == skipText {
			return
		}
		name := a.Parser.CleanName(fullName)
		if name == "" {
			return
		}
		persons = append(persons, model.Person{
			Name: name,
			Adrs: []model.Address{adrs[ctr]},
		})
	})
	return persons, nil
}

func fetchNasaStaffMembers(ctx context.Context, a *app.App, url string, adrs map[NasaCenter]model.Address) ([]model.Person, error) {
	body, err := a.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	var persons []model.Person
	doc.Find("div.grid-container div.grid-col-12").Each(func(_ int, row *goquery.Selection) {
		cell := row.Find("h2").First()
		if cell.Length() == 0 {
			return
		}
		name := a.Parser.CleanName(cell.Text())
		if name == "" {
			return
		}
		persons = append(persons, model.Person{
			Name: name,
			Adrs: []model.Address{adrs[Ames]},
		})
	})
	return persons, nil
}

// fetchNasaArmstrongMembers reads the Armstrong leadership page, where
// each leader is a paragraph with a bold title ending in ':' followed by
// a linked name.
func fetchNasaArmstrongMembers(ctx context.Context, a *app.App, url string, adrs map[NasaCenter]model.Address) ([]model.Person, error) {
	body, err := a.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := parseDoc(body)
	if err != nil {
		return nil, err
	}

	var persons []model.Person
	doc.Find("p").Each(func(_ int, par *goquery.Selection) {
		title := strings.TrimSpace(par.Find("strong").First().Text())
		if !strings.HasSuffix(title, ":") {
			return
		}
		name := a.Parser.CleanName(par.Find("a").First().Text())
		if name == "" {
			return
		}
		persons = append(persons, model.Person{
			Name: name,
			Adrs: []model.Address{adrs[Armstrong]},
		})
	})
	return persons, nil
}

// dedupConsecutive removes adjacent duplicate persons by name, matching
// pages that repeat a leader in consecutive sections.
func dedupConsecutive(persons []model.Person) []model.Person {
	out := persons[:0]
	for i, per := range persons {
		if i == 0 || per.Name != persons[i-1].Name {
			out = append(out, per)
		}
	}
	return out
}
