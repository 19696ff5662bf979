package roster

import (
	"context"

	"github.com/civicpost/internal/app"
	"github.com/civicpost/internal/logging"
	"github.com/civicpost/internal/model"
	"github.com/civicpost/internal/storage"
)

const executiveFile = "executive.json"

// LoadExecutive returns the executive-branch roster. The list is fixed:
// the offices publish stable mailing addresses with known ZIP+4 and
// delivery points, so nothing is scraped.
func LoadExecutive(_ context.Context, a *app.App) (*model.Roster, error) {
	path := a.StatePath(executiveFile)
	roster := &model.Roster{
		Name: "U.S. Executive Branch",
		Role: model.RolePolitical,
	}
	if storage.Exists(path) {
		if err := storage.ReadFile(roster, path); err != nil {
			return nil, err
		}
	} else {
		roster.Persons = executiveMembers()
		if err := storage.WriteFile(roster, path); err != nil {
			return nil, err
		}
	}

	a.Log.Info("executive roster", logging.Count("member", len(roster.Persons)))
	return roster, nil
}

func executiveMembers() []model.Person {
	return []model.Person{
		{
			Name:   "Joe Biden",
			Title1: "Office of the President",
			URL:    "https://www.whitehouse.gov",
			Adrs: []model.Address{{
				Address1:      "1600 PENNSYLVANIA AVENUE NW",
				City:          "WASHINGTON",
				State:         "DC",
				Zip5:          20500,
				Zip4:          5,
				DeliveryPoint: "00",
			}},
		},
		{
			Name:   "Kamala Harris",
			Title1: "Office of the Vice President",
			URL:    "https://www.whitehouse.gov",
			Adrs: []model.Address{{
				Address1:      "EEOB",
				City:          "WASHINGTON",
				State:         "DC",
				Zip5:          20501,
				Zip4:          1,
				DeliveryPoint: "99",
			}},
		},
		{
			Name:   "Antony Blinken",
			Title1: "Department of State",
			URL:    "https://www.state.gov",
			Adrs: []model.Address{{
				Address1:      "2201 C STREET NW",
				City:          "WASHINGTON",
				State:         "DC",
				Zip5:          20520,
				Zip4:          1,
				DeliveryPoint: "01",
			}},
		},
	}
}
