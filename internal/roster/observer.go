package roster

import (
	"context"
	"os"

	"github.com/civicpost/internal/app"
	"github.com/civicpost/internal/logging"
	"github.com/civicpost/internal/model"
	"github.com/civicpost/internal/storage"
)

const observerFile = "observer.json"

// LoadObserver returns the read-only observer roster. The file is
// maintained by hand; a missing file is an empty roster, never an error.
func LoadObserver(_ context.Context, a *app.App) (*model.Roster, error) {
	path := a.StatePath(observerFile)
	roster := &model.Roster{
		Name: "Non-officials",
		Role: model.RoleObserver,
	}
	if !storage.Exists(path) {
		return roster, nil
	}
	if err := storage.ReadFile(roster, path); err != nil {
		if os.IsNotExist(err) {
			return roster, nil
		}
		return nil, err
	}
	a.Log.Info("observer roster", logging.Count("observer", len(roster.Persons)))
	return roster, nil
}
