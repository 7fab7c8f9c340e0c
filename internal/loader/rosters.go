package loader

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/ikwf-tools/seedline/internal/model"
)

// LoadRosters reads the roster snapshot: a JSON array of clubs, each with
// its sectional and athletes. The snapshot is produced by the roster
// ingestion collaborator and is read-only here.
func LoadRosters(path string) ([]model.Club, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read rosters %s", path)
	}

	var clubs []model.Club
	if err := json.Unmarshal(data, &clubs); err != nil {
		return nil, eris.Wrapf(err, "loader: parse rosters %s", path)
	}

	seen := make(map[string]struct{}, len(clubs))
	for _, club := range clubs {
		if err := club.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[club.ClubName]; ok {
			return nil, eris.Errorf("loader: duplicate club %q in roster snapshot", club.ClubName)
		}
		seen[club.ClubName] = struct{}{}
	}
	return clubs, nil
}
