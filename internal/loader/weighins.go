package loader

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/ikwf-tools/seedline/internal/model"
	"github.com/ikwf-tools/seedline/internal/pipeline"
)

// LoadWeighIns reads every per-event weight-results CSV in dir. The file
// base name (without extension) is the event name; files load concurrently
// and the result is ordered by event name for determinism.
func LoadWeighIns(ctx context.Context, dir string) ([]pipeline.EventWeighIns, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read weigh-in dir %s", dir)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	results := make([]pipeline.EventWeighIns, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			records, err := readCSV[model.AthleteWeight](path)
			if err != nil {
				return err
			}
			event := strings.TrimSuffix(filepath.Base(path), ".csv")
			results[i] = pipeline.EventWeighIns{Event: event, Records: records}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Event < results[j].Event })
	return results, nil
}
