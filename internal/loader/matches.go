package loader

import (
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/ikwf-tools/seedline/internal/classify"
	"github.com/ikwf-tools/seedline/internal/model"
)

func readCSV[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read %s", path)
	}
	var rows []T
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, eris.Wrapf(err, "loader: parse %s", path)
	}
	return rows, nil
}

func writeCSV[T any](path string, rows []T) error {
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrapf(err, "loader: marshal %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "loader: write %s", path)
	}
	return nil
}

// ReadMatchesV1 reads raw match records, backfilling any missing result type
// from the free-text result via the season rule table and validating the
// enum fields.
func ReadMatchesV1(path string, results *classify.ResultTypeClassifier) ([]model.MatchV1, error) {
	matches, err := readCSV[model.MatchV1](path)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		match := &matches[i]
		if !match.Source.Valid() {
			return nil, eris.Errorf("loader: %s row %d has unknown source %q", path, i+1, string(match.Source))
		}
		if match.Division != nil && !match.Division.Valid() {
			return nil, eris.Errorf("loader: %s row %d has unknown division %q", path, i+1, string(*match.Division))
		}
		if match.ResultType == "" {
			resultType, err := results.Classify(match.Result)
			if err != nil {
				return nil, eris.Wrapf(err, "loader: %s row %d", path, i+1)
			}
			match.ResultType = resultType
		}
	}
	return matches, nil
}

// ReadMatchesV2 reads team-resolved match records.
func ReadMatchesV2(path string) ([]model.MatchV2, error) {
	return readCSV[model.MatchV2](path)
}

// WriteMatchesV2 writes team-resolved match records.
func WriteMatchesV2(path string, matches []model.MatchV2) error {
	return writeCSV(path, matches)
}

// ReadMatchesV3 reads athlete-resolved match records.
func ReadMatchesV3(path string) ([]model.MatchV3, error) {
	return readCSV[model.MatchV3](path)
}

// WriteMatchesV3 writes athlete-resolved match records.
func WriteMatchesV3(path string, matches []model.MatchV3) error {
	return writeCSV(path, matches)
}

// ReadMatchesV4 reads weight-enriched match records.
func ReadMatchesV4(path string) ([]model.MatchV4, error) {
	return readCSV[model.MatchV4](path)
}

// WriteMatchesV4 writes weight-enriched match records.
func WriteMatchesV4(path string, matches []model.MatchV4) error {
	return writeCSV(path, matches)
}
