package seeding

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/ikwf-tools/seedline/internal/model"
)

// maxSheetNameLen is the xlsx format's hard limit on sheet names.
const maxSheetNameLen = 31

// divisionOrder fixes the sheet ordering in the workbook.
var divisionOrder = map[model.Division]int{}

func init() {
	for i, division := range model.AllDivisions {
		divisionOrder[division] = i
	}
}

// WriteWorkbook renders one sheet per weight class into an xlsx workbook at
// path. Sheet names are "{Division} {weight}"; a name over 31 characters is
// a hard error because the format silently truncates otherwise.
func WriteWorkbook(path string, classes []*WeightClass) error {
	ordered := make([]*WeightClass, len(classes))
	copy(ordered, classes)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Key.Division != ordered[j].Key.Division {
			return divisionOrder[ordered[i].Key.Division] < divisionOrder[ordered[j].Key.Division]
		}
		return ordered[i].Key.Weight < ordered[j].Key.Weight
	})

	file := xlsx.NewFile()
	for _, class := range ordered {
		if err := addSheet(file, class); err != nil {
			return err
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "seeding: save workbook %s", path)
	}
	return nil
}

func addSheet(file *xlsx.File, class *WeightClass) error {
	name, err := class.Key.Display()
	if err != nil {
		return err
	}
	if len(name) > maxSheetNameLen {
		return eris.Errorf("seeding: sheet name %q exceeds %d characters", name, maxSheetNameLen)
	}

	sheet, err := file.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "seeding: add sheet %q", name)
	}

	header := sheet.AddRow()
	for _, label := range []string{
		"Seed", "Athlete", "Club", "Wins", "Losses", "Score",
		"Last Weigh-In", "Last Weight", "Projected Weight",
	} {
		header.AddCell().SetString(label)
	}

	for i, entry := range class.Seeded() {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		row.AddCell().SetString(entry.Athlete.Name)
		row.AddCell().SetString(entry.Club)
		row.AddCell().SetInt(entry.Wins)
		row.AddCell().SetInt(entry.Losses)
		row.AddCell().SetFloatWithFormat(entry.AdjustedScore(), "0.000")
		if entry.Projection != nil {
			row.AddCell().SetString(entry.Projection.MostRecentDate.Format("2006-01-02"))
			row.AddCell().SetFloat(entry.Projection.MostRecentWeight)
			row.AddCell().SetFloatWithFormat(entry.Projection.ProjectedWeight, "0.0")
		} else {
			row.AddCell().SetString("")
			row.AddCell().SetString("")
			row.AddCell().SetString("")
		}
	}

	if len(class.HeadToHead) > 0 {
		sheet.AddRow()
		title := sheet.AddRow()
		title.AddCell().SetString("Head to Head")

		h2hHeader := sheet.AddRow()
		for _, label := range []string{"Date", "Event", "Round", "Winner", "Loser", "Result"} {
			h2hHeader.AddCell().SetString(label)
		}

		for _, match := range class.HeadToHead {
			row := sheet.AddRow()
			row.AddCell().SetString(match.EventDate.Format("2006-01-02"))
			row.AddCell().SetString(match.EventName)
			row.AddCell().SetString(match.Round)
			row.AddCell().SetString(sideLabel(match.WinnerNormalized, match.Winner))
			row.AddCell().SetString(sideLabel(match.LoserNormalized, match.Loser))
			row.AddCell().SetString(fmt.Sprintf("%s (%s)", match.Result, match.ResultType))
		}
	}

	return nil
}

func sideLabel(normalized *string, raw string) string {
	if normalized != nil {
		return *normalized
	}
	return raw
}
