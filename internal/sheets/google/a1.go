package google

import (
	"fmt"
	"strconv"
	"strings"

	gsheet "google.golang.org/api/sheets/v4"
)

// columnLetter converts a zero-based column index to its A1 letter.
// Two letters cover every column this sink ever addresses.
func columnLetter(index int) (string, error) {
	if index < 0 {
		return "", fmt.Errorf("negative column index %d", index)
	}
	if index < 26 {
		return string(rune('A' + index)), nil
	}
	if index < 26*27 {
		return string(rune('A'+index/26-1)) + string(rune('A'+index%26)), nil
	}
	return "", fmt.Errorf("column index %d out of range", index)
}

// a1ToGridRange converts a single-cell A1 reference ("B12") into the
// GridRange the formatting API expects.
func a1ToGridRange(sheetID int64, location string) (*gsheet.GridRange, error) {
	location = strings.ToUpper(strings.TrimSpace(location))
	split := 0
	for split < len(location) && location[split] >= 'A' && location[split] <= 'Z' {
		split++
	}
	if split == 0 || split == len(location) {
		return nil, fmt.Errorf("invalid cell reference %q", location)
	}
	col := 0
	for _, r := range location[:split] {
		col = col*26 + int(r-'A') + 1
	}
	row, err := strconv.Atoi(location[split:])
	if err != nil || row < 1 {
		return nil, fmt.Errorf("invalid cell reference %q", location)
	}
	return &gsheet.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    int64(row - 1),
		EndRowIndex:      int64(row),
		StartColumnIndex: int64(col - 1),
		EndColumnIndex:   int64(col),
	}, nil
}
