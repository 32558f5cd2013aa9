package service

import (
	"crypto/rand"
	"io"
	"math/big"
	"strings"

	"github.com/xuri/excelize/v2"
)

// sheetRow one non-blank data row keyed by canonical column name
type sheetRow struct {
	Row    int // 1-based, the header is row 1
	Fields map[string]string
}

// readSheet reads the first worksheet. aliases maps each canonical column to
// the header spellings accepted for it; every column in required must appear.
func readSheet(r io.Reader, aliases map[string][]string, required ...string) ([]sheetRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrImportUnreadable.Wrap(err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, ErrImportUnreadable.Wrap(err)
	}
	if len(rows) < 2 {
		return nil, ErrImportNoData
	}

	colIndex := parseHeaderIndex(rows[0], aliases)
	for _, col := range required {
		if colIndex[col] < 0 {
			return nil, ErrImportBadHeader.With("missing_column", col)
		}
	}

	var out []sheetRow
	for i := 1; i < len(rows); i++ {
		item := sheetRow{Row: i + 1, Fields: make(map[string]string, len(colIndex))}
		blank := true
		for col, idx := range colIndex {
			if idx < 0 || idx >= len(rows[i]) {
				continue
			}
			v := strings.TrimSpace(rows[i][idx])
			item.Fields[col] = v
			if v != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		out = append(out, item)
	}

	if len(out) == 0 {
		return nil, ErrImportNoData
	}
	if len(out) > maxImportRows {
		return nil, ErrImportTooManyRows.With("max_rows", maxImportRows)
	}
	return out, nil
}

// parseHeaderIndex canonical column -> header position, -1 when absent
func parseHeaderIndex(header []string, aliases map[string][]string) map[string]int {
	idx := make(map[string]int, len(aliases))
	for col := range aliases {
		idx[col] = -1
	}
	for i, h := range header {
		norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		for col, names := range aliases {
			if idx[col] >= 0 {
				continue
			}
			for _, name := range names {
				if norm == name {
					idx[col] = i
				}
			}
		}
	}
	return idx
}

// generateTempPassword random password with at least one letter and one digit
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 4 {
		length = 8
	}

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	result := make([]byte, length)
	var err error
	if result[0], err = pick(letters); err != nil {
		return "", err
	}
	if result[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if result[i], err = pick(all); err != nil {
			return "", err
		}
	}

	// Fisher-Yates
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}
	return string(result), nil
}
