package roster

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/youruser/certgate/internal/form"
)

// Entry is one row of a roster: the form values plus an optional photo path.
type Entry struct {
	Line      int
	Values    map[string]string
	PhotoPath string
}

// Photo reads the entry's photo, if any.
func (e Entry) Photo() ([]byte, error) {
	if e.PhotoPath == "" {
		return nil, nil
	}
	return os.ReadFile(e.PhotoPath)
}

// LoadRequests reads a roster CSV. Columns are matched by header name
// (firstName, lastName, email, phone, photo) so their order is free and
// missing ones read as empty. Photo paths are relative to the CSV file.
func LoadRequests(path string) ([]Entry, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("roster %s has no header", path)
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	base := filepath.Dir(path)
	out := []Entry{}
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		e := Entry{
			Line: i + 2,
			Values: map[string]string{
				form.FirstName: get(row, form.FirstName),
				form.LastName:  get(row, form.LastName),
				form.Email:     get(row, form.Email),
				form.Phone:     get(row, form.Phone),
			},
		}
		if p := get(row, form.Photo); p != "" {
			if !filepath.IsAbs(p) {
				p = filepath.Join(base, p)
			}
			e.PhotoPath = p
		}
		out = append(out, e)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
