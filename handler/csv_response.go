package handler

import (
	"encoding/csv"
	"mime"
	"net/http"
)

type csvResponse struct {
	filename string
	header   []string
	rows     [][]string
}

// CSV renders rows as a CSV attachment. header is written first when set.
// Values are written as given; callers neutralize spreadsheet formulas.
func CSV(filename string, header []string, rows [][]string) Response {
	return csvResponse{filename: filename, header: header, rows: rows}
}

func (c csvResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if c.filename != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": c.filename}))
	}
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	if len(c.header) > 0 {
		if err := cw.Write(c.header); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(c.rows); err != nil {
		return err
	}
	return cw.Error()
}
