package api

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"
)

// ExportCSV streams the full submission list as a CSV attachment.
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	subs := h.svc.ListSubmissions()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="submissions_`+time.Now().UTC().Format("2006-01-02")+`.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "name", "surname", "email", "phone", "date", "status", "ip"})
	for _, s := range subs {
		_ = cw.Write([]string{
			strconv.FormatInt(s.ID, 10),
			s.Name,
			s.Surname,
			s.Email,
			s.Phone,
			s.Date.UTC().Format(time.RFC3339),
			string(s.Status),
			s.IP,
		})
	}
	cw.Flush()
}
