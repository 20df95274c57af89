package certificate

import "strings"

// ExportSummaryText renders a short plain-text record of an issued certificate,
// one field per line, in a stable order.
func ExportSummaryText(r Request, fileName string) string {
	lines := []string{"# " + r.ID}
	lines = append(lines, "name: "+r.FullName())
	lines = append(lines, "email: "+r.Email)
	lines = append(lines, "phone: "+r.Phone)
	lines = append(lines, "issued: "+FormatDate(r.IssuedAt))
	lines = append(lines, "valid_until: "+FormatDate(r.ValidUntil()))
	if fileName != "" {
		lines = append(lines, "file: "+fileName)
	}
	return strings.Join(lines, "\n")
}
