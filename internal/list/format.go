package list

import (
	"strings"
	"unicode/utf8"

	"productdesk/internal/validation"
)

// Initials returns the first two characters of name, upper-cased, for the
// logo placeholder.
func Initials(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > 2 {
		name = string([]rune(name)[:2])
	}
	return strings.ToUpper(name)
}

// FormatDate renders an ISO date as dd/mm/yyyy. Unparseable input is
// returned unchanged.
func FormatDate(iso string) string {
	t, err := validation.ParseDate(iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}
