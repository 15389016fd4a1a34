package dataprocessing

import "regexp"

type datePattern struct {
	re     *regexp.Regexp
	format func(m []string) string
}

// Patterns are tried in order. Each match must not touch another digit so a
// full yyyy-mm-dd is never read as dd-mm-yy.
var filenameDatePatterns = []datePattern{
	{
		re:     regexp.MustCompile(`(?:^|\D)(\d{2})[-_](\d{2})[-_](\d{2})(?:\D|$)`),
		format: func(m []string) string { return "20" + m[3] + "-" + m[2] + "-" + m[1] },
	},
	{
		re:     regexp.MustCompile(`(?:^|\D)(\d{4})[-_](\d{2})[-_](\d{2})(?:\D|$)`),
		format: func(m []string) string { return m[1] + "-" + m[2] + "-" + m[3] },
	},
	{
		re:     regexp.MustCompile(`(?:^|\D)(\d{2})[-_](\d{2})[-_](\d{4})(?:\D|$)`),
		format: func(m []string) string { return m[3] + "-" + m[2] + "-" + m[1] },
	},
}

// ExtractDate returns the yyyy-mm-dd date embedded in a file name. Only
// digit widths are checked; "99-13-24" yields "2024-13-99".
func ExtractDate(fileName string) (string, bool) {
	for _, p := range filenameDatePatterns {
		if m := p.re.FindStringSubmatch(fileName); m != nil {
			return p.format(m), true
		}
	}
	return "", false
}
