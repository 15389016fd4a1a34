package dataprocessing

import (
	"regexp"
	"strconv"
)

var (
	hoursRe   = regexp.MustCompile(`(\d+)\s*h`)
	minutesRe = regexp.MustCompile(`(\d+)\s*m`)
	secondsRe = regexp.MustCompile(`(\d+)\s*s`)
)

// ParseDuration reads connection times such as "1h 5m 3s" or "1 h 12 min"
// and returns whole minutes. A seconds-only value counts as one minute from
// 30 seconds up. ok is false when nothing in s looks like a duration.
func ParseDuration(s string) (minutes int, ok bool) {
	h := hoursRe.FindStringSubmatch(s)
	m := minutesRe.FindStringSubmatch(s)
	if h != nil {
		minutes += atoi(h[1]) * 60
	}
	if m != nil {
		minutes += atoi(m[1])
	}
	if h != nil || m != nil {
		return minutes, true
	}

	if sec := secondsRe.FindStringSubmatch(s); sec != nil {
		if atoi(sec[1]) >= 30 {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
