// Package vercmp orders dotted numeric version strings.
//
// It is deliberately not a semver parser. Versions are split on '.', each
// segment is read as an unsigned integer (anything unparsable counts as 0),
// and the shorter side is padded with zeros. The ordering is only meaningful
// inside one namespace, such as the versions of a single release family or
// the loader versions returned by one metadata endpoint.
package vercmp

import (
	"strconv"
	"strings"
)

// Compare returns -1 if a < b, 0 if a == b and +1 if a > b.
func Compare(a, b string) int {
	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")

	n := max(len(pa), len(pb))
	for i := 0; i < n; i++ {
		av := segment(pa, i)
		bv := segment(pb, i)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}

	return 0
}

// segment returns the numeric value of parts[i], or 0 when the index is out of
// range or the segment is not a number.
func segment(parts []string, i int) uint64 {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.ParseUint(parts[i], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// IsFamily reports whether token names a release line ("1.21") rather than a
// concrete version ("1.21.11", "1.21-rc1"). A family is exactly two non-empty
// all-digit segments.
func IsFamily(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, "-") {
		return false
	}

	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return false
	}

	for _, p := range parts {
		if p == "" || !allDigits(p) {
			return false
		}
	}
	return true
}

// IsPrerelease reports whether v carries a pre-release marker.
func IsPrerelease(v string) bool {
	return strings.Contains(v, "-")
}

// Max returns the greatest version under Compare among the entries accepted
// by keep. A nil keep accepts everything. On ties the earliest entry wins so
// upstream ordering is preserved. The boolean is false when nothing was kept.
func Max(versions []string, keep func(string) bool) (string, bool) {
	best := ""
	found := false

	for _, v := range versions {
		if keep != nil && !keep(v) {
			continue
		}
		if !found || Compare(v, best) > 0 {
			best = v
			found = true
		}
	}

	return best, found
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
