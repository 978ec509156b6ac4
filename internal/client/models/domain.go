package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ExpiringSoonWindow is how far ahead a domain expiry is flagged.
const ExpiringSoonWindow = 15 * 24 * time.Hour

// Domain is a registrar record. The backend returns a loose set of columns,
// so the raw object is kept and well-known fields are read through helpers.
type Domain map[string]any

var hiddenDomainKeys = map[string]struct{}{
	"securitylock": {}, "whoisprivacy": {}, "notlocal": {}, "created": {}, "__v": {},
}

func (d Domain) String(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Name returns the domain name from "domain" or "name".
func (d Domain) Name() string {
	if s := d.String("domain"); s != "" {
		return s
	}
	return d.String("name")
}

// ExpireDate parses "expireDate" (or "expire"). ok is false when absent or
// unparseable.
func (d Domain) ExpireDate() (t time.Time, ok bool) {
	raw := d.String("expireDate")
	if raw == "" {
		raw = d.String("expire")
	}
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ExpiringSoon reports whether the domain expires within ExpiringSoonWindow
// of now. Already-expired domains are not "expiring soon".
func (d Domain) ExpiringSoon(now time.Time) bool {
	exp, ok := d.ExpireDate()
	if !ok {
		return false
	}
	left := exp.Sub(now)
	return left >= 0 && left <= ExpiringSoonWindow
}

// Expired reports whether the expiry date is in the past.
func (d Domain) Expired(now time.Time) bool {
	exp, ok := d.ExpireDate()
	return ok && exp.Before(now)
}

// Columns returns the sorted union of displayable keys across domains.
func Columns(domains []Domain) []string {
	seen := map[string]struct{}{}
	for _, d := range domains {
		for k := range d {
			if _, hidden := hiddenDomainKeys[strings.ToLower(k)]; hidden {
				continue
			}
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
