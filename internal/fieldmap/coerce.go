package fieldmap

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
)

var (
	truthy = map[string]bool{"1": true, "true": true, "yes": true, "y": true, "oui": true, "on": true}
	falsy  = map[string]bool{"0": true, "false": true, "no": true, "n": true, "non": true, "off": true}
)

// ParseBool accepts a fixed set of truthy and falsy tokens. Anything else,
// including the empty string, yields nil.
func ParseBool(s string) *bool {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case truthy[v]:
		b := true
		return &b
	case falsy[v]:
		b := false
		return &b
	}
	return nil
}

// ParseInt reads the leading integer of s ("175 cm" gives 175). It returns
// nil when s does not start with a digit or sign followed by a digit.
func ParseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	n, digits := 0, 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		digits++
		if digits > 9 {
			return nil
		}
	}
	if digits == 0 {
		return nil
	}
	if neg {
		n = -n
	}
	return &n
}

// ArrayDelimiter separates list values in legacy meta.
const ArrayDelimiter = ","

// ParseArray splits s on ArrayDelimiter, trims each element and drops empty
// ones. It returns nil when nothing remains.
func ParseArray(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ArrayDelimiter) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseObject decodes a JSON object into a string map. Non-string values are
// rendered with fmt. Invalid JSON yields nil.
func ParseObject(s string) map[string]string {
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil || raw == nil {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}

// dateLayouts are tried in order before falling back to free-text extraction.
// WordPress stores user_registered as "2006-01-02 15:04:05" and ACF date
// pickers store "20060102".
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"20060102",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
	"2 January 2006",
	"January 2, 2006",
}

var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(common.All...)
	return w
}()

// ParseDate parses a legacy date string. It returns nil when no date can be
// recognised.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || s == "0000-00-00 00:00:00" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	// Free text such as "né le 15/03/1990 à Lyon".
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	r, err := dateParser.Parse(s, base)
	if err != nil || r == nil {
		return nil
	}
	t := time.Date(r.Time.Year(), r.Time.Month(), r.Time.Day(), 0, 0, 0, 0, time.UTC)
	return &t
}
