package models

import (
	"strings"

	"github.com/Lumbe/lcrm-app/pkg/utils"
)

// Attributes is a bag of submitted record fields, as decoded from a form
// post (`lead[first_name]`) or a JSON body (`{"lead": {...}}`). Values are
// strings, []string, numbers, booleans or nested Attributes.
type Attributes map[string]interface{}

// Has reports whether key was submitted at all.
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// GetString returns key rendered as a string.
func (a Attributes) GetString(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	if list, isList := v.([]string); isList {
		if len(list) == 0 {
			return "", true
		}
		return list[0], true
	}
	return utils.ToString(v), true
}

// String returns key as a trimmed string, or "" when absent.
func (a Attributes) String(key string) string {
	s, _ := a.GetString(key)
	return strings.TrimSpace(s)
}

// GetStrings returns a list value, dropping blanks. Form posts send an
// empty element so that clearing every checkbox still submits the key.
func (a Attributes) GetStrings(key string) ([]string, bool) {
	v, ok := a[key]
	if !ok {
		return nil, false
	}

	var raw []string
	switch t := v.(type) {
	case []string:
		raw = t
	case []interface{}:
		for _, item := range t {
			raw = append(raw, utils.ToString(item))
		}
	case string:
		raw = strings.Split(t, ",")
	default:
		raw = []string{utils.ToString(t)}
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

// GetInt returns key as an int.
func (a Attributes) GetInt(key string) (int, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	return utils.ToInt(v)
}

// GetBool returns key as a bool.
func (a Attributes) GetBool(key string) (bool, bool) {
	v, ok := a[key]
	if !ok {
		return false, false
	}
	return utils.ToBool(v), true
}

// Map returns the nested attribute bag under key, or an empty one.
func (a Attributes) Map(key string) Attributes {
	switch t := a[key].(type) {
	case Attributes:
		return t
	case map[string]interface{}:
		return Attributes(t)
	}
	return Attributes{}
}

// optionalString maps blank values to nil.
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
