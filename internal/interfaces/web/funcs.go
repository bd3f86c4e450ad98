package web

import (
	htmltemplate "html/template"
	"slices"
	"strings"
	"time"

	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

func htmlFuncs() htmltemplate.FuncMap {
	return htmltemplate.FuncMap{
		"str":        models.StringValue,
		"label":      label,
		"date":       formatDate,
		"contains":   func(list []string, s string) bool { return slices.Contains(list, s) },
		"add":        func(a, b int) int { return a + b },
		"seq":        seq,
		"dict":       dict,
		"leadName":   leadName,
		"selected":   func(a, b string) bool { return a == b },
		"isShared":   func(access string) bool { return access == constants.AccessShared },
		"campaignOf": campaignOf,
	}
}

// label turns a stored value into a human readable one: "cold_call" => "Cold call"
func label(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// seq returns 1..n for pagination links
func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// dict builds a map from key/value pairs for passing several values to a partial
func dict(pairs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if key, ok := pairs[i].(string); ok {
			m[key] = pairs[i+1]
		}
	}
	return m
}

func leadName(l *models.Lead, naming string) string {
	if l == nil {
		return ""
	}
	return l.FullName(naming)
}

// campaignOf finds the campaign a lead points at among the loaded ones
func campaignOf(l *models.Lead, campaigns []*models.Campaign) *models.Campaign {
	if l == nil || l.CampaignID == nil {
		return nil
	}
	for _, c := range campaigns {
		if c.ID == *l.CampaignID {
			return c
		}
	}
	return nil
}
