package models

import (
	"encoding/xml"
	"strings"
	"time"
)

// Campaign groups leads and opportunities. LeadsCount mirrors the number of
// leads pointing at it.
type Campaign struct {
	XMLName            xml.Name  `json:"-" xml:"campaign"`
	ID                 string    `json:"id" xml:"id"`
	UserID             string    `json:"user_id" xml:"user-id"`
	AssignedTo         *string   `json:"assigned_to" xml:"assigned-to,omitempty"`
	Name               string    `json:"name" xml:"name"`
	Access             string    `json:"access" xml:"access"`
	Status             string    `json:"status" xml:"status"`
	LeadsCount         int       `json:"leads_count" xml:"leads-count"`
	OpportunitiesCount int       `json:"opportunities_count" xml:"opportunities-count"`
	CreatedAt          time.Time `json:"created_at" xml:"created-at"`
	UpdatedAt          time.Time `json:"updated_at" xml:"updated-at"`

	UserIDs []string `json:"user_ids,omitempty" xml:"-"`
}

// Assign copies submitted attributes onto the campaign
func (c *Campaign) Assign(attrs Attributes) {
	if v, ok := attrs.GetString("name"); ok {
		c.Name = strings.TrimSpace(v)
	}
	if v, ok := attrs.GetString("access"); ok {
		c.Access = strings.TrimSpace(v)
	}
	if v, ok := attrs.GetString("status"); ok {
		c.Status = strings.TrimSpace(v)
	}
	if attrs.Has("assigned_to") {
		c.AssignedTo = optionalString(attrs.String("assigned_to"))
	}
	if ids, ok := attrs.GetStrings("user_ids"); ok {
		c.UserIDs = ids
	}
}
