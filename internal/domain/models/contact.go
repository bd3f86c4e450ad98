package models

import (
	"encoding/xml"
	"strings"
	"time"
)

// Contact is a person at an account, usually created by promoting a lead
type Contact struct {
	XMLName        xml.Name  `json:"-" xml:"contact"`
	ID             string    `json:"id" xml:"id"`
	UserID         string    `json:"user_id" xml:"user-id"`
	LeadID         *string   `json:"lead_id" xml:"lead-id,omitempty"`
	AccountID      *string   `json:"account_id" xml:"account-id,omitempty"`
	AssignedTo     *string   `json:"assigned_to" xml:"assigned-to,omitempty"`
	FirstName      string    `json:"first_name" xml:"first-name"`
	LastName       string    `json:"last_name" xml:"last-name"`
	Access         string    `json:"access" xml:"access"`
	Title          string    `json:"title" xml:"title"`
	Department     string    `json:"department" xml:"department"`
	Source         string    `json:"source" xml:"source"`
	Email          string    `json:"email" xml:"email"`
	AltEmail       string    `json:"alt_email" xml:"alt-email"`
	Phone          string    `json:"phone" xml:"phone"`
	Mobile         string    `json:"mobile" xml:"mobile"`
	Blog           string    `json:"blog" xml:"blog"`
	LinkedIn       string    `json:"linkedin" xml:"linkedin"`
	Facebook       string    `json:"facebook" xml:"facebook"`
	Twitter        string    `json:"twitter" xml:"twitter"`
	DoNotCall      bool      `json:"do_not_call" xml:"do-not-call"`
	BackgroundInfo string    `json:"background_info" xml:"background-info"`
	CreatedAt      time.Time `json:"created_at" xml:"created-at"`
	UpdatedAt      time.Time `json:"updated_at" xml:"updated-at"`

	UserIDs []string `json:"user_ids,omitempty" xml:"-"`
}

// NewContactFromLead copies the personal fields of a lead
func NewContactFromLead(lead *Lead) *Contact {
	leadID := lead.ID
	return &Contact{
		LeadID:         &leadID,
		AssignedTo:     lead.AssignedTo,
		FirstName:      lead.FirstName,
		LastName:       lead.LastName,
		Access:         lead.Access,
		Title:          lead.Title,
		Source:         lead.Source,
		Email:          lead.Email,
		AltEmail:       lead.AltEmail,
		Phone:          lead.Phone,
		Mobile:         lead.Mobile,
		Blog:           lead.Blog,
		LinkedIn:       lead.LinkedIn,
		Facebook:       lead.Facebook,
		Twitter:        lead.Twitter,
		DoNotCall:      lead.DoNotCall,
		BackgroundInfo: lead.BackgroundInfo,
	}
}

// Assign copies submitted attributes onto the contact
func (c *Contact) Assign(attrs Attributes) {
	for key, dst := range map[string]*string{
		"first_name":      &c.FirstName,
		"last_name":       &c.LastName,
		"access":          &c.Access,
		"title":           &c.Title,
		"department":      &c.Department,
		"source":          &c.Source,
		"email":           &c.Email,
		"alt_email":       &c.AltEmail,
		"phone":           &c.Phone,
		"mobile":          &c.Mobile,
		"background_info": &c.BackgroundInfo,
	} {
		if v, ok := attrs.GetString(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if ids, ok := attrs.GetStrings("user_ids"); ok {
		c.UserIDs = ids
	}
}

// FullName renders the name according to the naming preference
func (c *Contact) FullName(naming string) string {
	return personName(c.FirstName, c.LastName, naming)
}
