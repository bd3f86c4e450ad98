package models

import (
	"encoding/xml"
	"strings"
	"time"
)

// Account is a company a contact belongs to
type Account struct {
	XMLName        xml.Name  `json:"-" xml:"account"`
	ID             string    `json:"id" xml:"id"`
	UserID         string    `json:"user_id" xml:"user-id"`
	AssignedTo     *string   `json:"assigned_to" xml:"assigned-to,omitempty"`
	Name           string    `json:"name" xml:"name"`
	Access         string    `json:"access" xml:"access"`
	Website        string    `json:"website" xml:"website"`
	Phone          string    `json:"phone" xml:"phone"`
	Email          string    `json:"email" xml:"email"`
	Category       string    `json:"category" xml:"category"`
	Rating         int       `json:"rating" xml:"rating"`
	BackgroundInfo string    `json:"background_info" xml:"background-info"`
	CreatedAt      time.Time `json:"created_at" xml:"created-at"`
	UpdatedAt      time.Time `json:"updated_at" xml:"updated-at"`

	UserIDs []string `json:"user_ids,omitempty" xml:"-"`
}

// Assign copies submitted attributes onto the account
func (a *Account) Assign(attrs Attributes) {
	for key, dst := range map[string]*string{
		"name":            &a.Name,
		"access":          &a.Access,
		"website":         &a.Website,
		"phone":           &a.Phone,
		"email":           &a.Email,
		"category":        &a.Category,
		"background_info": &a.BackgroundInfo,
	} {
		if v, ok := attrs.GetString(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if attrs.Has("assigned_to") {
		a.AssignedTo = optionalString(attrs.String("assigned_to"))
	}
	if attrs.Has("rating") {
		a.Rating, _ = attrs.GetInt("rating")
	}
	if ids, ok := attrs.GetStrings("user_ids"); ok {
		a.UserIDs = ids
	}
}
