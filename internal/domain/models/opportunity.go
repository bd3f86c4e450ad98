package models

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"
)

// Opportunity is a potential deal with an account
type Opportunity struct {
	XMLName        xml.Name   `json:"-" xml:"opportunity"`
	ID             string     `json:"id" xml:"id"`
	UserID         string     `json:"user_id" xml:"user-id"`
	CampaignID     *string    `json:"campaign_id" xml:"campaign-id,omitempty"`
	AccountID      *string    `json:"account_id" xml:"account-id,omitempty"`
	AssignedTo     *string    `json:"assigned_to" xml:"assigned-to,omitempty"`
	Name           string     `json:"name" xml:"name"`
	Access         string     `json:"access" xml:"access"`
	Source         string     `json:"source" xml:"source"`
	Stage          string     `json:"stage" xml:"stage"`
	Probability    int        `json:"probability" xml:"probability"`
	Amount         float64    `json:"amount" xml:"amount"`
	Discount       float64    `json:"discount" xml:"discount"`
	ClosesOn       *time.Time `json:"closes_on" xml:"closes-on,omitempty"`
	BackgroundInfo string     `json:"background_info" xml:"background-info"`
	CreatedAt      time.Time  `json:"created_at" xml:"created-at"`
	UpdatedAt      time.Time  `json:"updated_at" xml:"updated-at"`

	UserIDs []string `json:"user_ids,omitempty" xml:"-"`
}

// Assign copies submitted attributes onto the opportunity
func (o *Opportunity) Assign(attrs Attributes) {
	for key, dst := range map[string]*string{
		"name":            &o.Name,
		"access":          &o.Access,
		"source":          &o.Source,
		"stage":           &o.Stage,
		"background_info": &o.BackgroundInfo,
	} {
		if v, ok := attrs.GetString(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if attrs.Has("assigned_to") {
		o.AssignedTo = optionalString(attrs.String("assigned_to"))
	}
	if attrs.Has("probability") {
		o.Probability, _ = attrs.GetInt("probability")
	}
	if attrs.Has("amount") {
		o.Amount, _ = strconv.ParseFloat(attrs.String("amount"), 64)
	}
	if attrs.Has("discount") {
		o.Discount, _ = strconv.ParseFloat(attrs.String("discount"), 64)
	}
	if attrs.Has("closes_on") {
		o.ClosesOn = nil
		if t, err := time.Parse("2006-01-02", attrs.String("closes_on")); err == nil {
			o.ClosesOn = &t
		}
	}
	if ids, ok := attrs.GetStrings("user_ids"); ok {
		o.UserIDs = ids
	}
}
