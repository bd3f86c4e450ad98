package models

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/Lumbe/lcrm-app/pkg/constants"
)

// Lead is a prospect that may be promoted to a contact with an account and
// an opportunity.
type Lead struct {
	XMLName        xml.Name  `json:"-" xml:"lead"`
	ID             string    `json:"id" xml:"id"`
	UserID         string    `json:"user_id" xml:"user-id"`
	CampaignID     *string   `json:"campaign_id" xml:"campaign-id,omitempty"`
	AssignedTo     *string   `json:"assigned_to" xml:"assigned-to,omitempty"`
	FirstName      string    `json:"first_name" xml:"first-name"`
	LastName       string    `json:"last_name" xml:"last-name"`
	Access         string    `json:"access" xml:"access"`
	Title          string    `json:"title" xml:"title"`
	Company        string    `json:"company" xml:"company"`
	Source         string    `json:"source" xml:"source"`
	Status         string    `json:"status" xml:"status"`
	ReferredBy     string    `json:"referred_by" xml:"referred-by"`
	Email          string    `json:"email" xml:"email"`
	AltEmail       string    `json:"alt_email" xml:"alt-email"`
	Phone          string    `json:"phone" xml:"phone"`
	Mobile         string    `json:"mobile" xml:"mobile"`
	Blog           string    `json:"blog" xml:"blog"`
	LinkedIn       string    `json:"linkedin" xml:"linkedin"`
	Facebook       string    `json:"facebook" xml:"facebook"`
	Twitter        string    `json:"twitter" xml:"twitter"`
	Rating         int       `json:"rating" xml:"rating"`
	DoNotCall      bool      `json:"do_not_call" xml:"do-not-call"`
	BackgroundInfo string    `json:"background_info" xml:"background-info"`
	CreatedAt      time.Time `json:"created_at" xml:"created-at"`
	UpdatedAt      time.Time `json:"updated_at" xml:"updated-at"`

	// UserIDs lists the users permitted to see a Shared lead
	UserIDs []string `json:"user_ids,omitempty" xml:"-"`
}

// LeadList is the XML envelope of an index response.
type LeadList struct {
	XMLName xml.Name `xml:"leads"`
	Type    string   `xml:"type,attr"`
	Leads   []*Lead  `xml:"lead"`
}

// Assign copies the submitted attributes onto the lead. Keys that were not
// submitted leave the current value untouched.
func (l *Lead) Assign(attrs Attributes) {
	setString := func(key string, dst *string) {
		if v, ok := attrs.GetString(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	setString("first_name", &l.FirstName)
	setString("last_name", &l.LastName)
	setString("access", &l.Access)
	setString("title", &l.Title)
	setString("company", &l.Company)
	setString("source", &l.Source)
	setString("status", &l.Status)
	setString("referred_by", &l.ReferredBy)
	setString("email", &l.Email)
	setString("alt_email", &l.AltEmail)
	setString("phone", &l.Phone)
	setString("mobile", &l.Mobile)
	setString("blog", &l.Blog)
	setString("linkedin", &l.LinkedIn)
	setString("facebook", &l.Facebook)
	setString("twitter", &l.Twitter)
	setString("background_info", &l.BackgroundInfo)

	if attrs.Has("campaign_id") {
		l.CampaignID = optionalString(attrs.String("campaign_id"))
	}
	if attrs.Has("assigned_to") {
		l.AssignedTo = optionalString(attrs.String("assigned_to"))
	}
	if attrs.Has("rating") {
		l.Rating, _ = attrs.GetInt("rating")
	}
	if v, ok := attrs.GetBool("do_not_call"); ok {
		l.DoNotCall = v
	}
	if ids, ok := attrs.GetStrings("user_ids"); ok {
		l.UserIDs = ids
	}
}

// FullName renders the name according to the naming preference.
func (l *Lead) FullName(naming string) string {
	return personName(l.FirstName, l.LastName, naming)
}

// Name is the default rendering of the lead's name.
func (l *Lead) Name() string {
	return l.FullName(constants.NamingBefore)
}

// RuleEnv exposes the lead to validation expressions.
func (l *Lead) RuleEnv() map[string]interface{} {
	return map[string]interface{}{
		"first_name":      l.FirstName,
		"last_name":       l.LastName,
		"access":          l.Access,
		"title":           l.Title,
		"company":         l.Company,
		"source":          l.Source,
		"status":          l.Status,
		"referred_by":     l.ReferredBy,
		"email":           l.Email,
		"alt_email":       l.AltEmail,
		"phone":           l.Phone,
		"mobile":          l.Mobile,
		"blog":            l.Blog,
		"linkedin":        l.LinkedIn,
		"facebook":        l.Facebook,
		"twitter":         l.Twitter,
		"rating":          l.Rating,
		"do_not_call":     l.DoNotCall,
		"background_info": l.BackgroundInfo,
		"campaign_id":     StringValue(l.CampaignID),
	}
}

func personName(first, last, naming string) string {
	if naming == constants.NamingAfter {
		if first == "" {
			return last
		}
		return last + ", " + first
	}
	return strings.TrimSpace(first + " " + last)
}
