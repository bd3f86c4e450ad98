package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLead_AssignOnlyTouchesSubmittedKeys(t *testing.T) {
	campaign := "c1"
	lead := &Lead{FirstName: "Ann", LastName: "Lee", Company: "Acme", CampaignID: &campaign, Rating: 2}

	lead.Assign(Attributes{
		"last_name":   " Smith ",
		"rating":      "4",
		"do_not_call": "1",
		"user_ids":    []string{"", "u1", "u2"},
	})

	assert.Equal(t, "Ann", lead.FirstName)
	assert.Equal(t, "Smith", lead.LastName)
	assert.Equal(t, "Acme", lead.Company)
	assert.Equal(t, 4, lead.Rating)
	assert.True(t, lead.DoNotCall)
	assert.Equal(t, []string{"u1", "u2"}, lead.UserIDs)
	require.NotNil(t, lead.CampaignID)

	lead.Assign(Attributes{"campaign_id": ""})
	assert.Nil(t, lead.CampaignID)
}

func TestLead_FullName(t *testing.T) {
	lead := &Lead{FirstName: "Ann", LastName: "Lee"}
	assert.Equal(t, "Ann Lee", lead.FullName("before"))
	assert.Equal(t, "Lee, Ann", lead.FullName("after"))
	assert.Equal(t, "Ann Lee", lead.Name())
}

func TestAttributes_JSONShapes(t *testing.T) {
	attrs := Attributes{
		"user_ids": []interface{}{"a", "b"},
		"rating":   float64(3),
		"nested":   map[string]interface{}{"name": "x"},
		"csv":      "a, b,,c",
	}

	ids, ok := attrs.GetStrings("user_ids")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ids)

	n, ok := attrs.GetInt("rating")
	require.True(t, ok)
	assert.Equal(t, 3, n)

	assert.Equal(t, "x", attrs.Map("nested").String("name"))
	assert.Empty(t, attrs.Map("missing"))

	csv, _ := attrs.GetStrings("csv")
	assert.Equal(t, []string{"a", "b", "c"}, csv)
}

func TestNewContactFromLead(t *testing.T) {
	lead := &Lead{ID: "l1", FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Access: "Shared"}
	contact := NewContactFromLead(lead)

	require.NotNil(t, contact.LeadID)
	assert.Equal(t, "l1", *contact.LeadID)
	assert.Equal(t, "Ann", contact.FirstName)
	assert.Equal(t, "ann@example.com", contact.Email)
	assert.Equal(t, "Shared", contact.Access)
}
