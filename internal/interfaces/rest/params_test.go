package rest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Lumbe/lcrm-app/internal/domain/models"
)

func TestSplitKey(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"query", []string{"query"}},
		{"lead[first_name]", []string{"lead", "first_name"}},
		{"lead[user_ids][]", []string{"lead", "user_ids", ""}},
		{"status[]", []string{"status", ""}},
		{"broken[key", []string{"broken"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, splitKey(tt.key))
		})
	}
}

func testContext(method, target, contentType, body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		c.Request.Header.Set("Content-Type", contentType)
	}
	return c
}

func TestParams_Form(t *testing.T) {
	form := url.Values{
		"lead[first_name]":   {"Billy"},
		"lead[user_ids][]":   {"u1", "u2"},
		"campaign":           {"c1"},
		"account[name]":      {"Hispaniola"},
		"opportunity[stage]": {"prospecting"},
	}
	c := testContext(http.MethodPost, "/leads?page=2", "application/x-www-form-urlencoded", form.Encode())

	params := Params(c)
	lead := params.Map("lead")
	assert.Equal(t, "Billy", lead.String("first_name"))
	ids, ok := lead.GetStrings("user_ids")
	assert.True(t, ok)
	assert.Equal(t, []string{"u1", "u2"}, ids)
	assert.Equal(t, "c1", params.String("campaign"))
	assert.Equal(t, "Hispaniola", params.Map("account").String("name"))

	page := IntParam(c, "page")
	if assert.NotNil(t, page) {
		assert.Equal(t, 2, *page)
	}
	assert.Nil(t, StringParam(c, "query"))
}

func TestParams_JSON(t *testing.T) {
	c := testContext(http.MethodPut, "/leads/1", "application/json",
		`{"lead":{"first_name":"Billy","rating":3,"user_ids":["u1"]},"access":"Lead"}`)

	params := Params(c)
	lead := params.Map("lead")
	assert.IsType(t, models.Attributes{}, params["lead"])
	assert.Equal(t, "Billy", lead.String("first_name"))
	rating, ok := lead.GetInt("rating")
	assert.True(t, ok)
	assert.Equal(t, 3, rating)
	ids, _ := lead.GetStrings("user_ids")
	assert.Equal(t, []string{"u1"}, ids)
	assert.Equal(t, "Lead", params.String("access"))

	// cached for later readers
	assert.Equal(t, "Lead", Params(c).String("access"))
}

func TestRequestFormat(t *testing.T) {
	tests := []struct {
		name   string
		target string
		accept string
		xhr    bool
		want   Format
	}{
		{"default", "/leads", "", false, FormatHTML},
		{"browser", "/leads", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8", false, FormatHTML},
		{"remote link", "/leads", "text/javascript, application/javascript, */*; q=0.01", true, FormatJS},
		{"bare xhr", "/leads", "*/*", true, FormatJS},
		{"json accept", "/leads", "application/json", false, FormatJSON},
		{"xml accept", "/leads", "application/xml", false, FormatXML},
		{"format param wins", "/leads?format=csv", "application/json", false, FormatCSV},
		{"json param", "/leads?format=json", "", true, FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testContext(http.MethodGet, tt.target, "", "")
			if tt.accept != "" {
				c.Request.Header.Set("Accept", tt.accept)
			}
			if tt.xhr {
				c.Request.Header.Set("X-Requested-With", "XMLHttpRequest")
			}
			assert.Equal(t, tt.want, RequestFormat(c))
		})
	}
}

func TestCalledFrom(t *testing.T) {
	c := testContext(http.MethodGet, "/leads/1", "", "")

	c.Request.Header.Set("Referer", "http://crm.example.com/leads")
	assert.True(t, CalledFromIndexPage(c, "/leads"))
	assert.False(t, CalledFromLandingPage(c, "/campaigns"))

	c.Request.Header.Set("Referer", "http://crm.example.com/campaigns/42")
	assert.False(t, CalledFromIndexPage(c, "/leads"))
	assert.True(t, CalledFromLandingPage(c, "/campaigns"))

	c.Request.Header.Set("Referer", "http://crm.example.com/campaigns/42/edit")
	assert.False(t, CalledFromLandingPage(c, "/campaigns"))
}
