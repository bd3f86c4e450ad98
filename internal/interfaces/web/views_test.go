package web

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/internal/config"
	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/errors"
)

func testData(t *testing.T) map[string]interface{} {
	t.Helper()
	settings, err := config.DefaultSettings()
	require.NoError(t, err)

	lead := &models.Lead{
		ID:        "lead-1",
		FirstName: "Billy",
		LastName:  "Bones",
		Company:   "Hispaniola <Ltd>",
		Status:    constants.LeadStatusNew,
		Access:    constants.AccessPublic,
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	page := &services.LeadPage{Leads: []*models.Lead{lead}, Page: 1, PerPage: 20, Total: 1}

	return map[string]interface{}{
		"Settings":      settings,
		"AccessChoices": []string{constants.AccessPrivate, constants.AccessPublic, constants.AccessShared},
		"Naming":        constants.NamingBefore,
		"View":          constants.ViewLong,
		"Flash":         map[string]string{constants.FlashNotice: "Saved"},
		"Lead":          lead,
		"Leads":         page.Leads,
		"Page":          page,
		"Campaigns":     []*models.Campaign{{ID: "c-1", Name: "Spring"}},
		"StatusTotals":  map[string]int{"all": 1, "new": 1, "other": 0},
		"CurrentQuery":  "",
	}
}

func renderTemplate(t *testing.T, v *Views, name string, data interface{}) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, v.Instance(name, data).Render(w))
	return w
}

func TestNew_RegistersPagesAndScripts(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	for _, name := range []string{
		"leads/index", "leads/show", "leads/new", "leads/edit", "leads/convert", "leads/auto_complete",
		"campaigns/index", "campaigns/show", "login",
		"leads/index.js", "leads/new.js", "leads/edit.js", "leads/create.js", "leads/update.js",
		"leads/destroy.js", "leads/convert.js", "leads/promote.js", "leads/reject.js",
		"leads/attach.js", "leads/discard.js",
	} {
		assert.True(t, v.Has(name), name)
	}
	assert.False(t, v.Has("leads/missing"))
}

func TestRender_IndexPage(t *testing.T) {
	v := MustNew()
	w := renderTemplate(t, v, "leads/index", testData(t))

	body := w.Body.String()
	assert.Equal(t, constants.ContentTypeHTML, w.Header().Get("Content-Type"))
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `id="lead_lead-1"`)
	assert.Contains(t, body, "Billy Bones")
	assert.Contains(t, body, "Hispaniola &lt;Ltd&gt;")
	assert.Contains(t, body, "Saved")
}

func TestRender_AutoCompleteIsAFragment(t *testing.T) {
	v := MustNew()
	data := testData(t)
	data["Query"] = "bill"
	data["AutoComplete"] = data["Leads"]

	body := renderTemplate(t, v, "leads/auto_complete", data).Body.String()
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, `<li id="lead-1">Billy Bones (Hispaniola &lt;Ltd&gt;)</li>`)
}

func TestRender_ScriptEscapesPartials(t *testing.T) {
	v := MustNew()
	w := renderTemplate(t, v, "leads/reject.js", testData(t))

	body := w.Body.String()
	assert.Equal(t, constants.ContentTypeJS, w.Header().Get("Content-Type"))
	assert.Contains(t, body, `document.getElementById("lead_lead-1")`)
	assert.NotContains(t, body, "<li", "markup must be escaped inside the string literal")
	assert.Contains(t, body, `\u003Cli class\u003D\"lead\"`)
	assert.Contains(t, body, `getElementById("sidebar")`)
}

func TestRender_CreateScriptWithErrors(t *testing.T) {
	v := MustNew()
	data := testData(t)
	errs := errors.FieldErrors{}
	errs.Add("first_name", "can't be blank")
	data["Errors"] = errs

	body := renderTemplate(t, v, "leads/create.js", data).Body.String()
	assert.Contains(t, body, "create_lead")
	assert.Contains(t, body, "first name can")
	assert.Contains(t, body, "be blank")
}

func TestRender_UnknownTemplate(t *testing.T) {
	v := MustNew()
	w := httptest.NewRecorder()

	assert.Error(t, v.Instance("leads/nope", nil).Render(w))
	assert.Error(t, v.Instance("leads/nope.js", nil).Render(w))
	assert.Zero(t, w.Body.Len())
}
