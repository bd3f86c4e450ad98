package rest_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

func TestCampaignHandler_Get(t *testing.T) {
	env := newTestEnv(t)
	campaign := env.factory.Campaign(env.owner)
	lead := env.factory.Lead(env.owner, func(l *models.Lead) { l.CampaignID = models.StringPtr(campaign.ID) })

	w := env.do(http.MethodGet, "/campaigns/"+campaign.ID+"?format=json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, campaign.Name, body["campaign"].(map[string]interface{})["name"])
	require.Len(t, body["leads"], 1)
	assert.Equal(t, lead.ID, body["leads"].([]interface{})[0].(map[string]interface{})["id"])

	w = env.do(http.MethodGet, "/campaigns/"+campaign.ID, nil, asBrowser)
	require.Equal(t, http.StatusOK, w.Code)
	view := env.rendered()
	assert.Equal(t, "campaigns/show", view.Name)
	assert.Equal(t, constants.NamingBefore, view.Data["Naming"])
}

func TestCampaignHandler_Get_Missing(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/campaigns/missing", nil, asBrowser)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.PathCampaigns, w.Header().Get("Location"))
	assert.Equal(t, "This campaign is no longer available.", env.flash(constants.FlashWarning))

	w = env.do(http.MethodGet, "/campaigns/missing", nil, asJSON)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCampaignHandler_Create(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/campaigns?format=json", url.Values{"campaign[name]": {"Spring"}})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Spring", decode(t, w)["campaign"].(map[string]interface{})["name"])

	w = env.do(http.MethodPost, "/campaigns", url.Values{"campaign[name]": {""}}, asBrowser)
	require.Equal(t, http.StatusOK, w.Code)
	view := env.rendered()
	assert.Equal(t, "campaigns/index", view.Name)
	assert.Contains(t, view.Data, "Errors")
	assert.Len(t, view.Data["Campaigns"], 1)
}

func TestCampaignHandler_List_NotAcceptable(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/campaigns?format=csv", nil)
	assert.Equal(t, http.StatusNotAcceptable, w.Code)
}
