package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/errors"
)

// CampaignHandler serves the campaign pages leads are filed under
type CampaignHandler struct {
	svc *services.ServiceManager
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(svc *services.ServiceManager) *CampaignHandler {
	return &CampaignHandler{svc: svc}
}

// List returns the visible campaigns
// GET /campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	f := RequestFormat(c)
	campaigns, err := h.svc.Campaigns.List(c.Request.Context(), GetUserFromContext(c))
	if err != nil {
		RespondError(c, f, err)
		return
	}

	switch f {
	case FormatJSON:
		c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
	case FormatHTML:
		renderView(c, h.svc.Settings, http.StatusOK, "campaigns/index", gin.H{"Campaigns": campaigns, "Title": "Campaigns"})
	default:
		RespondNotAcceptable(c)
	}
}

// Get returns a campaign with its leads
// GET /campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	f := RequestFormat(c)
	ctx := c.Request.Context()
	user := GetUserFromContext(c)

	campaign, err := h.svc.Campaigns.Find(ctx, user, c.Param("id"))
	if err != nil {
		if errors.IsNotFound(err) && f == FormatHTML {
			GetSessionFromContext(c).Flash(constants.FlashWarning, msgCampaignNotAvailable)
			c.Redirect(http.StatusFound, constants.PathCampaigns)
			return
		}
		RespondError(c, f, err)
		return
	}
	leads, err := h.svc.Campaigns.Leads(ctx, user, campaign.ID)
	if err != nil {
		RespondError(c, f, err)
		return
	}

	switch f {
	case FormatJSON:
		c.JSON(http.StatusOK, gin.H{"campaign": campaign, "leads": leads})
	case FormatHTML:
		data := gin.H{"Campaign": campaign, "Leads": leads, "Title": campaign.Name}
		naming, err := h.svc.Preferences.LeadsNaming(ctx, user.ID)
		if err != nil {
			RespondError(c, f, err)
			return
		}
		data["Naming"] = naming
		renderView(c, h.svc.Settings, http.StatusOK, "campaigns/show", data)
	default:
		RespondNotAcceptable(c)
	}
}

// Create stores a new campaign
// POST /campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	f := RequestFormat(c)
	ctx := c.Request.Context()
	user := GetUserFromContext(c)

	campaign, err := h.svc.Campaigns.Create(ctx, user, Params(c).Map(constants.ParamCampaign))
	if err != nil {
		invalid, ok := errors.AsRecordInvalid(err)
		if !ok || f != FormatHTML {
			RespondError(c, f, err)
			return
		}
		campaigns, listErr := h.svc.Campaigns.List(ctx, user)
		if listErr != nil {
			RespondError(c, f, listErr)
			return
		}
		renderView(c, h.svc.Settings, http.StatusOK, "campaigns/index", gin.H{"Campaigns": campaigns, "Errors": invalid.Errors})
		return
	}

	switch f {
	case FormatJSON:
		c.JSON(http.StatusCreated, gin.H{constants.FieldMessage: "Campaign created successfully", "campaign": campaign})
	case FormatHTML:
		c.Redirect(http.StatusFound, constants.PathCampaigns+"/"+campaign.ID)
	default:
		RespondNotAcceptable(c)
	}
}
