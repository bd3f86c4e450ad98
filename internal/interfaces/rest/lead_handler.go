package rest

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/persistence"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/errors"
)

const (
	msgLeadNotAvailable     = "This lead is no longer available."
	msgCampaignNotAvailable = "This campaign is no longer available."
)

var perPageChoices = []int{10, 20, 30, 40, 50}

var leadCSVHeader = []string{
	"id", "first_name", "last_name", "title", "company", "status", "source",
	"email", "phone", "mobile", "rating", "access", "created_at",
}

// LeadHandler serves the leads controller: listing, CRUD, conversion and
// the sidebar and option forms of the index page.
type LeadHandler struct {
	svc    *services.ServiceManager
	leads  *services.LeadService
	logger *zap.Logger
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(svc *services.ServiceManager) *LeadHandler {
	return &LeadHandler{
		svc:    svc,
		leads:  svc.Leads,
		logger: svc.Logger,
	}
}

func (h *LeadHandler) render(c *gin.Context, status int, name string, data gin.H) {
	renderView(c, h.svc.Settings, status, name, data)
}

// display loads the naming and view preferences of the user
func (h *LeadHandler) display(ctx context.Context, user *models.UserSession, data gin.H) error {
	naming, err := h.svc.Preferences.LeadsNaming(ctx, user.ID)
	if err != nil {
		return err
	}
	view, err := h.svc.Preferences.LeadsView(ctx, user.ID)
	if err != nil {
		return err
	}
	data["Naming"] = naming
	data["View"] = view
	return nil
}

func indexData(page *services.LeadPage) gin.H {
	return gin.H{
		"Leads":        page.Leads,
		"Page":         page,
		"CurrentPage":  page.Page,
		"CurrentQuery": page.Query,
		"Filter":       page.Filter,
		"Naming":       page.Naming,
		"View":         page.View,
	}
}

func listEnvelope(page *services.LeadPage) gin.H {
	return gin.H{
		"leads":    page.Leads,
		"page":     page.Page,
		"per_page": page.PerPage,
		"pages":    page.Pages(),
		"total":    page.Total,
	}
}

// handleError answers a failed lookup the way the request expects: pages
// are redirected to the index and fragments reload the page, both with a
// warning; API clients get the error status.
func (h *LeadHandler) handleError(c *gin.Context, f Format, err error) {
	if !errors.IsNotFound(err) {
		RespondError(c, f, err)
		return
	}
	switch f {
	case FormatJS:
		GetSessionFromContext(c).Flash(constants.FlashWarning, msgLeadNotAvailable)
		RespondJS(c, jsReload)
	case FormatHTML:
		GetSessionFromContext(c).Flash(constants.FlashWarning, msgLeadNotAvailable)
		c.Redirect(http.StatusFound, constants.PathLeads)
	default:
		RespondError(c, f, err)
	}
}

// refresh adds what the calling page must redraw after a change: the status
// sidebar (and optionally the list) on the index, or the campaign summary
// on a campaign page.
func (h *LeadHandler) refresh(c *gin.Context, lead *models.Lead, reloadList bool, data gin.H) error {
	ctx := c.Request.Context()
	user := GetUserFromContext(c)
	sess := GetSessionFromContext(c)

	switch {
	case CalledFromIndexPage(c, constants.PathLeads):
		if reloadList {
			page, err := h.leads.List(ctx, user, sess, services.ListRequest{KeepQuery: true})
			if err != nil {
				return err
			}
			for key, value := range indexData(page) {
				data[key] = value
			}
		}
		totals, err := h.leads.StatusTotals(ctx, user)
		if err != nil {
			return err
		}
		data["StatusTotals"] = totals
		data["Filter"] = h.leads.Filter(sess)
	case CalledFromLandingPage(c, constants.PathCampaigns):
		campaign, err := h.leads.CampaignOf(ctx, lead)
		if err != nil {
			return err
		}
		data["Campaign"] = campaign
	}
	return nil
}

// previous resolves the record the user was looking at before opening a
// form. A record that is gone is reported by id only.
func (h *LeadHandler) previous(c *gin.Context, data gin.H) error {
	id, ok := Param(c, constants.ParamPrevious)
	if !ok || id == "" {
		return nil
	}
	lead, err := h.leads.FindOptional(c.Request.Context(), GetUserFromContext(c), id)
	if err != nil {
		return err
	}
	data["PreviousID"] = id
	if lead != nil {
		data["Previous"] = lead
	}
	return nil
}

// Index lists the current page of leads
// GET /leads
func (h *LeadHandler) Index(c *gin.Context) {
	f := RequestFormat(c)
	ctx := c.Request.Context()
	user := GetUserFromContext(c)

	req := services.ListRequest{
		Page:  IntParam(c, constants.ParamPage),
		Query: StringParam(c, constants.ParamQuery),
	}
	if perPage := IntParam(c, constants.ParamPerPage); perPage != nil {
		req.PerPage = *perPage
	}

	page, err := h.leads.List(ctx, user, GetSessionFromContext(c), req)
	if err != nil {
		RespondError(c, f, err)
		return
	}

	switch f {
	case FormatJSON:
		c.JSON(http.StatusOK, listEnvelope(page))
	case FormatXML:
		c.XML(http.StatusOK, &models.LeadList{Type: "array", Leads: page.Leads})
	case FormatCSV:
		h.writeCSV(c, page.Leads)
	case FormatJS:
		h.render(c, http.StatusOK, "leads/index.js", indexData(page))
	default:
		totals, err := h.leads.StatusTotals(ctx, user)
		if err != nil {
			RespondError(c, f, err)
			return
		}
		data := indexData(page)
		data["StatusTotals"] = totals
		data["PerPageChoices"] = perPageChoices
		data["SortChoices"] = persistence.LeadSortColumns
		data["Title"] = "Leads"
		h.render(c, http.StatusOK, "leads/index", data)
	}
}

func (h *LeadHandler) writeCSV(c *gin.Context, leads []*models.Lead) {
	c.Header("Content-Type", constants.ContentTypeCSV)
	c.Header("Content-Disposition", `attachment; filename="leads.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(leadCSVHeader)
	for _, l := range leads {
		_ = w.Write([]string{
			l.ID, l.FirstName, l.LastName, l.Title, l.Company, l.Status, l.Source,
			l.Email, l.Phone, l.Mobile, strconv.Itoa(l.Rating), l.Access,
			l.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		h.logger.Warn("failed to write leads csv", zap.Error(err))
	}
}

// Show renders a lead with its comments and tasks
// GET /leads/:id
func (h *LeadHandler) Show(c *gin.Context) {
	f := RequestFormat(c)
	ctx := c.Request.Context()
	user := GetUserFromContext(c)

	detail, err := h.leads.Show(ctx, user, c.Param("id"))
	if err != nil {
		h.handleError(c, f, err)
		return
	}

	switch f {
	case FormatJSON:
		c.JSON(http.StatusOK, gin.H{"lead": detail.Lead})
	case FormatXML:
		c.XML(http.StatusOK, detail.Lead)
	case FormatCSV:
		RespondNotAcceptable(c)
	default:
		data := gin.H{
			"Lead":     detail.Lead,
			"Campaign": detail.Campaign,
			"Comments": detail.Comments,
			"Tasks":    detail.Tasks,
			"Title":    detail.Lead.Name(),
		}
		if err := h.display(ctx, user, data); err != nil {
			RespondError(c, f, err)
			return
		}
		h.render(c, http.StatusOK, "leads/show", data)
	}
}

// New renders the form for a blank lead, optionally under a campaign
// GET /leads/new
func (h *LeadHandler) New(c *gin.Context) {
	f := RequestFormat(c)
	related, _ := Param(c, constants.ParamRelated)

	form, err := h.leads.New(c.Request.Context(), GetUserFromContext(c), related)
	if err != nil {
		if !errors.IsNotFound(err) {
			RespondError(c, f, err)
			return
		}
		switch f {
		case FormatJS:
			GetSessionFromContext(c).Flash(constants.FlashWarning, msgCampaignNotAvailable)
			RespondJS(c, fmt.Sprintf(jsRedirect, constants.PathCampaigns))
		case FormatHTML:
			GetSessionFromContext(c).Flash(constants.FlashWarning, msgCampaignNotAvailable)
			c.Redirect(http.StatusFound, constants.PathCampaigns)
		default:
			RespondError(c, f, err)
		}
		return
	}

	data := gin.H{"Lead": form.Lead, "Campaign": form.Campaign, "Campaigns": form.Campaigns}
	switch f {
	case FormatJSON:
		c.JSON(http.StatusOK, gin.H{"lead": form.Lead})
	case FormatXML:
		c.XML(http.StatusOK, form.Lead)
	case FormatJS:
		h.render(c, http.StatusOK, "leads/new.js", data)
	case FormatCSV:
		RespondNotAcceptable(c)
	default:
		data["Title"] = "Create Lead"
		h.render(c, http.StatusOK, "leads/new", data)
	}
}

// Edit renders the edit form of a lead
// GET /leads/:id/edit
func (h *LeadHandler) Edit(c *gin.Context) {
	f := RequestFormat(c)
	ctx := c.Request.Context()
	user := GetUserFromContext(c)

	form, err := h.leads.Edit(ctx, user, c.Param("id"))
	if err != nil {
		h.handleError(c, f, err)
		return
	}

	data := gin.H{"Lead": form.Lead, "Campaigns": form.Campaigns}
	if err := h.previous(c, data); err != nil {
		RespondError(c, f, err)
		return
	}
	if err := h.display(ctx, user, data); err != nil {
		RespondError(c, f, err)
		return
	}

	switch f {
	case FormatJSON:
		c.JSON(http.StatusOK, gin.H{"lead": form.Lead})
	case FormatXML:
		c.XML(http.StatusOK, form.Lead)
	case FormatJS:
		h.render(c, http.StatusOK, "leads/edit.js", data)
	case FormatCSV:
		RespondNotAcceptable(c)
	default:
		h.render(c, http.StatusOK, "leads/edit", data)
	}
}

// Create saves a submitted lead
// POST /leads
func (h *LeadHandler) Create(c *gin.Context) {
	f := RequestFormat(c)
	ctx := c.Request.Context()
	user := GetUserFromContext(c)
	params := Params(c)

	lead, err := h.leads.Create(ctx, user, services.CreateLeadInput{
		Attributes:  params.Map(constants.ParamLead),
		CampaignID:  params.String(constants.ParamCampaign),
		CommentBody: params.String(constants.ParamCommentBody),
	})
	if err != nil {
		invalid, ok := errors.AsRecordInvalid(err)
		if !ok || f == FormatJSON || f == FormatXML {
			RespondError(c, f, err)
			return
		}
		campaigns, listErr := h.leads.Campaigns(ctx, user)
		if listErr != nil {
			RespondError(c, f, listErr)
			return
		}
		data := gin.H{"Lead": lead, "Campaigns": campaigns, "Errors": invalid.Errors}
		if f == FormatJS {
			h.render(c, http.StatusOK, "leads/create.js", data)
			return
		}
		h.render(c, http.StatusOK, "leads/new", data)
		return
	}

	switch f {
	case FormatJSON:
		c.JSON(http.StatusCreated, gin.H{"lead": lead})
	case FormatXML:
		c.XML(http.StatusCreated, lead)
	case FormatJS:
		data := gin.H{"Lead": lead}
		if err := h.display(ctx, user, data); err != nil {
			RespondError(c, f, err)
			return
		}
		if err := h.refresh(c, lead, true, data); err != nil {
			RespondError(c, f, err)
			return
		}
		h.render(c, http.StatusOK, "leads/create.js", data)
	default:
		GetSessionFromContext(c).Flash(constants.FlashNotice, fmt.Sprintf("%s has been created.", lead.Name()))
		c.Redirect(http.StatusFound, constants.PathLeads+"/"+lead.ID)
	}
}

// Update applies submitted changes to a lead
// PUT /leads/:id
func (h *LeadHandler) Update(c *gin.Context) {
	f := RequestFormat(c)
	ctx := c.Request.Context()
	user := GetUserFromContext(c)

	lead, err := h.leads.Update(ctx, user, c.Param("id"), Params(c).Map(constants.ParamLead))
	if err != nil {
		invalid, ok := errors.AsRecordInvalid(err)
		if !ok || f == FormatJSON || f == FormatXML {
			h.handleError(c, f, err)
			return
		}
		campaigns, listErr := h.leads.Campaigns(ctx, user)
		if listErr != nil {
			RespondError(c, f, listErr)
			return
		}
		data := gin.H{"Lead": lead, "Campaigns": campaigns, "Errors": invalid.Errors}
		if f == FormatJS {
			h.render(c, http.StatusOK, "leads/update.js", data)
			return
		}
		h.render(c, http.StatusOK, "leads/edit", data)
		return
	}

	switch f {
	case FormatJSON:
		c.JSON(http.StatusOK, gin.H{"lead": lead})
	case FormatXML:
		c.XML(http.StatusOK, lead)
	case FormatJS:
		data := gin.H{"Lead": lead}
		if err := h.display(ctx, user, data); err != nil {
			RespondError(c, f, err)
			return
		}
		if err := h.refresh(c, lead, false, data); err != nil {
			RespondError(c, f, err)
			return
		}
		h.render(c, http.StatusOK, "leads/update.js", data)
	default:
		GetSessionFromContext(c).Flash(constants.FlashNotice, fmt.Sprintf("%s has been updated.", lead.Name()))
		c.Redirect(http.StatusFound, constants.PathLeads+"/"+lead.ID)
	}
}

// Destroy deletes a lead. From the index the list is redrawn, stepping back
// a page when the current one ran empty.
// DELETE /leads/:id
func (h *LeadHandler) Destroy(c *gin.Context) {
	f := RequestFormat(c)
	ctx := c.Request.Context()
	user := GetUserFromContext(c)
	sess := GetSessionFromContext(c)

	lead, err := h.leads.Destroy(ctx, user, c.Param("id"))
	if err != nil {
		h.handleError(c, f, err)
		return
	}

	switch f {
	case FormatJSON:
		c.JSON(http.StatusOK, gin.H{constants.FieldMessage: "Lead deleted successfully"})
	case FormatXML, FormatCSV:
		c.Status(http.StatusOK)
	case FormatJS:
		data := gin.H{"Lead": lead}
		if !CalledFromIndexPage(c, constants.PathLeads) {
			h.leads.ResetPage(sess)
			if err := h.refresh(c, lead, false, data); err != nil {
				RespondError(c, f, err)
				return
			}
			h.render(c, http.StatusOK, "leads/destroy.js", data)
			return
		}

		if err := h.refresh(c, lead, true, data); err != nil {
			RespondError(c, f, err)
			return
		}
		page, _ := data["Page"].(*services.LeadPage)
		if page == nil || len(page.Leads) > 0 {
			h.render(c, http.StatusOK, "leads/destroy.js", data)
			return
		}
		if page.Page > 1 {
			previous := page.Page - 1
			page, err = h.leads.List(ctx, user, sess, services.ListRequest{Page: &previous, KeepQuery: true})
			if err != nil {
				RespondError(c, f, err)
				return
			}
			for key, value := range indexData(page) {
				data[key] = value
			}
		}
		h.render(c, http.StatusOK, "leads/index.js", data)
	default:
		h.leads.ResetPage(sess)
		sess.Flash(constants.FlashNotice, fmt.Sprintf("%s has been deleted.", lead.Name()))
		c.Redirect(http.StatusFound, constants.PathLeads)
	}
}

// Convert renders the form turning a lead into a contact
// GET /leads/:id/convert
func (h *LeadHandler) Convert(c *gin.Context) {
	f := RequestFormat(c)
	ctx := c.Request.Context()
	user := GetUserFromContext(c)

	form, err := h.leads.Convert(ctx, user, c.Param("id"))
	if err != nil {
		h.handleError(c, f, err)
		return
	}

	data := gin.H{
		"Lead":        form.Lead,
		"Accounts":    form.Accounts,
		"Account":     form.Account,
		"Opportunity": form.Opportunity,
		"Stages":      h.svc.Settings.OpportunityStage,
	}
	if err := h.previous(c, data); err != nil {
		RespondError(c, f, err)
		return
	}
	if err := h.display(ctx, user, data); err != nil {
		RespondError(c, f, err)
		return
	}

	switch f {
	case FormatJSON:
		c.JSON(http.StatusOK, gin.H{
			"lead":        form.Lead,
			"accounts":    form.Accounts,
			"account":     form.Account,
			"opportunity": form.Opportunity,
		})
	case FormatXML:
		c.XML(http.StatusOK, form.Lead)
	case FormatJS:
		h.render(c, http.StatusOK, "leads/convert.js", data)
	case FormatCSV:
		RespondNotAcceptable(c)
	default:
		h.render(c, http.StatusOK, "leads/convert", data)
	}
}

// Promote converts a lead into a contact with an account and, optionally,
// an opportunity
// PUT /leads/:id/promote
func (h *LeadHandler) Promote(c *gin.Context) {
	f := RequestFormat(c)
	ctx := c.Request.Context()
	user := GetUserFromContext(c)
	params := Params(c)

	result, err := h.leads.Promote(ctx, user, c.Param("id"), services.PromoteInput{
		Access:      params.String(constants.ParamAccess),
		Account:     params.Map(constants.ParamAccount),
		Opportunity: params.Map(constants.ParamOpportunity),
	})
	if err != nil {
		h.handleError(c, f, err)
		return
	}

	data := gin.H{
		"Lead":        result.Lead,
		"Accounts":    result.Accounts,
		"Account":     result.Account,
		"Opportunity": result.Opportunity,
		"Contact":     result.Contact,
		"Stages":      result.Stages,
	}
	if err := h.display(ctx, user, data); err != nil {
		RespondError(c, f, err)
		return
	}

	if !result.Succeeded() {
		switch f {
		case FormatJSON, FormatXML:
			RespondError(c, f, errors.NewRecordInvalidError(constants.AssetLead, result.Errors()))
		case FormatJS:
			data["Errors"] = result.Errors()
			h.render(c, http.StatusOK, "leads/promote.js", data)
		default:
			data["Errors"] = result.Errors()
			h.render(c, http.StatusOK, "leads/convert", data)
		}
		return
	}

	switch f {
	case FormatJSON:
		body := gin.H{"lead": result.Lead, "account": result.Account, "contact": result.Contact}
		if result.Opportunity != nil && result.Opportunity.Name != "" {
			body["opportunity"] = result.Opportunity
		}
		c.JSON(http.StatusOK, body)
	case FormatXML:
		c.XML(http.StatusOK, result.Lead)
	case FormatJS:
		if err := h.refresh(c, result.Lead, false, data); err != nil {
			RespondError(c, f, err)
			return
		}
		h.render(c, http.StatusOK, "leads/promote.js", data)
	default:
		GetSessionFromContext(c).Flash(constants.FlashNotice, fmt.Sprintf("%s has been converted.", result.Lead.Name()))
		c.Redirect(http.StatusFound, constants.PathLeads)
	}
}

// Reject marks a lead as rejected
// PUT /leads/:id/reject
func (h *LeadHandler) Reject(c *gin.Context) {
	f := RequestFormat(c)
	ctx := c.Request.Context()
	user := GetUserFromContext(c)

	lead, err := h.leads.Reject(ctx, user, c.Param("id"))
	if err != nil {
		h.handleError(c, f, err)
		return
	}

	switch f {
	case FormatJSON:
		c.JSON(http.StatusOK, gin.H{"lead": lead})
	case FormatXML:
		c.XML(http.StatusOK, lead)
	case FormatJS:
		data := gin.H{"Lead": lead}
		if err := h.display(ctx, user, data); err != nil {
			RespondError(c, f, err)
			return
		}
		if err := h.refresh(c, lead, false, data); err != nil {
			RespondError(c, f, err)
			return
		}
		h.render(c, http.StatusOK, "leads/reject.js", data)
	default:
		GetSessionFromContext(c).Flash(constants.FlashNotice, fmt.Sprintf("%s has been rejected.", lead.Name()))
		c.Redirect(http.StatusFound, constants.PathLeads)
	}
}

// Attach points an existing task at the lead
// PUT /leads/:id/attach
func (h *LeadHandler) Attach(c *gin.Context) {
	f := RequestFormat(c)
	params := Params(c)

	result, err := h.leads.Attach(c.Request.Context(), GetUserFromContext(c), c.Param("id"),
		params.String(constants.ParamAssets), params.String(constants.ParamAssetID))
	if err != nil {
		h.handleError(c, f, err)
		return
	}

	switch f {
	case FormatJSON:
		c.JSON(http.StatusOK, gin.H{"attachment": result.Attachment, "attached": result.Attached})
	case FormatXML:
		c.XML(http.StatusOK, result.Attachment)
	case FormatHTML:
		c.Redirect(http.StatusFound, constants.PathLeads+"/"+result.Lead.ID)
	default:
		h.render(c, http.StatusOK, "leads/attach.js", gin.H{
			"Lead":       result.Lead,
			"Attachment": result.Attachment,
			"Attached":   result.Attached,
		})
	}
}

// Discard detaches a task from the lead without deleting it
// POST /leads/:id/discard
func (h *LeadHandler) Discard(c *gin.Context) {
	f := RequestFormat(c)
	params := Params(c)

	lead, task, err := h.leads.Discard(c.Request.Context(), GetUserFromContext(c), c.Param("id"),
		params.String(constants.ParamAttachment), params.String(constants.ParamAttachmentID))
	if err != nil {
		h.handleError(c, f, err)
		return
	}

	switch f {
	case FormatJSON:
		c.JSON(http.StatusOK, gin.H{"attachment": task})
	case FormatXML:
		c.XML(http.StatusOK, task)
	case FormatHTML:
		c.Redirect(http.StatusFound, constants.PathLeads+"/"+lead.ID)
	default:
		h.render(c, http.StatusOK, "leads/discard.js", gin.H{"Lead": lead, "Attachment": task})
	}
}

// AutoComplete finds leads matching the jumpbox query
// POST /leads/auto_complete
func (h *LeadHandler) AutoComplete(c *gin.Context) {
	f := RequestFormat(c)
	query, ok := Param(c, constants.ParamAutoComplete)
	if !ok {
		query, _ = Param(c, constants.ParamTerm)
	}

	leads, err := h.leads.AutoComplete(c.Request.Context(), GetUserFromContext(c), GetSessionFromContext(c), query)
	if err != nil {
		RespondError(c, f, err)
		return
	}

	if f == FormatJSON {
		results := make(map[string]string, len(leads))
		for _, l := range leads {
			results[l.ID] = l.Name()
		}
		c.JSON(http.StatusOK, results)
		return
	}
	h.render(c, http.StatusOK, "leads/auto_complete", gin.H{"Query": query, "AutoComplete": leads})
}

// Redraw stores the display options of the index and redraws it from the
// first page
// GET /leads/redraw
func (h *LeadHandler) Redraw(c *gin.Context) {
	f := RequestFormat(c)
	ctx := c.Request.Context()
	user := GetUserFromContext(c)
	sess := GetSessionFromContext(c)
	params := Params(c)

	err := h.svc.Preferences.Redraw(ctx, user.ID, services.RedrawOptions{
		PerPage: params.String(constants.ParamPerPage),
		View:    params.String(constants.ParamView),
		SortBy:  params.String(constants.ParamSortBy),
		Naming:  params.String(constants.ParamNaming),
	})
	if err != nil {
		RespondError(c, f, err)
		return
	}
	h.leads.ResetPage(sess)
	h.respondWithIndex(c, f)
}

// Filter restricts the index to the checked statuses
// POST /leads/filter
func (h *LeadHandler) Filter(c *gin.Context) {
	f := RequestFormat(c)
	statuses, _ := Params(c).GetStrings(constants.ParamStatus)
	h.leads.SetFilter(GetSessionFromContext(c), strings.Join(statuses, ","))
	h.respondWithIndex(c, f)
}

// respondWithIndex redraws the list for XHR callers and sends page loads
// back to the index
func (h *LeadHandler) respondWithIndex(c *gin.Context, f Format) {
	if f == FormatHTML {
		c.Redirect(http.StatusFound, constants.PathLeads)
		return
	}

	page, err := h.leads.List(c.Request.Context(), GetUserFromContext(c), GetSessionFromContext(c), services.ListRequest{KeepQuery: true})
	if err != nil {
		RespondError(c, f, err)
		return
	}
	switch f {
	case FormatJSON:
		c.JSON(http.StatusOK, listEnvelope(page))
	case FormatXML:
		c.XML(http.StatusOK, &models.LeadList{Type: "array", Leads: page.Leads})
	default:
		h.render(c, http.StatusOK, "leads/index.js", indexData(page))
	}
}
