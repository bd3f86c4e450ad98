package rest

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/pkg/constants"
	"github.com/Lumbe/lcrm-app/pkg/errors"
)

// Format is the representation a request asked for
type Format int

const (
	FormatHTML Format = iota
	FormatJS
	FormatJSON
	FormatXML
	FormatCSV
)

const (
	mimeJS     = "text/javascript"
	mimeAppJS  = "application/javascript"
	mimeCSV    = "text/csv"
	jsReload   = "window.location.reload();"
	jsRedirect = "window.location.href = %q;"
)

var offeredFormats = []string{
	binding.MIMEHTML, mimeJS, mimeAppJS, binding.MIMEJSON, binding.MIMEXML, binding.MIMEXML2, mimeCSV,
}

// RequestFormat picks the response format: an explicit format parameter
// wins, then the Accept header. XHR requests asking for HTML get a
// JavaScript fragment.
func RequestFormat(c *gin.Context) Format {
	switch strings.ToLower(c.Query(constants.ParamFormat)) {
	case "json":
		return FormatJSON
	case "xml":
		return FormatXML
	case "csv":
		return FormatCSV
	case "js":
		return FormatJS
	case "html":
		return FormatHTML
	}

	var f Format
	switch c.NegotiateFormat(offeredFormats...) {
	case binding.MIMEJSON:
		f = FormatJSON
	case binding.MIMEXML, binding.MIMEXML2:
		f = FormatXML
	case mimeCSV:
		f = FormatCSV
	case mimeJS, mimeAppJS:
		f = FormatJS
	default:
		f = FormatHTML
	}
	if f == FormatHTML && IsXHR(c) {
		return FormatJS
	}
	return f
}

// IsXHR reports whether the request was sent by XMLHttpRequest
func IsXHR(c *gin.Context) bool {
	return c.GetHeader(constants.HeaderRequestedWith) == constants.XMLHttpRequest
}

// GetUserFromContext extracts the authenticated user from gin.Context
func GetUserFromContext(c *gin.Context) *models.UserSession {
	userInterface, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil
	}
	user, _ := userInterface.(*models.UserSession)
	return user
}

// GetSessionFromContext returns the UI session loaded by the session middleware
func GetSessionFromContext(c *gin.Context) *services.Session {
	sessInterface, exists := c.Get(constants.ContextKeySession)
	if !exists {
		return services.NewSession("", nil)
	}
	sess, _ := sessInterface.(*services.Session)
	return sess
}

// RespondAppError sends a standardised JSON error response using pkg/errors
func RespondAppError(c *gin.Context, err error) {
	code := errors.GetHTTPStatus(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	resp := errors.ToResponse(err)
	body := gin.H{
		constants.ResponseError: resp.Message, // Legacy
		constants.FieldMessage:  resp.Message, // Standard
		"code":                  resp.Code,
		"data":                  nil,
	}
	if len(resp.Errors) > 0 {
		body[constants.ResponseErrors] = resp.Errors
	}
	c.JSON(code, body)
}

// RespondError sends an error in the requested format. Page and fragment
// requests get a plain text body.
func RespondError(c *gin.Context, f Format, err error) {
	switch f {
	case FormatJSON:
		RespondAppError(c, err)
	case FormatXML:
		code := errors.GetHTTPStatus(err)
		if code >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		c.XML(code, errors.ToResponse(err))
	default:
		code := errors.GetHTTPStatus(err)
		if code >= http.StatusInternalServerError {
			_ = c.Error(err)
			c.String(code, http.StatusText(code))
			return
		}
		c.String(code, errors.PublicMessage(err))
	}
}

// RespondJS sends a JavaScript body
func RespondJS(c *gin.Context, script string) {
	c.Data(http.StatusOK, constants.ContentTypeJS, []byte(script))
}

// RespondNotAcceptable rejects a format the action does not offer
func RespondNotAcceptable(c *gin.Context) {
	c.String(http.StatusNotAcceptable, http.StatusText(http.StatusNotAcceptable))
}

// HandleGetEnvelope executes a read action and returns the result wrapped in a JSON key
// Response: { [key]: result }
func HandleGetEnvelope(c *gin.Context, key string, action func() (interface{}, error)) {
	result, err := action()
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{key: result})
}

// RefererPath returns the path of the Referer header, "" when absent
func RefererPath(c *gin.Context) string {
	ref := c.GetHeader(constants.HeaderReferer)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(u.Path, "/")
}

// CalledFromIndexPage reports whether the request came from the listing of
// the given collection, e.g. "/leads"
func CalledFromIndexPage(c *gin.Context, collectionPath string) bool {
	return RefererPath(c) == collectionPath
}

// CalledFromLandingPage reports whether the request came from the page of
// a single record of the collection, e.g. "/campaigns/<id>"
func CalledFromLandingPage(c *gin.Context, collectionPath string) bool {
	rest, ok := strings.CutPrefix(RefererPath(c), collectionPath+"/")
	return ok && rest != "" && !strings.Contains(rest, "/")
}

// BindJSON binds JSON and returns true if successful. If failed, it sends bad request error.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondAppError(c, errors.NewValidationError("body", err.Error()))
		return false
	}
	return true
}
