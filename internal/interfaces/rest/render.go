package rest

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Lumbe/lcrm-app/internal/config"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

var accessChoices = []string{constants.AccessPrivate, constants.AccessPublic, constants.AccessShared}

// renderView fills in the values every template relies on and renders
// name. Pages consume the pending flash messages, fragments leave them for
// the page that follows.
func renderView(c *gin.Context, settings *config.Settings, status int, name string, data gin.H) {
	view := gin.H{
		"CurrentUser":   GetUserFromContext(c),
		"Settings":      settings,
		"AccessChoices": accessChoices,
		"Naming":        constants.NamingBefore,
		"View":          constants.ViewBrief,
	}
	if !strings.HasSuffix(name, ".js") {
		view["Flash"] = GetSessionFromContext(c).TakeFlash()
	}
	for key, value := range data {
		view[key] = value
	}
	c.HTML(status, name, view)
}
