package rest

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/Lumbe/lcrm-app/internal/domain/models"
)

const contextKeyParams = "params"

// Params merges the query string, the form body and a JSON body into one
// attribute tree. Bracketed form keys nest: lead[first_name] becomes
// params["lead"]["first_name"] and lead[user_ids][] collects a list.
// The result is cached on the context.
func Params(c *gin.Context) models.Attributes {
	if cached, ok := c.Get(contextKeyParams); ok {
		if params, ok := cached.(models.Attributes); ok {
			return params
		}
	}

	params := models.Attributes{}
	if c.ContentType() == binding.MIMEJSON && c.Request.Body != nil {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err == nil {
			for key, value := range body {
				params[key] = normalizeJSON(value)
			}
		}
	}

	// ParseMultipartForm also fills Form for urlencoded bodies
	_ = c.Request.ParseMultipartForm(32 << 20)
	for key, values := range c.Request.Form {
		if len(values) > 0 {
			setParam(params, key, values)
		}
	}

	c.Set(contextKeyParams, params)
	return params
}

// Param returns a top-level parameter and whether it was sent
func Param(c *gin.Context, name string) (string, bool) {
	return Params(c).GetString(name)
}

// IntParam returns a top-level integer parameter, nil when absent or malformed
func IntParam(c *gin.Context, name string) *int {
	n, ok := Params(c).GetInt(name)
	if !ok {
		return nil
	}
	return &n
}

// StringParam returns a top-level parameter, nil when absent
func StringParam(c *gin.Context, name string) *string {
	v, ok := Param(c, name)
	if !ok {
		return nil
	}
	return &v
}

func normalizeJSON(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		attrs := make(models.Attributes, len(v))
		for key, inner := range v {
			attrs[key] = normalizeJSON(inner)
		}
		return attrs
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, inner := range v {
			out[i] = normalizeJSON(inner)
		}
		return out
	default:
		return v
	}
}

// splitKey breaks "lead[user_ids][]" into ["lead", "user_ids", ""]
func splitKey(key string) []string {
	name, rest, found := strings.Cut(key, "[")
	parts := []string{name}
	if !found {
		return parts
	}
	rest = "[" + rest
	for strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			break
		}
		parts = append(parts, rest[1:end])
		rest = rest[end+1:]
	}
	return parts
}

func setParam(params models.Attributes, key string, values []string) {
	parts := splitKey(key)
	node := params
	for i, part := range parts {
		if i == len(parts)-1 {
			node[part] = values[len(values)-1]
			return
		}
		if parts[i+1] == "" {
			existing, _ := node[part].([]string)
			node[part] = append(existing, values...)
			return
		}
		child, ok := node[part].(models.Attributes)
		if !ok {
			child = models.Attributes{}
			node[part] = child
		}
		node = child
	}
}
