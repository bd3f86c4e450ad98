package rest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Lumbe/lcrm-app/pkg/errors"
)

func TestRespondError_PlainText(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		code   int
		body   string
		logged int
	}{
		{
			name: "not found",
			err:  fmt.Errorf("show: %w", errors.NewNotFoundError("Lead", "42")),
			code: http.StatusNotFound,
			body: "Lead with ID '42' not found",
		},
		{
			name:   "driver failure",
			err:    fmt.Errorf("failed to insert lead: %w", fmt.Errorf("Error 1146: Table 'crm.leads' doesn't exist")),
			code:   http.StatusInternalServerError,
			body:   "Internal Server Error",
			logged: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/leads/42", nil)

			RespondError(c, FormatJS, tt.err)
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
			assert.Len(t, c.Errors, tt.logged)
		})
	}
}
