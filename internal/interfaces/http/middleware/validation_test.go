package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glowstudio/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceForm struct {
	Name  string `json:"name" binding:"required,min=2"`
	Slug  string `json:"slug" binding:"omitempty,slug"`
	Phone string `json:"phone" binding:"omitempty,phone"`
	Level string `json:"level" binding:"omitempty,oneof=beginner advanced"`
}

func bindRouter() *gin.Engine {
	SetupValidator()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.POST("/test", func(c *gin.Context) {
		var req serviceForm
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func post(r http.Handler, body string) (*httptest.ResponseRecorder, dto.Response) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHandleValidationError_FieldDetails(t *testing.T) {
	w, resp := post(bindRouter(), `{"name":"x","slug":"Bridal Glam","phone":"call me","level":"expert"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)

	fields := map[string]string{}
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "Must be at least 2 characters", fields["name"])
	assert.Equal(t, "Must be lowercase letters, digits and single hyphens", fields["slug"])
	assert.Equal(t, "Invalid phone number", fields["phone"])
	assert.Equal(t, "Must be one of: beginner advanced", fields["level"])
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	w, resp := post(bindRouter(), `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestCustomValidators_Accept(t *testing.T) {
	w, _ := post(bindRouter(), `{"name":"Bridal glam","slug":"bridal-glam-2","phone":"+44 (20) 7946-0958","level":"beginner"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}
