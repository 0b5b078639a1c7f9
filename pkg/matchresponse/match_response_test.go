package matchresponse

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhavalSuthar-24/scorebook/internal/scoring"
)

func respond(t *testing.T, handler gin.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/", handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func TestSuccessResponse_LiftsMessage(t *testing.T) {
	tests := []struct {
		name    string
		data    any
		message string
		hasData bool
	}{
		{"message only", gin.H{"message": "Logged out"}, "Logged out", false},
		{"message and data", gin.H{"message": "Created", "id": 4}, "Created", true},
		{"plain map", gin.H{"id": 4}, "", true},
		{"struct", struct{ ID int }{4}, "", true},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out := respond(t, func(c *gin.Context) { SuccessResponse(c, http.StatusOK, tt.data) }, "")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, true, out["ok"])
			assert.Equal(t, "success", out["status"])
			if tt.message != "" {
				assert.Equal(t, tt.message, out["message"])
			}
			_, hasData := out["data"]
			assert.Equal(t, tt.hasData, hasData)
			if data, ok := out["data"].(map[string]any); ok {
				assert.NotContains(t, data, "message")
			}
		})
	}
}

func TestPaginatedResponse(t *testing.T) {
	_, out := respond(t, func(c *gin.Context) {
		PaginatedResponse(c, http.StatusOK, []int{1, 2}, 2, 2, 5)
	}, "")

	p := out["pagination"].(map[string]any)
	assert.EqualValues(t, 5, p["total_items"])
	assert.EqualValues(t, 3, p["total_pages"])
	assert.Equal(t, true, p["has_next_page"])
	assert.Equal(t, true, p["has_prev_page"])
	assert.EqualValues(t, 3, p["next_page"])
	assert.EqualValues(t, 1, p["previous_page"])

	_, out = respond(t, func(c *gin.Context) {
		PaginatedResponse(c, http.StatusOK, []int{}, 1, 0, 0)
	}, "")
	p = out["pagination"].(map[string]any)
	assert.EqualValues(t, 0, p["total_pages"])
	assert.EqualValues(t, defaultPageSize, p["page_size"])
	assert.Equal(t, false, p["has_next_page"])
	assert.NotContains(t, p, "next_page")
}

func TestValidationErrorResponse(t *testing.T) {
	type request struct {
		Name  string `json:"name" binding:"required"`
		Overs int    `json:"overs" binding:"min=1,max=50"`
	}
	bind := func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			ValidationErrorResponse(c, err)
		}
	}

	w, out := respond(t, bind, `{"overs": 60}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, out["ok"])
	fields := out["errors"].(map[string]any)
	assert.Equal(t, "Name is required", fields["name"])
	assert.Equal(t, "Overs must be at most 50", fields["overs"])

	w, out = respond(t, bind, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, out, "errors")
	assert.Contains(t, out["message"], "Invalid request payload")
}

func TestScoringErrorResponse(t *testing.T) {
	tests := []struct {
		err     error
		code    int
		kind    string
		message string
	}{
		{&scoring.Error{Kind: scoring.KindInvalidState, Message: "toss already recorded"}, http.StatusConflict, "invalid_state", "toss already recorded"},
		{&scoring.Error{Kind: scoring.KindUnknownPlayer, Message: "bowler 9 is not in the bowling squad"}, http.StatusUnprocessableEntity, "unknown_player", "bowler 9 is not in the bowling squad"},
		{&scoring.Error{Kind: scoring.KindValidation, Message: "expected ball 0.2"}, http.StatusBadRequest, "validation_error", "expected ball 0.2"},
		{errors.New("connection reset"), http.StatusInternalServerError, "", "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			w, out := respond(t, func(c *gin.Context) { ScoringErrorResponse(c, tt.err) }, "")
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, false, out["ok"])
			assert.Equal(t, tt.message, out["message"])
			if tt.kind == "" {
				assert.NotContains(t, out, "kind")
				assert.Equal(t, "fail", out["status"])
			} else {
				assert.Equal(t, tt.kind, out["kind"])
			}
		})
	}
}
