package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psicocitas-web/internal/models"
)

type profileRequest struct {
	Telefono string `json:"telefono" binding:"required,celular"`
	Sede     string `json:"sede" binding:"required,sede"`
}

func TestCelularPattern(t *testing.T) {
	assert.True(t, CelularPattern.MatchString("987654321"))
	assert.False(t, CelularPattern.MatchString("887654321"))
	assert.False(t, CelularPattern.MatchString("98765432"))
	assert.False(t, CelularPattern.MatchString("9876543210"))
}

func TestValidateCustomTags(t *testing.T) {
	require.NoError(t, Validate(&profileRequest{Telefono: "912345678", Sede: "Cusco"}))

	err := Validate(&profileRequest{Telefono: "12345", Sede: "Cusco"})
	require.Error(t, err)
	assert.Equal(t, "Ingrese un número de celular correcto", FormatValidationError(err))

	err = Validate(&profileRequest{Telefono: "912345678", Sede: "Lima"})
	require.Error(t, err)
	assert.Contains(t, FormatValidationError(err), "sede válida")
}

func TestBindAndValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"telefono":"8","sede":"Cusco"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req profileRequest
	assert.False(t, BindAndValidate(c, &req))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ResponseData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Ingrese un número de celular correcto", body.Error)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	now := time.Now()
	claims := &SessionClaims{SessionID: "abc", Role: models.RolePsicologo, RegisteredClaims: NewRegisteredClaims("7", time.Hour, now)}
	token, err := SignToken(claims, "secret")
	require.NoError(t, err)

	parsed := &SessionClaims{}
	require.NoError(t, ValidateToken(token, parsed, "secret"))
	assert.Equal(t, "abc", parsed.SessionID)
	assert.Equal(t, models.RolePsicologo, parsed.Role)

	assert.Error(t, ValidateToken(token, &SessionClaims{}, "other"))
}

func TestExpiredTokenRejected(t *testing.T) {
	claims := &PendingClaims{Sealed: "x", RegisteredClaims: NewRegisteredClaims("", time.Minute, time.Now().Add(-time.Hour))}
	token, err := SignToken(claims, "secret")
	require.NoError(t, err)
	assert.Error(t, ValidateToken(token, &PendingClaims{}, "secret"))
}

func TestErrorEnvelopeAbortsChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reached := false
	r.GET("/upstream", func(c *gin.Context) { BadGateway(c, "") }, func(c *gin.Context) { reached = true })
	r.GET("/form", func(c *gin.Context) {
		ErrorWithData(c, http.StatusBadRequest, "Complete los campos obligatorios", gin.H{"valid": false})
	})
	r.GET("/teapot", func(c *gin.Context) { Error(c, http.StatusTeapot, "") })
	r.GET("/next", func(c *gin.Context) { Navigate(c, "Cita actualizada correctamente", "/dashboard") })

	get := func(path string) (int, ResponseData, string) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		var body ResponseData
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return w.Code, body, w.Body.String()
	}

	code, body, _ := get("/upstream")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "El servicio de citas no respondió correctamente", body.Error)
	assert.Equal(t, "Ocurrió un error", body.Message)
	assert.False(t, reached)

	code, body, raw := get("/form")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Complete los campos obligatorios", body.Error)
	assert.Contains(t, raw, `"valid":false`)

	_, body, _ = get("/teapot")
	assert.Equal(t, http.StatusText(http.StatusTeapot), body.Error)

	code, _, raw = get("/next")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, raw, `"redirect":"/dashboard"`)
	assert.NotContains(t, raw, `"error"`)
}
