// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for request ID and API key middleware

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID_MintsWhenAbsent(t *testing.T) {
	var captured string
	router := gin.New()
	router.GET("/", RequestID(), func(c *gin.Context) {
		captured = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/", nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)

	require.NotEmpty(t, captured)
	_, err = uuid.Parse(captured)
	assert.NoError(t, err, "minted request ID should be a UUID")
	assert.Equal(t, captured, w.Header().Get(RequestIDHeader))
}

func TestRequestID_KeepsInboundID(t *testing.T) {
	var captured string
	router := gin.New()
	router.GET("/", RequestID(), func(c *gin.Context) {
		captured = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "upstream-42")
	router.ServeHTTP(w, req)

	assert.Equal(t, "upstream-42", captured)
	assert.Equal(t, "upstream-42", w.Header().Get(RequestIDHeader))
}

func TestGetRequestID_WithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", GetRequestID(c))
}

func authRouter(key string) *gin.Engine {
	router := gin.New()
	router.GET("/", APIKeyAuth(key), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func authRequest(t *testing.T, router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/", nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAPIKeyAuth_DisabledWhenKeyEmpty(t *testing.T) {
	w := authRequest(t, authRouter(""), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuth_AcceptsHeaderKey(t *testing.T) {
	w := authRequest(t, authRouter("secret"), map[string]string{APIKeyHeader: "secret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuth_AcceptsBearerToken(t *testing.T) {
	w := authRequest(t, authRouter("secret"), map[string]string{"Authorization": "Bearer secret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuth_RejectsMissingKey(t *testing.T) {
	w := authRequest(t, authRouter("secret"), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyAuth_RejectsWrongKey(t *testing.T) {
	w := authRequest(t, authRouter("secret"), map[string]string{APIKeyHeader: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = authRequest(t, authRouter("secret"), map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
