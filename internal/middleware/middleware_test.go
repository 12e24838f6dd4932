package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/pharmacy-payments/internal/auth"
	"github.com/anyulbade/pharmacy-payments/internal/model"
	"github.com/anyulbade/pharmacy-payments/internal/service"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &service.ValidationError{Field: "montant", Message: "must be greater than zero"}, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("get bank account: %w", pgx.ErrNoRows), http.StatusNotFound},
		{"overdraft", model.ErrOverdraftExceeded, http.StatusUnprocessableEntity},
		{"inactive account", model.ErrAccountInactive, http.StatusUnprocessableEntity},
		{"transition", model.ErrInvalidStatusTransition, http.StatusConflict},
		{"locked", model.ErrTransactionLocked, http.StatusConflict},
		{"payment missing", model.ErrPaymentNotFound, http.StatusUnprocessableEntity},
		{"schedule not active", model.ErrScheduleNotActive, http.StatusConflict},
		{"line closed", model.ErrLineClosed, http.StatusConflict},
		{"over remaining", model.ErrAmountExceedsRemaining, http.StatusUnprocessableEntity},
		{"no defaults", service.ErrNoRegionalDefaults, http.StatusUnprocessableEntity},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"unique", &pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, http.StatusConflict},
		{"check", &pgconn.PgError{Code: "23514"}, http.StatusBadRequest},
		{"exclusion", &pgconn.PgError{Code: "23P01"}, http.StatusConflict},
		{"unknown country", fmt.Errorf("init: %w", &pgconn.PgError{Code: "P0002"}), http.StatusUnprocessableEntity},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, resp := MapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("post: %w", model.ErrOverdraftExceeded))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/fail", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrOverdraftExceeded.Error(), resp.Error)
}

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenService("test-secret", "pharmacy-payments", time.Hour)
	id := auth.Identity{TenantID: uuid.New(), UserID: uuid.New()}

	router := gin.New()
	router.Use(Auth(tokens))
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant": TenantID(c).String(), "actor": ActorID(c).String()})
	})

	call := func(header string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("valid token", func(t *testing.T) {
		raw, _, err := tokens.Issue(id)
		require.NoError(t, err)

		w := call("Bearer " + raw)
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, id.TenantID.String(), body["tenant"])
		assert.Equal(t, id.UserID.String(), body["actor"])
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call("").Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call("Basic Zm9vOmJhcg==").Code)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other := auth.NewTokenService("other-secret", "pharmacy-payments", time.Hour)
		raw, _, err := other.Issue(id)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, call("Bearer "+raw).Code)
	})

	t.Run("expired", func(t *testing.T) {
		expired := auth.NewTokenService("test-secret", "pharmacy-payments", -time.Minute)
		raw, _, err := expired.Issue(id)
		require.NoError(t, err)
		w := call("Bearer " + raw)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "expired")
	})
}
