package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/pharmacy-payments/internal/auth"
	"github.com/anyulbade/pharmacy-payments/internal/model"
	"github.com/anyulbade/pharmacy-payments/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

var domainErrors = []struct {
	err    error
	status int
}{
	{model.ErrOverdraftExceeded, http.StatusUnprocessableEntity},
	{model.ErrAccountInactive, http.StatusUnprocessableEntity},
	{model.ErrInvalidStatusTransition, http.StatusConflict},
	{model.ErrTransactionLocked, http.StatusConflict},
	{model.ErrPaymentNotFound, http.StatusUnprocessableEntity},
	{model.ErrScheduleNotActive, http.StatusConflict},
	{model.ErrLineClosed, http.StatusConflict},
	{model.ErrAmountExceedsRemaining, http.StatusUnprocessableEntity},
	{service.ErrNoRegionalDefaults, http.StatusUnprocessableEntity},
	{auth.ErrMissingTenantID, http.StatusUnauthorized},
	{auth.ErrMissingUserID, http.StatusUnauthorized},
	{auth.ErrExpiredToken, http.StatusUnauthorized},
	{auth.ErrInvalidToken, http.StatusUnauthorized},
}

// MapError turns a service error into an HTTP status and body. Domain errors
// are checked first, then database errors.
func MapError(err error) (int, ErrorResponse) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ve.Error()}
	}
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			return d.status, ErrorResponse{Error: d.err.Error()}
		}
	}
	return MapDBError(err)
}

func MapDBError(err error) (int, ErrorResponse) {
	if errors.Is(err, pgx.ErrNoRows) {
		return http.StatusNotFound, ErrorResponse{Error: "resource not found"}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return http.StatusConflict, ErrorResponse{
				Error:   "resource already exists",
				Details: pgErr.Detail,
			}
		case "23503": // foreign_key_violation
			return http.StatusConflict, ErrorResponse{
				Error:   "resource is referenced or references a missing row",
				Details: pgErr.Detail,
			}
		case "23514": // check_violation
			return http.StatusBadRequest, ErrorResponse{
				Error:   "constraint violation",
				Details: pgErr.ConstraintName,
			}
		case "23P01": // exclusion_violation
			return http.StatusConflict, ErrorResponse{
				Error:   "overlapping resource",
				Details: pgErr.Detail,
			}
		case "P0002": // no_data_found, raised for an unknown country code
			return http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "no regional defaults for country",
				Details: pgErr.Message,
			}
		}
	}

	log.Error().Err(err).Msg("unhandled error")
	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			status, resp := MapError(err)
			c.JSON(status, resp)
		}
	}
}
