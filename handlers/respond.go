package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/utils"
)

// respondError maps a typed domain error onto an HTTP status and the
// {"error": ...} body the API speaks. Unclassified errors become a 500 with
// a generic body; the cause is logged, never leaked.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrConflict) || errors.Is(err, utils.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrValidation),
		errors.Is(err, utils.ErrInvalidQuantity),
		errors.Is(err, utils.ErrInvalidPrice),
		errors.Is(err, utils.ErrInvalidTaxRate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// isUniqueViolation reports whether err is a duplicate-key failure. Postgres
// reports SQLSTATE 23505; the sqlite driver used in tests only gives us the
// message text.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
