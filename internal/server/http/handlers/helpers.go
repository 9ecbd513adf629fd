package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/server/http/middleware"
)

// CurrentAdminID extracts authenticated admin identifier from context.
func CurrentAdminID(c *gin.Context) string {
	return c.GetString(middleware.AdminIDContextKey)
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	day, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return nil, domainErrors.NewValidationError(key, "must be a date in YYYY-MM-DD format")
	}
	return &day, nil
}

func requiredDateRange(c *gin.Context) (time.Time, time.Time, error) {
	fields := map[string]string{}
	var from, to time.Time
	for _, key := range []string{"from", "to"} {
		day, err := queryDate(c, key)
		switch {
		case err != nil:
			fields[key] = "must be a date in YYYY-MM-DD format"
		case day == nil:
			fields[key] = "is required"
		case key == "from":
			from = *day
		default:
			to = *day
		}
	}
	if len(fields) > 0 {
		return time.Time{}, time.Time{}, &domainErrors.ValidationError{Fields: fields}
	}
	return from, to, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domainErrors.NewValidationError(key, "must be a positive integer")
	}
	return n, nil
}
