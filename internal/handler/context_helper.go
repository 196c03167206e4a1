package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smart-campus-api/internal/middleware"
	"github.com/noah-isme/smart-campus-api/internal/models"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// Clock returns the current instant in the campus timezone.
type Clock func() time.Time

// NewClock builds a Clock bound to loc.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil
	}
	return claims
}

// dateQuery reads ?date=YYYY-MM-DD, defaulting to today.
func dateQuery(c *gin.Context, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		return now, nil
	}
	parsed, err := time.ParseInLocation(dateLayout, raw, now.Location())
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	return parsed, nil
}

// weekdayQuery reads ?day=0..6 (0 is Monday), defaulting to today.
func weekdayQuery(c *gin.Context, now time.Time) (models.Weekday, error) {
	raw := strings.TrimSpace(c.Query("day"))
	if raw == "" {
		return models.WeekdayOf(now), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || !models.Weekday(n).Valid() {
		return 0, appErrors.Clone(appErrors.ErrValidation, "day must be between 0 (Monday) and 6 (Sunday)")
	}
	return models.Weekday(n), nil
}
