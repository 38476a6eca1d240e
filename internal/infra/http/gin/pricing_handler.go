package ginserver

import (
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	pricingapp "weekstay/internal/app/handlers/pricing"
	"weekstay/internal/app/queries"
)

// PricingHandler serves anonymous quotes, so it skips the identity check that
// the proposal routes require.
type PricingHandler struct {
	Queries queries.Bus
}

func (h PricingHandler) Quote(c *gin.Context) {
	days, err := parseDays(c.Query("days"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	spanWeeks := 1
	if raw := c.Query("span_weeks"); raw != "" {
		spanWeeks, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "span_weeks must be an integer"})
			return
		}
	}
	q := pricingapp.QuoteScheduleQuery{
		ListingID: c.Param("id"),
		Days:      days,
		SpanWeeks: spanWeeks,
	}
	result, err := queries.Ask[pricingapp.QuoteScheduleQuery, *pricingapp.QuoteScheduleResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// parseDays reads a comma separated weekday list, e.g. "1,2,3,4,5".
func parseDays(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

var _ PricingHTTP = PricingHandler{}
