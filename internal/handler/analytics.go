package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qoach/quiz-backend/internal/service"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) MyOverallRating(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	rating, err := h.service.MyOverallRating(ctx, callerID)
	if err != nil {
		respondError(c, err)
		return
	}

	average := 0.0
	if rating.TotalAnswers > 0 {
		average = float64(rating.CorrectAnswers) / float64(rating.TotalAnswers)
	}

	c.JSON(http.StatusOK, gin.H{
		"average_score":   average,
		"correct_answers": rating.CorrectAnswers,
		"total_answers":   rating.TotalAnswers,
	})
}

func (h *AnalyticsHandler) MyQuizAverages(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	from, ok := dateQuery(c, "from_date")
	if !ok {
		return
	}
	to, ok := dateQuery(c, "to_date")
	if !ok {
		return
	}

	p := bindPagination(c)

	ctx := c.Request.Context()
	page, err := h.service.MyQuizAverages(ctx, callerID, from, to.AddDate(0, 0, 1), p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *AnalyticsHandler) MyLastCompletions(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	p := bindPagination(c)

	ctx := c.Request.Context()
	page, err := h.service.MyLastCompletions(ctx, callerID, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *AnalyticsHandler) CompanyWeeklyAverages(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	p := bindPagination(c)

	ctx := c.Request.Context()
	page, err := h.service.CompanyWeeklyAverages(ctx, callerID, companyID, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *AnalyticsHandler) CompanyUserWeeklyAverages(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	p := bindPagination(c)

	ctx := c.Request.Context()
	page, err := h.service.CompanyUserWeeklyAverages(ctx, callerID, companyID, userID, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *AnalyticsHandler) CompanyMembersLastAttempts(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	p := bindPagination(c)

	ctx := c.Request.Context()
	page, err := h.service.CompanyMembersLastAttempts(ctx, callerID, companyID, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// dateQuery parses a required YYYY-MM-DD query parameter.
func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return time.Time{}, false
	}

	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be YYYY-MM-DD"})
		return time.Time{}, false
	}

	return parsed, true
}
