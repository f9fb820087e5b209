package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/service"
)

type AttemptHandler struct {
	service *service.AttemptService
}

func NewAttemptHandler(service *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{service: service}
}

func (h *AttemptHandler) Submit(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Answers []service.AnswerSubmission `json:"answers" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	attempt, err := h.service.Submit(ctx, callerID, quizID, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attempt)
}

func (h *AttemptHandler) History(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	p := bindPagination(c)

	companyID, ok := optionalIDQuery(c, "company_id")
	if !ok {
		return
	}
	quizID, ok := optionalIDQuery(c, "quiz_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	page, err := h.service.History(ctx, callerID, companyID, quizID, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *AttemptHandler) Statistics(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	companyID, ok := optionalIDQuery(c, "company_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	stats, err := h.service.Statistics(ctx, callerID, companyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func optionalIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return nil, false
	}

	return &id, true
}
