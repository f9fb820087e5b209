package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qoach/quiz-backend/internal/service"
)

type QuizHandler struct {
	service *service.QuizService
}

func NewQuizHandler(service *service.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

func (h *QuizHandler) Create(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title       string                  `json:"title" binding:"required"`
		Description string                  `json:"description"`
		Questions   []service.QuestionInput `json:"questions" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	quiz, err := h.service.Create(ctx, callerID, companyID, req.Title, req.Description, req.Questions)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) ListByCompany(c *gin.Context) {
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
	page, err := h.service.ListByCompany(ctx, callerID, companyID, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *QuizHandler) Get(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	quiz, err := h.service.Get(ctx, callerID, quizID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// Take serves the quiz without the correct-answer flags, for answering.
func (h *QuizHandler) Take(c *gin.Context) {
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	view, err := h.service.GetForTaking(ctx, quizID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *QuizHandler) Update(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title       *string                 `json:"title"`
		Description *string                 `json:"description"`
		Questions   []service.QuestionInput `json:"questions"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	quiz, err := h.service.Update(ctx, callerID, quizID, req.Title, req.Description, req.Questions)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) Delete(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.Delete(ctx, callerID, quizID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted"})
}
