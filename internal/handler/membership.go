package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/service"
)

type MembershipHandler struct {
	service *service.MembershipService
}

func NewMembershipHandler(service *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{service: service}
}

func (h *MembershipHandler) ListMembers(c *gin.Context) {
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
	page, err := h.service.ListMembers(ctx, callerID, companyID, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *MembershipHandler) Invite(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserID uuid.UUID `json:"user_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	invitation, err := h.service.Invite(ctx, callerID, companyID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invitation)
}

func (h *MembershipHandler) ListMyInvitations(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	p := bindPagination(c)

	ctx := c.Request.Context()
	page, err := h.service.ListMyInvitations(ctx, callerID, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *MembershipHandler) AcceptInvitation(c *gin.Context) {
	h.respondToInvitation(c, true)
}

func (h *MembershipHandler) DeclineInvitation(c *gin.Context) {
	h.respondToInvitation(c, false)
}

func (h *MembershipHandler) respondToInvitation(c *gin.Context, accept bool) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	invitationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.RespondToInvitation(ctx, callerID, invitationID, accept); err != nil {
		respondError(c, err)
		return
	}

	message := "Invitation declined"
	if accept {
		message = "Invitation accepted"
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *MembershipHandler) CancelInvitation(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	invitationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.CancelInvitation(ctx, callerID, invitationID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation cancelled"})
}

func (h *MembershipHandler) RequestToJoin(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	request, err := h.service.RequestToJoin(ctx, callerID, companyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *MembershipHandler) ListMyRequests(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	p := bindPagination(c)

	ctx := c.Request.Context()
	page, err := h.service.ListMyRequests(ctx, callerID, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *MembershipHandler) ListCompanyRequests(c *gin.Context) {
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
	page, err := h.service.ListCompanyRequests(ctx, callerID, companyID, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *MembershipHandler) AcceptRequest(c *gin.Context) {
	h.respondToRequest(c, true)
}

func (h *MembershipHandler) DeclineRequest(c *gin.Context) {
	h.respondToRequest(c, false)
}

func (h *MembershipHandler) respondToRequest(c *gin.Context, accept bool) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.RespondToRequest(ctx, callerID, requestID, accept); err != nil {
		respondError(c, err)
		return
	}

	message := "Request declined"
	if accept {
		message = "Request accepted"
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *MembershipHandler) CancelRequest(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.CancelRequest(ctx, callerID, requestID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request cancelled"})
}

func (h *MembershipHandler) Kick(c *gin.Context) {
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

	ctx := c.Request.Context()
	if err := h.service.Kick(ctx, callerID, companyID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

func (h *MembershipHandler) Leave(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.Leave(ctx, callerID, companyID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left company"})
}

func (h *MembershipHandler) AppointAdmin(c *gin.Context) {
	h.setAdmin(c, true)
}

func (h *MembershipHandler) RemoveAdmin(c *gin.Context) {
	h.setAdmin(c, false)
}

func (h *MembershipHandler) setAdmin(c *gin.Context, admin bool) {
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

	ctx := c.Request.Context()
	if err := h.service.SetAdmin(ctx, callerID, companyID, userID, admin); err != nil {
		respondError(c, err)
		return
	}

	message := "Admin role removed"
	if admin {
		message = "Admin role granted"
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}
