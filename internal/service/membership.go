package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/pagination"
	"github.com/qoach/quiz-backend/internal/repository"
)

// MembershipService covers everything about who belongs to a company:
// invitations, join requests, member listing, roles, kicking and leaving.
type MembershipService struct {
	companies   *repository.CompanyRepository
	members     *repository.MemberRepository
	invitations *repository.InvitationRepository
	requests    *repository.JoinRequestRepository
	users       *repository.UserRepository
}

func NewMembershipService(
	companies *repository.CompanyRepository,
	members *repository.MemberRepository,
	invitations *repository.InvitationRepository,
	requests *repository.JoinRequestRepository,
	users *repository.UserRepository,
) *MembershipService {
	return &MembershipService{
		companies:   companies,
		members:     members,
		invitations: invitations,
		requests:    requests,
		users:       users,
	}
}

// RequireAdmin passes when the caller is the company owner or an admin.
func (s *MembershipService) RequireAdmin(ctx context.Context, companyID, userID uuid.UUID) error {
	member, err := s.members.Find(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if member == nil || (member.Role != models.RoleOwner && member.Role != models.RoleAdmin) {
		return fmt.Errorf("%w: owner or admin role required", ErrForbidden)
	}

	return nil
}

// RequireOwner passes only for the company owner.
func (s *MembershipService) RequireOwner(ctx context.Context, companyID, userID uuid.UUID) error {
	member, err := s.members.Find(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if member == nil || member.Role != models.RoleOwner {
		return fmt.Errorf("%w: owner role required", ErrForbidden)
	}

	return nil
}

// IsMember reports whether the user belongs to the company at all.
func (s *MembershipService) IsMember(ctx context.Context, companyID, userID uuid.UUID) (bool, error) {
	member, err := s.members.Find(ctx, companyID, userID)
	if err != nil {
		return false, err
	}

	return member != nil, nil
}

func (s *MembershipService) ListMembers(ctx context.Context, callerID, companyID uuid.UUID, p pagination.Params) (pagination.Page[models.CompanyMember], error) {
	isMember, err := s.IsMember(ctx, companyID, callerID)
	if err != nil {
		return pagination.Page[models.CompanyMember]{}, err
	}
	if !isMember {
		return pagination.Page[models.CompanyMember]{}, fmt.Errorf("%w: members only", ErrForbidden)
	}

	members, total, err := s.members.ListByCompany(ctx, companyID, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[models.CompanyMember]{}, err
	}

	return pagination.NewPage(members, total, p), nil
}

// Invite sends a company invitation to a user. Owner/admin only.
func (s *MembershipService) Invite(ctx context.Context, callerID, companyID, userID uuid.UUID) (*models.Invitation, error) {
	if err := s.RequireAdmin(ctx, companyID, callerID); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	existing, err := s.members.Find(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user is already a member", ErrConflict)
	}

	pending, err := s.invitations.FindPending(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, fmt.Errorf("%w: invitation already pending", ErrConflict)
	}

	invitation := &models.Invitation{
		CompanyID: companyID,
		UserID:    userID,
		Status:    models.StatusPending,
	}

	if err := s.invitations.Create(ctx, invitation); err != nil {
		return nil, err
	}

	return invitation, nil
}

func (s *MembershipService) ListMyInvitations(ctx context.Context, userID uuid.UUID, p pagination.Params) (pagination.Page[models.Invitation], error) {
	invitations, total, err := s.invitations.ListByUser(ctx, userID, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[models.Invitation]{}, err
	}

	return pagination.NewPage(invitations, total, p), nil
}

// RespondToInvitation lets the invited user accept or decline. Accepting
// records the membership.
func (s *MembershipService) RespondToInvitation(ctx context.Context, callerID, invitationID uuid.UUID, accept bool) error {
	invitation, err := s.invitations.FindByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if invitation == nil {
		return fmt.Errorf("%w: invitation", ErrNotFound)
	}
	if invitation.UserID != callerID {
		return fmt.Errorf("%w: not your invitation", ErrForbidden)
	}
	if invitation.Status != models.StatusPending {
		return fmt.Errorf("%w: invitation already %s", ErrConflict, invitation.Status)
	}

	if !accept {
		return s.invitations.UpdateStatus(ctx, invitationID, models.StatusDeclined)
	}

	member := &models.CompanyMember{
		CompanyID: invitation.CompanyID,
		UserID:    invitation.UserID,
		Role:      models.RoleMember,
	}

	return s.invitations.Accept(ctx, invitationID, member)
}

// CancelInvitation withdraws a pending invitation. Owner/admin only.
func (s *MembershipService) CancelInvitation(ctx context.Context, callerID, invitationID uuid.UUID) error {
	invitation, err := s.invitations.FindByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if invitation == nil {
		return fmt.Errorf("%w: invitation", ErrNotFound)
	}
	if invitation.Status != models.StatusPending {
		return fmt.Errorf("%w: invitation already %s", ErrConflict, invitation.Status)
	}

	if err := s.RequireAdmin(ctx, invitation.CompanyID, callerID); err != nil {
		return err
	}

	return s.invitations.Delete(ctx, invitationID)
}

// RequestToJoin creates a join request from the caller to a company.
func (s *MembershipService) RequestToJoin(ctx context.Context, callerID, companyID uuid.UUID) (*models.JoinRequest, error) {
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil || !company.IsVisible {
		return nil, fmt.Errorf("%w: company", ErrNotFound)
	}

	existing, err := s.members.Find(ctx, companyID, callerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: already a member", ErrConflict)
	}

	pending, err := s.requests.FindPending(ctx, companyID, callerID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, fmt.Errorf("%w: request already pending", ErrConflict)
	}

	request := &models.JoinRequest{
		CompanyID: companyID,
		UserID:    callerID,
		Status:    models.StatusPending,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func (s *MembershipService) ListMyRequests(ctx context.Context, userID uuid.UUID, p pagination.Params) (pagination.Page[models.JoinRequest], error) {
	requests, total, err := s.requests.ListByUser(ctx, userID, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[models.JoinRequest]{}, err
	}

	return pagination.NewPage(requests, total, p), nil
}

func (s *MembershipService) ListCompanyRequests(ctx context.Context, callerID, companyID uuid.UUID, p pagination.Params) (pagination.Page[models.JoinRequest], error) {
	if err := s.RequireAdmin(ctx, companyID, callerID); err != nil {
		return pagination.Page[models.JoinRequest]{}, err
	}

	requests, total, err := s.requests.ListByCompany(ctx, companyID, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[models.JoinRequest]{}, err
	}

	return pagination.NewPage(requests, total, p), nil
}

// RespondToRequest lets an owner/admin accept or decline a join request.
func (s *MembershipService) RespondToRequest(ctx context.Context, callerID, requestID uuid.UUID, accept bool) error {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return fmt.Errorf("%w: join request", ErrNotFound)
	}
	if request.Status != models.StatusPending {
		return fmt.Errorf("%w: request already %s", ErrConflict, request.Status)
	}

	if err := s.RequireAdmin(ctx, request.CompanyID, callerID); err != nil {
		return err
	}

	if !accept {
		return s.requests.UpdateStatus(ctx, requestID, models.StatusDeclined)
	}

	member := &models.CompanyMember{
		CompanyID: request.CompanyID,
		UserID:    request.UserID,
		Role:      models.RoleMember,
	}

	return s.requests.Accept(ctx, requestID, member)
}

// CancelRequest withdraws the caller's own pending join request.
func (s *MembershipService) CancelRequest(ctx context.Context, callerID, requestID uuid.UUID) error {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return fmt.Errorf("%w: join request", ErrNotFound)
	}
	if request.UserID != callerID {
		return fmt.Errorf("%w: not your request", ErrForbidden)
	}
	if request.Status != models.StatusPending {
		return fmt.Errorf("%w: request already %s", ErrConflict, request.Status)
	}

	return s.requests.Delete(ctx, requestID)
}

// Kick removes a member. Owner/admin only; the owner cannot be kicked.
func (s *MembershipService) Kick(ctx context.Context, callerID, companyID, userID uuid.UUID) error {
	if err := s.RequireAdmin(ctx, companyID, callerID); err != nil {
		return err
	}

	member, err := s.members.Find(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return fmt.Errorf("%w: member", ErrNotFound)
	}
	if member.Role == models.RoleOwner {
		return fmt.Errorf("%w: the owner cannot be removed", ErrInvalid)
	}

	return s.members.Delete(ctx, companyID, userID)
}

// Leave removes the caller's own membership. Owners must delete or
// transfer the company instead.
func (s *MembershipService) Leave(ctx context.Context, callerID, companyID uuid.UUID) error {
	member, err := s.members.Find(ctx, companyID, callerID)
	if err != nil {
		return err
	}
	if member == nil {
		return fmt.Errorf("%w: membership", ErrNotFound)
	}
	if member.Role == models.RoleOwner {
		return fmt.Errorf("%w: the owner cannot leave their own company", ErrInvalid)
	}

	return s.members.Delete(ctx, companyID, callerID)
}

// SetAdmin promotes a member to admin or demotes an admin back to member.
// Owner only.
func (s *MembershipService) SetAdmin(ctx context.Context, callerID, companyID, userID uuid.UUID, admin bool) error {
	if err := s.RequireOwner(ctx, companyID, callerID); err != nil {
		return err
	}

	member, err := s.members.Find(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return fmt.Errorf("%w: member", ErrNotFound)
	}
	if member.Role == models.RoleOwner {
		return fmt.Errorf("%w: owner role cannot be changed", ErrInvalid)
	}

	role := models.RoleMember
	if admin {
		role = models.RoleAdmin
	}

	if member.Role == role {
		return fmt.Errorf("%w: member already has role %s", ErrConflict, role)
	}

	return s.members.UpdateRole(ctx, companyID, userID, role)
}
