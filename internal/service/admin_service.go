package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/civnet/issue-service/internal/auth"
	"github.com/civnet/issue-service/internal/domain"
	"github.com/civnet/issue-service/internal/events"
	"github.com/civnet/issue-service/internal/repository"
	apperrors "github.com/civnet/issue-service/pkg/util/errorutil"
)

// AdminService handles admin account management, reserved to the system
// admin by policy.
type AdminService struct {
	users      repository.UserRepository
	bcryptCost int
	dispatcher events.Dispatcher
}

// AdminAccount is a roster entry: an admin plus how many issues they have
// responded to.
type AdminAccount struct {
	User           domain.User
	RespondedCount int64
}

// AdminCreateInput describes a new admin account.
type AdminCreateInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        domain.Role
}

// NewAdminService constructs the service.
func NewAdminService(users repository.UserRepository, bcryptCost int, dispatcher events.Dispatcher) *AdminService {
	return &AdminService{users: users, bcryptCost: bcryptCost, dispatcher: dispatcher}
}

// Roster lists admin and system admin accounts, newest first, with their
// authored-response counts.
func (s *AdminService) Roster(ctx context.Context, principal *auth.Principal) ([]AdminAccount, error) {
	if !auth.Allows(principal.Role, auth.ActionViewAdminRoster) {
		return nil, apperrors.NewForbidden("not allowed to view admin roster")
	}

	admins, err := s.users.ListByRoles(ctx, domain.RoleAdmin, domain.RoleSystemAdmin)
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}

	roster := make([]AdminAccount, 0, len(admins))
	for _, admin := range admins {
		count, err := s.users.CountRespondedIssues(ctx, admin.ID)
		if err != nil {
			return nil, apperrors.NewStoreFailure(err)
		}
		roster = append(roster, AdminAccount{User: admin, RespondedCount: count})
	}
	return roster, nil
}

// CreateAdmin registers a new admin or system admin account.
func (s *AdminService) CreateAdmin(ctx context.Context, principal *auth.Principal, input AdminCreateInput) (*domain.User, error) {
	if !auth.Allows(principal.Role, auth.ActionManageAdmins) {
		return nil, apperrors.NewForbidden("not allowed to manage admins")
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password required", nil)
	}
	role := input.Role
	if role == "" {
		role = domain.RoleAdmin
	}
	if role != domain.RoleAdmin && role != domain.RoleSystemAdmin {
		return nil, apperrors.NewValidationError("role must be admin or system_admin", map[string]any{"role": role})
	}

	normalized := repository.NormalizeEmail(input.Email)
	if _, err := s.users.GetByEmail(ctx, normalized); err == nil {
		return nil, apperrors.NewDuplicateEmail(normalized)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.NewStoreFailure(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	admin := &domain.User{
		Email:        normalized,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         role,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}

	s.publishRoleChange(ctx, principal.ID, admin.ID, domain.RoleCitizen, admin.Role)
	return admin, nil
}

// Demote sets an admin's role back to citizen. Accounts are never hard
// deleted; demotion is the deletion substitute. The system admin cannot be
// demoted. Issues the admin previously responded to keep their
// responded-by reference.
func (s *AdminService) Demote(ctx context.Context, principal *auth.Principal, userID string) (*domain.User, error) {
	if !auth.Allows(principal.Role, auth.ActionManageAdmins) {
		return nil, apperrors.NewForbidden("not allowed to manage admins")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return nil, apperrors.NewStoreFailure(err)
	}

	if user.Role == domain.RoleSystemAdmin {
		return nil, apperrors.NewForbidden("system administrator cannot be demoted")
	}
	if user.Role == domain.RoleCitizen {
		return user, nil
	}

	oldRole := user.Role
	user.Role = domain.RoleCitizen
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}

	s.publishRoleChange(ctx, principal.ID, user.ID, oldRole, user.Role)
	return user, nil
}

func (s *AdminService) publishRoleChange(ctx context.Context, actorID, userID string, oldRole, newRole domain.Role) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAdminRoleChanged,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload: events.AdminRoleChangedPayload{
			UserID:  userID,
			OldRole: oldRole,
			NewRole: newRole,
		},
	})
}
