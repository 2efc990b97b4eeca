package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/civnet/issue-service/internal/auth"
	"github.com/civnet/issue-service/internal/domain"
)

func systemAdminPrincipal(id string) *auth.Principal {
	return &auth.Principal{ID: id, Email: id + "@city.gov", Role: domain.RoleSystemAdmin}
}

func newAdminFixture(t *testing.T) (*AdminService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	return NewAdminService(repo, bcrypt.MinCost, nil), repo
}

func TestCreateAdminAndRoster(t *testing.T) {
	svc, _ := newAdminFixture(t)
	ctx := context.Background()
	root := systemAdminPrincipal("root")

	created, err := svc.CreateAdmin(ctx, root, AdminCreateInput{
		Email:       "Bob@City.GOV",
		Password:    "secret",
		DisplayName: "Bob",
		Role:        domain.RoleAdmin,
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, created.Role)
	require.Equal(t, "bob@city.gov", created.Email)

	roster, err := svc.Roster(ctx, root)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	require.Equal(t, created.ID, roster[0].User.ID)

	// Duplicate email rejected regardless of case.
	_, err = svc.CreateAdmin(ctx, root, AdminCreateInput{
		Email:       "bob@city.gov",
		Password:    "other",
		DisplayName: "Bob Again",
	})
	requireCode(t, err, "DUPLICATE_EMAIL")
}

func TestAdminManagementRequiresSystemAdmin(t *testing.T) {
	svc, _ := newAdminFixture(t)
	ctx := context.Background()

	for _, principal := range []*auth.Principal{citizenPrincipal("alice"), adminPrincipal("bob")} {
		_, err := svc.Roster(ctx, principal)
		requireCode(t, err, "FORBIDDEN")

		_, err = svc.CreateAdmin(ctx, principal, AdminCreateInput{
			Email: "x@city.gov", Password: "pw", DisplayName: "X",
		})
		requireCode(t, err, "FORBIDDEN")

		_, err = svc.Demote(ctx, principal, "some-id")
		requireCode(t, err, "FORBIDDEN")
	}
}

func TestDemoteAdminToCitizen(t *testing.T) {
	svc, repo := newAdminFixture(t)
	ctx := context.Background()
	root := systemAdminPrincipal("root")

	admin, err := svc.CreateAdmin(ctx, root, AdminCreateInput{
		Email: "bob@city.gov", Password: "pw", DisplayName: "Bob",
	})
	require.NoError(t, err)

	demoted, err := svc.Demote(ctx, root, admin.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleCitizen, demoted.Role)

	// The account still exists; demotion is the deletion substitute.
	stored, err := repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleCitizen, stored.Role)
}

func TestSystemAdminCannotBeDemoted(t *testing.T) {
	svc, repo := newAdminFixture(t)
	ctx := context.Background()
	root := systemAdminPrincipal("root")

	sysAdmin := &domain.User{
		Email:        "root2@city.gov",
		PasswordHash: "hash",
		DisplayName:  "Root Two",
		Role:         domain.RoleSystemAdmin,
	}
	require.NoError(t, repo.Create(ctx, sysAdmin))

	_, err := svc.Demote(ctx, root, sysAdmin.ID)
	requireCode(t, err, "FORBIDDEN")

	stored, err := repo.GetByID(ctx, sysAdmin.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleSystemAdmin, stored.Role)
}

func TestDemoteMissingUser(t *testing.T) {
	svc, _ := newAdminFixture(t)
	_, err := svc.Demote(context.Background(), systemAdminPrincipal("root"), "missing")
	requireCode(t, err, "NOT_FOUND")
}
