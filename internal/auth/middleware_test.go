package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/civnet/issue-service/internal/domain"
	"github.com/civnet/issue-service/internal/repository"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) Create(context.Context, *domain.User) error { return nil }
func (r *stubUserRepo) Update(context.Context, *domain.User) error { return nil }
func (r *stubUserRepo) Upsert(context.Context, *domain.User) error { return nil }

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *stubUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) ListByRoles(context.Context, ...domain.Role) ([]domain.User, error) {
	return nil, nil
}

func (r *stubUserRepo) CountRespondedIssues(context.Context, string) (int64, error) {
	return 0, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newTestApp(t *testing.T, repo repository.UserRepository, tm *TokenManager) *fiber.App {
	t.Helper()
	app := fiber.New()
	mw := NewMiddleware(tm, repo)
	app.Get("/protected", mw.Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"id": principal.ID, "role": principal.Role})
	})
	app.Get("/admin-only", mw.Handle, RequireAction(ActionManageAdmins), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	user := &domain.User{ID: "u1", Email: "alice@example.com", Role: domain.RoleCitizen}
	repo := &stubUserRepo{users: map[string]*domain.User{"u1": user}}
	app := newTestApp(t, repo, tm)

	token, _, err := tm.GenerateToken(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareRejectsBadCredentials(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	user := &domain.User{ID: "u1", Email: "alice@example.com", Role: domain.RoleCitizen}
	repo := &stubUserRepo{users: map[string]*domain.User{"u1": user}}
	app := newTestApp(t, repo, tm)

	deletedUser := &domain.User{ID: "ghost", Email: "ghost@example.com", Role: domain.RoleCitizen}
	ghostToken, _, err := tm.GenerateToken(deletedUser)
	require.NoError(t, err)
	forgedToken, _, err := NewTokenManager("other-secret", 5).GenerateToken(user)
	require.NoError(t, err)

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage token":  "Bearer nonsense",
		"wrong secret":   "Bearer " + forgedToken,
		"deleted user":   "Bearer " + ghostToken,
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err, name)
		// The middleware returns a DomainError; without the global error
		// middleware fiber renders it as 500. The assertion here is only
		// that the request never reaches the handler.
		require.NotEqual(t, http.StatusOK, resp.StatusCode, name)
	}
}

func TestRequireActionBlocksInsufficientRole(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	citizen := &domain.User{ID: "u1", Email: "alice@example.com", Role: domain.RoleCitizen}
	root := &domain.User{ID: "u2", Email: "root@city.gov", Role: domain.RoleSystemAdmin}
	repo := &stubUserRepo{users: map[string]*domain.User{"u1": citizen, "u2": root}}
	app := newTestApp(t, repo, tm)

	citizenToken, _, err := tm.GenerateToken(citizen)
	require.NoError(t, err)
	rootToken, _, err := tm.GenerateToken(root)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+citizenToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.NotEqual(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+rootToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
