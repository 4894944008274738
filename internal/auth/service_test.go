package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wishlane/wishlane-backend/internal/identity"
	pkgAuth "github.com/wishlane/wishlane-backend/pkg/auth"
	"github.com/wishlane/wishlane-backend/pkg/auth/session"
	"github.com/wishlane/wishlane-backend/pkg/config"
	"github.com/wishlane/wishlane-backend/pkg/db/models"
	pkgerrors "github.com/wishlane/wishlane-backend/pkg/errors"
	"github.com/wishlane/wishlane-backend/pkg/security"
)

type stubUserRepo struct {
	user *models.User
	err  error
}

func (s *stubUserRepo) FindByLogin(ctx context.Context, handle string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastSeenAt = &at
	}
	return nil
}

func (s *stubUserRepo) MarkConfirmed(ctx context.Context, id uuid.UUID) error {
	if s.user != nil && s.user.ID == id {
		s.user.Confirmed = true
	}
	return nil
}

type stubSessionManager struct {
	refreshToken string
	rotated      bool
	revoked      []string
	rotateErr    error
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	s.rotated = true
	return session.NewAccessID(), "rotated-" + s.refreshToken, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func memberUser(t *testing.T, password string) *models.User {
	t.Helper()
	return &models.User{
		ID:           uuid.New(),
		Email:        "mara@example.com",
		Username:     "mara",
		PasswordHash: mustHashPassword(t, password),
		Confirmed:    true,
		Role:         &models.Role{Name: "User", Permissions: identity.MaskUser},
	}
}

func buildTestService(t *testing.T, repo *stubUserRepo, mgr *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: mgr,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestServiceLoginMintsPermissionClaims(t *testing.T) {
	password := "login-secret"
	user := memberUser(t, password)
	svc := buildTestService(t, &stubUserRepo{user: user}, &stubSessionManager{refreshToken: "refresh-token"})

	resp, err := svc.Login(context.Background(), LoginRequest{Login: "mara", Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.RefreshToken != "refresh-token" {
		t.Fatalf("expected refresh token, got %q", resp.RefreshToken)
	}
	if user.LastSeenAt == nil {
		t.Fatal("expected last seen to be recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Permissions != identity.MaskUser {
		t.Fatalf("expected permissions %#x, got %#x", identity.MaskUser, claims.Permissions)
	}
	if claims.Username != "mara" {
		t.Fatalf("expected username claim, got %q", claims.Username)
	}
	if !claims.Confirmed {
		t.Fatal("expected confirmed claim")
	}
}

func TestServiceLoginWrongPasswordIsGenericUnauthorized(t *testing.T) {
	user := memberUser(t, "right-password")
	svc := buildTestService(t, &stubUserRepo{user: user}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Login: "mara", Password: "wrong-password"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("expected generic message, got %q", typed.Message())
	}

	_, err = svc.Login(context.Background(), LoginRequest{Login: "ghost", Password: "whatever"})
	ghost := pkgerrors.As(err)
	if ghost == nil || ghost.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown user, got %v", err)
	}
	if ghost.Message() != typed.Message() {
		t.Fatal("unknown-user and bad-password errors must be indistinguishable")
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	mgr := &stubSessionManager{}
	svc := buildTestService(t, &stubUserRepo{}, mgr)

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(mgr.revoked) != 1 || mgr.revoked[0] != "access-1" {
		t.Fatalf("expected session access-1 revoked, got %v", mgr.revoked)
	}

	err := svc.Logout(context.Background(), " ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for empty session, got %v", err)
	}
}

func TestServiceRefreshRotatesAndRemints(t *testing.T) {
	password := "refresh-secret"
	user := memberUser(t, password)
	mgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc := buildTestService(t, &stubUserRepo{user: user}, mgr)

	login, err := svc.Login(context.Background(), LoginRequest{Login: "mara", Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// role changed since login; the rotated token must carry the new mask
	user.Role = &models.Role{Name: "Moderator", Permissions: identity.MaskModerator}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !mgr.rotated {
		t.Fatal("expected session rotation")
	}
	if resp.RefreshToken != "rotated-refresh-token" {
		t.Fatalf("unexpected refresh token %q", resp.RefreshToken)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.Permissions != identity.MaskModerator {
		t.Fatalf("expected refreshed permissions %#x, got %#x", identity.MaskModerator, claims.Permissions)
	}
}

func TestServiceRefreshRejectsInvalidRefreshToken(t *testing.T) {
	password := "refresh-secret"
	user := memberUser(t, password)
	mgr := &stubSessionManager{refreshToken: "refresh-token", rotateErr: session.ErrInvalidRefreshToken}
	svc := buildTestService(t, &stubUserRepo{user: user}, mgr)

	login, err := svc.Login(context.Background(), LoginRequest{Login: "mara", Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: "stolen",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestServiceConfirmFlipsFlagAndFailsClosed(t *testing.T) {
	user := memberUser(t, "confirm-secret")
	user.Confirmed = false
	svc := buildTestService(t, &stubUserRepo{user: user}, &stubSessionManager{})

	token, err := pkgAuth.MintConfirmationToken(testJWTConfig(), time.Now().UTC(), user.ID)
	if err != nil {
		t.Fatalf("mint confirmation token: %v", err)
	}

	// a token for someone else must not confirm this account
	err = svc.Confirm(context.Background(), uuid.New(), token)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for mismatched token, got %v", err)
	}
	if user.Confirmed {
		t.Fatal("account must not be confirmed by a mismatched token")
	}

	if err := svc.Confirm(context.Background(), user.ID, token); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !user.Confirmed {
		t.Fatal("expected account confirmed")
	}
}
