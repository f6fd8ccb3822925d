package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/retentionops/portal/internal/auth/domain"
	"github.com/retentionops/portal/internal/auth/repository"
	"github.com/retentionops/portal/internal/routes"
	"github.com/retentionops/portal/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) authdomain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&authdomain.User{}, &authdomain.Session{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo, sessionRepo := repository.New(dbConn)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(zap.NewNop(), repo, sessionRepo, node)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:    "alice@example.com",
		Password: "correct-password",
		Role:     routes.RoleRetentionAgent,
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	_, err = svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:    "bob@example.com",
		Password: "strong-password",
		Role:     "superuser",
	})
	if err != authdomain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestLoginAndResolveIdentity(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:       "carol@example.com",
		Password:    "strong-password",
		DisplayName: "Carol",
		Role:        routes.RoleSalesManager,
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "carol@example.com",
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.RawToken == "" {
		t.Fatal("expected a session token")
	}

	identity, err := svc.ResolveIdentity(context.Background(), result.RawToken)
	if err != nil {
		t.Fatalf("resolve identity failed: %v", err)
	}
	if identity.UserID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, identity.UserID)
	}
	if identity.Role != routes.RoleSalesManager {
		t.Fatalf("expected sales_manager, got %s", identity.Role)
	}
}

func TestResolveIdentityAfterLogout(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:    "dave@example.com",
		Password: "strong-password",
		Role:     routes.RoleAffiliate,
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "dave@example.com",
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), result.RawToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	_, err = svc.ResolveIdentity(context.Background(), result.RawToken)
	if err != authdomain.ErrSessionRevoked {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}

func TestResolveIdentityRoleRemoved(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:    "erin@example.com",
		Password: "strong-password",
		Role:     routes.RoleRetentionAgent,
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "erin@example.com",
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	impl := svc.(*Service)
	if err := impl.repo.UpdateFields(context.Background(), user.ID, map[string]any{"role": ""}); err != nil {
		t.Fatalf("failed to clear role: %v", err)
	}

	_, err = svc.ResolveIdentity(context.Background(), result.RawToken)
	if err != authdomain.ErrInvalidSession {
		t.Fatalf("expected ErrInvalidSession for roleless user, got %v", err)
	}
}
