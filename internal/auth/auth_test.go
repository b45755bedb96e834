package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rufay/internal/database"
	"rufay/internal/ledger"
	"rufay/internal/models"
)

func newTestAuth(t *testing.T) *Service {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))

	s := NewService(db, NewTokens("test-secret", time.Hour))
	s.cost = bcrypt.MinCost
	return s
}

func signup(t *testing.T, s *Service, email string) models.AuthResponse {
	t.Helper()
	resp, err := s.Signup(context.Background(), models.SignupRequest{Email: email, Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	return resp
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("k", time.Hour)
	u := models.User{ID: "u1", Role: models.RoleStaff, OwnerID: "a1"}

	raw, err := tokens.Issue(u)
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleStaff, claims.Role)
	assert.Equal(t, "a1", claims.OwnerID)

	_, err = NewTokens("other", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensExpire(t *testing.T) {
	tokens := NewTokens("k", time.Minute)
	raw, err := tokens.Issue(models.User{ID: "u1", Role: models.RoleAdmin, OwnerID: "u1"})
	require.NoError(t, err)

	tokens.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectOtherAlgorithms(t *testing.T) {
	claims := Claims{UserID: "u1", Role: models.RoleAdmin, OwnerID: "u1"}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokens("k", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignupAndLogin(t *testing.T) {
	s := newTestAuth(t)
	ctx := context.Background()

	resp := signup(t, s, "  Owner@Example.com ")
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "owner@example.com", resp.User.Email)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
	assert.Equal(t, resp.User.ID, resp.User.OwnerID)

	// signup seeds the owner's settings
	var settings models.Settings
	require.NoError(t, s.db.View(ctx, resp.User.OwnerID, func(tx *database.Tx) error {
		var err error
		settings, err = tx.GetSettings(ctx)
		return err
	}))
	assert.Equal(t, "INV-", settings.InvoicePrefix)
	assert.Equal(t, 1, settings.InvoiceCounter)

	login, err := s.Login(ctx, models.LoginRequest{Email: "OWNER@example.com", Password: "secret1"})
	require.NoError(t, err)
	claims, err := s.Tokens().Parse(login.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	_, err = s.Login(ctx, models.LoginRequest{Email: "owner@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupValidation(t *testing.T) {
	s := newTestAuth(t)
	ctx := context.Background()
	signup(t, s, "owner@example.com")

	tests := []struct {
		name string
		req  models.SignupRequest
	}{
		{"bad email", models.SignupRequest{Email: "owner", Password: "secret1", ConfirmPassword: "secret1"}},
		{"short password", models.SignupRequest{Email: "a@example.com", Password: "abc", ConfirmPassword: "abc"}},
		{"mismatch", models.SignupRequest{Email: "a@example.com", Password: "secret1", ConfirmPassword: "secret2"}},
		{"duplicate", models.SignupRequest{Email: "Owner@example.com", Password: "secret1", ConfirmPassword: "secret1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Signup(ctx, tt.req)
			assert.ErrorIs(t, err, ledger.ErrValidation)
		})
	}
}

func TestStaffAccounts(t *testing.T) {
	s := newTestAuth(t)
	ctx := context.Background()
	admin := signup(t, s, "owner@example.com")
	adminClaims, err := s.Tokens().Parse(admin.Token)
	require.NoError(t, err)

	staff, err := s.AddStaff(ctx, adminClaims, models.StaffRequest{Email: "clerk@example.com", Password: "clerk1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, staff.Role)
	assert.Equal(t, admin.User.ID, staff.OwnerID)

	_, err = s.AddStaff(ctx, adminClaims, models.StaffRequest{Email: "clerk@example.com", Password: "clerk1"})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	list, err := s.ListStaff(ctx, adminClaims)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "clerk@example.com", list[0].Email)

	login, err := s.Login(ctx, models.LoginRequest{Email: "clerk@example.com", Password: "clerk1"})
	require.NoError(t, err)
	staffClaims, err := s.Tokens().Parse(login.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.User.ID, staffClaims.OwnerID)

	_, err = s.AddStaff(ctx, staffClaims, models.StaffRequest{Email: "other@example.com", Password: "other1"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.ListStaff(ctx, staffClaims)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestChangePasswordAndEmail(t *testing.T) {
	s := newTestAuth(t)
	ctx := context.Background()
	admin := signup(t, s, "owner@example.com")
	signup(t, s, "taken@example.com")
	claims, err := s.Tokens().Parse(admin.Token)
	require.NoError(t, err)

	err = s.ChangePassword(ctx, claims, models.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newpass", ConfirmPassword: "newpass"})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	require.NoError(t, s.ChangePassword(ctx, claims, models.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "newpass", ConfirmPassword: "newpass"}))
	_, err = s.Login(ctx, models.LoginRequest{Email: "owner@example.com", Password: "newpass"})
	require.NoError(t, err)

	_, err = s.ChangeEmail(ctx, claims, models.ChangeEmailRequest{CurrentPassword: "newpass", NewEmail: "taken@example.com"})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	u, err := s.ChangeEmail(ctx, claims, models.ChangeEmailRequest{CurrentPassword: "newpass", NewEmail: "New@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)

	_, err = s.Login(ctx, models.LoginRequest{Email: "new@example.com", Password: "newpass"})
	require.NoError(t, err)
	_, err = s.Login(ctx, models.LoginRequest{Email: "owner@example.com", Password: "newpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
