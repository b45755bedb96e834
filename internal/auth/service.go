package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"rufay/internal/database"
	"rufay/internal/ledger"
	"rufay/internal/logger"
	"rufay/internal/models"
)

const minPasswordLength = 6

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrForbidden is returned when a staff account attempts an admin action
	ErrForbidden = errors.New("forbidden")
)

// Service manages accounts. Each admin owns a separate data set; staff share their admin's.
type Service struct {
	db     *database.DB
	tokens *Tokens
	log    zerolog.Logger
	cost   int
}

func NewService(db *database.DB, tokens *Tokens) *Service {
	return &Service{
		db:     db,
		tokens: tokens,
		log:    logger.WithComponent("auth"),
		cost:   bcrypt.DefaultCost,
	}
}

func (s *Service) Tokens() *Tokens {
	return s.tokens
}

func invalid(field, msg string) error {
	return &ledger.ValidationError{Field: field, Message: msg}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", invalid("email", "must be a valid address")
	}
	return email, nil
}

func checkPassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if password != confirm {
		return invalid("confirmPassword", "passwords do not match")
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *Service) respond(u models.User) (models.AuthResponse, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return models.AuthResponse{Token: token, User: u}, nil
}

// Signup creates an admin account with fresh default settings
func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (models.AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return models.AuthResponse{}, err
	}
	if err := checkPassword(req.Password, req.ConfirmPassword); err != nil {
		return models.AuthResponse{}, err
	}
	hashed, err := s.hash(req.Password)
	if err != nil {
		return models.AuthResponse{}, err
	}

	id := uuid.NewString()
	u := models.User{ID: id, Email: email, PasswordHash: hashed, Role: models.RoleAdmin, OwnerID: id}
	err = s.db.CreateOwner(ctx, u, models.DefaultSettings(email))
	if errors.Is(err, database.ErrEmailTaken) {
		return models.AuthResponse{}, invalid("email", "is already registered")
	}
	if err != nil {
		return models.AuthResponse{}, &ledger.PersistenceError{Op: "Signup", Err: err}
	}

	s.log.Info().Str("user_id", id).Msg("admin signed up")
	return s.respond(u)
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	u, err := s.db.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, database.ErrNotFound) {
		return models.AuthResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.AuthResponse{}, &ledger.PersistenceError{Op: "Login", Err: err}
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return models.AuthResponse{}, ErrInvalidCredentials
	}
	return s.respond(u)
}

// AddStaff creates a staff account sharing the caller's data. Only admins may do this.
func (s *Service) AddStaff(ctx context.Context, caller *Claims, req models.StaffRequest) (models.User, error) {
	if caller.Role != models.RoleAdmin {
		return models.User{}, ErrForbidden
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return models.User{}, err
	}
	if err := checkPassword(req.Password, req.Password); err != nil {
		return models.User{}, err
	}
	hashed, err := s.hash(req.Password)
	if err != nil {
		return models.User{}, err
	}

	u := models.User{ID: uuid.NewString(), Email: email, PasswordHash: hashed, Role: models.RoleStaff, OwnerID: caller.OwnerID}
	err = s.db.InOwnerTx(ctx, caller.OwnerID, func(tx *database.Tx) error {
		return tx.InsertUser(ctx, u)
	})
	if errors.Is(err, database.ErrEmailTaken) {
		return models.User{}, invalid("email", "is already registered")
	}
	if err != nil {
		return models.User{}, &ledger.PersistenceError{Op: "AddStaff", Err: err}
	}

	s.log.Info().Str("owner_id", caller.OwnerID).Str("user_id", u.ID).Msg("staff account added")
	return u, nil
}

func (s *Service) ListStaff(ctx context.Context, caller *Claims) ([]models.User, error) {
	if caller.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	var staff []models.User
	err := s.db.View(ctx, caller.OwnerID, func(tx *database.Tx) error {
		var err error
		staff, err = tx.ListStaff(ctx)
		return err
	})
	if err != nil {
		return nil, &ledger.PersistenceError{Op: "ListStaff", Err: err}
	}
	return staff, nil
}

// verify loads the caller and checks their current password
func (s *Service) verify(ctx context.Context, userID, password string) (models.User, error) {
	u, err := s.db.GetUserByID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return u, ErrInvalidCredentials
	}
	if err != nil {
		return u, &ledger.PersistenceError{Op: "verify", Err: err}
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return u, invalid("currentPassword", "is incorrect")
	}
	return u, nil
}

func (s *Service) ChangePassword(ctx context.Context, caller *Claims, req models.ChangePasswordRequest) error {
	u, err := s.verify(ctx, caller.UserID, req.CurrentPassword)
	if err != nil {
		return err
	}
	if err := checkPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}
	hashed, err := s.hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.db.UpdateUserPassword(ctx, u.ID, hashed); err != nil {
		return &ledger.PersistenceError{Op: "ChangePassword", Err: err}
	}
	s.log.Info().Str("user_id", u.ID).Msg("password changed")
	return nil
}

func (s *Service) ChangeEmail(ctx context.Context, caller *Claims, req models.ChangeEmailRequest) (models.User, error) {
	u, err := s.verify(ctx, caller.UserID, req.CurrentPassword)
	if err != nil {
		return u, err
	}
	email, err := normalizeEmail(req.NewEmail)
	if err != nil {
		return u, err
	}
	if email == u.Email {
		return u, nil
	}

	taken, err := s.db.EmailTaken(ctx, email)
	if err != nil {
		return u, &ledger.PersistenceError{Op: "ChangeEmail", Err: err}
	}
	if taken {
		return u, invalid("newEmail", "is already registered")
	}
	if err := s.db.UpdateUserEmail(ctx, u.ID, email); err != nil {
		return u, &ledger.PersistenceError{Op: "ChangeEmail", Err: err}
	}
	u.Email = email
	return u, nil
}
