package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/utils"
)

const resetTokenTTL = 10 * time.Minute

// AuthConfig holds the token and hashing settings of the auth service.
type AuthConfig struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
	FrontendURL    string   // base of the password reset link
	AdminEmails    []string // addresses that register as ADMIN
}

// Session is what a successful register, login, refresh or reset returns.
type Session struct {
	User    model.User
	Access  utils.AccessToken
	Refresh utils.OpaqueToken
}

type AuthService struct {
	users  UserStore
	tokens TokenStore
	mailer Mailer
	cfg    AuthConfig
	now    func() time.Time
	log    zerolog.Logger
}

func NewAuthService(users UserStore, tokens TokenStore, mailer Mailer, cfg AuthConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log.With().Str("component", "auth").Logger(),
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return Session{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooShort) {
			return Session{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return Session{}, err
	}
	u := &model.User{
		Name:           name,
		Email:          email,
		PasswordHash:   hash,
		Role:           model.RoleCustomer,
		IsActive:       true,
		MembershipTier: model.TierBasic,
	}
	if s.isAdminEmail(email) {
		u.Role = model.RoleAdmin
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Session{}, ErrEmailExists
		}
		return Session{}, err
	}
	if s.mailer != nil {
		if err := s.mailer.SendWelcome(ctx, u.Email, u.Name); err != nil {
			s.log.Warn().Err(err).Uint64("user_id", u.ID).Msg("welcome email failed")
		}
	}
	return s.issue(ctx, *u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

// Refresh validates a refresh token, revokes it and issues a new pair.
func (s *AuthService) Refresh(ctx context.Context, raw string) (Session, error) {
	hash := utils.HashToken(strings.TrimSpace(raw))
	userID, err := s.tokens.ValidateRefresh(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrInvalidToken
	}
	if err != nil {
		return Session{}, err
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return Session{}, fmt.Errorf("revoke refresh: %w", err)
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrInvalidToken
	}
	if err != nil {
		return Session{}, err
	}
	return s.issue(ctx, u)
}

// Logout revokes one refresh token when raw is given, otherwise every
// refresh token of userID. One of them is required.
func (s *AuthService) Logout(ctx context.Context, userID uint64, raw string) error {
	raw = strings.TrimSpace(raw)
	switch {
	case raw != "":
		hash := utils.HashToken(raw)
		if _, err := s.tokens.ValidateRefresh(ctx, hash); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		return s.tokens.RevokeByHash(ctx, hash)
	case userID != 0:
		return s.tokens.RevokeAllForUser(ctx, userID)
	default:
		return fmt.Errorf("%w: provide Authorization header or refresh_token", ErrInvalidInput)
	}
}

func (s *AuthService) Me(ctx context.Context, userID uint64) (model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return u, err
}

// ForgotPassword emails a reset link when the address belongs to a user.
// Unknown addresses succeed silently. If the email cannot be sent the
// stored token is cleared and the error returned.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	tok, err := utils.NewResetToken(resetTokenTTL)
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, u.ID, utils.HashToken(tok.Raw), s.now().Add(resetTokenTTL)); err != nil {
		return err
	}
	if s.mailer == nil {
		return nil
	}
	link := strings.TrimRight(s.cfg.FrontendURL, "/") + "/reset-password/" + tok.Raw
	if err := s.mailer.SendPasswordReset(ctx, u.Email, link); err != nil {
		if cerr := s.users.ClearResetToken(ctx, u.ID); cerr != nil {
			s.log.Error().Err(cerr).Uint64("user_id", u.ID).Msg("clear reset token failed")
		}
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ResetPassword sets a new password for the holder of a valid reset token
// and signs them in.
func (s *AuthService) ResetPassword(ctx context.Context, raw, password string) (Session, error) {
	u, err := s.users.GetByResetToken(ctx, utils.HashToken(strings.TrimSpace(raw)), s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, fmt.Errorf("%w: invalid or expired reset token", ErrInvalidInput)
	}
	if err != nil {
		return Session{}, err
	}
	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooShort) {
			return Session{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return Session{}, err
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return Session{}, err
	}
	if err := s.tokens.RevokeAllForUser(ctx, u.ID); err != nil {
		s.log.Warn().Err(err).Uint64("user_id", u.ID).Msg("revoke sessions after reset failed")
	}
	return s.issue(ctx, u)
}

// ParseAccess validates a bearer token for handlers that accept optional
// authentication.
func (s *AuthService) ParseAccess(raw string) (utils.Claims, error) {
	c, err := utils.ParseAccessToken(s.cfg.JWTSecret, raw)
	if err != nil {
		return utils.Claims{}, ErrInvalidToken
	}
	return c, nil
}

func (s *AuthService) issue(ctx context.Context, u model.User) (Session, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, u.Role, s.cfg.AccessTTLMin)
	if err != nil {
		return Session{}, fmt.Errorf("issue access: %w", err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return Session{}, fmt.Errorf("issue refresh: %w", err)
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashToken(refresh.Raw), refresh.Exp); err != nil {
		return Session{}, fmt.Errorf("save refresh: %w", err)
	}
	return Session{User: u, Access: access, Refresh: refresh}, nil
}

func (s *AuthService) isAdminEmail(email string) bool {
	for _, a := range s.cfg.AdminEmails {
		if normalizeEmail(a) == email {
			return true
		}
	}
	return false
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }
