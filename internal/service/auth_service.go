package service

import (
	"context"
	"fmt"
	"time"

	"bookly/internal/auth"
	"bookly/internal/config"
	"bookly/internal/model"
	"bookly/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// authService implements AuthService.
type authService struct {
	userRepo  repository.UserRepository
	tokens    *auth.TokenIssuer
	google    auth.GoogleExchanger
	cfg       config.AuthConfig
	logger    zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	tokens *auth.TokenIssuer,
	google auth.GoogleExchanger,
	cfg config.AuthConfig,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		google:   google,
		cfg:      cfg,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a password-based account.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "email and password are required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.New(),
		Email:          req.Email,
		HashedPassword: hash,
		FullName:       req.FullName,
		Role:           model.RoleUser,
		IsActive:       true,
		CreatedAt:      time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", user.Email).Msg("user registered")

	return user, nil
}

// Login verifies credentials and mints a bearer token.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil || !user.IsActive || !auth.CheckPassword(user.HashedPassword, password) {
		return "", model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("user logged in")

	return token, nil
}

// ForgotPassword mints a reset token for an existing account. Always
// succeeds so the endpoint does not reveal whether an account exists;
// delivery is out of scope, so the token is logged for operators.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil
	}

	token, err := s.tokens.IssueReset(user)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	s.logger.Info().
		Str("email", email).
		Str("reset_token", token).
		Msg("password reset token issued")

	return nil
}

// ResetPassword completes a reset with a valid reset token.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.Parse(token, auth.PurposeReset)
	if err != nil {
		return model.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return model.ErrUserNotFound
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.HashedPassword = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("password reset")

	return nil
}

// RequestVerifyToken mints an email-verification token.
func (s *authService) RequestVerifyToken(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.IsVerified {
		return nil
	}

	token, err := s.tokens.IssueVerify(user)
	if err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}

	s.logger.Info().
		Str("email", email).
		Str("verify_token", token).
		Msg("verification token issued")

	return nil
}

// Verify marks the account verified given a valid verification token.
func (s *authService) Verify(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token, auth.PurposeVerify)
	if err != nil {
		return model.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return model.ErrUserNotFound
	}

	user.IsVerified = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("email verified")

	return nil
}

// GoogleLogin exchanges a federated-login authorization code, creating or
// linking the account, and mints a bearer token.
func (s *authService) GoogleLogin(ctx context.Context, code string) (string, error) {
	info, err := s.google.Exchange(ctx, code)
	if err != nil {
		return "", model.NewDomainError(model.ErrCodeUnauthorised, "Google authentication failed")
	}

	user, err := s.userRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		// First federated login: create the account with an unusable
		// random password.
		hash, err := auth.HashPassword(uuid.New().String())
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}

		var fullName *string
		if info.Name != "" {
			fullName = &info.Name
		}

		user = &model.User{
			ID:             uuid.New(),
			Email:          info.Email,
			HashedPassword: hash,
			FullName:       fullName,
			Role:           model.RoleUser,
			GoogleID:       &info.ID,
			IsActive:       true,
			IsVerified:     true,
			CreatedAt:      time.Now(),
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", err
		}

		s.logger.Info().Str("email", info.Email).Msg("user created from federated login")
	} else if user.GoogleID == nil && info.ID != "" {
		user.GoogleID = &info.ID
		if err := s.userRepo.Update(ctx, user); err != nil {
			return "", err
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return token, nil
}

// GetUser retrieves a user by ID.
func (s *authService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile updates the caller's name and/or password.
func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = req.FullName
	}

	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// EnsureAdmin creates the bootstrap admin account at startup.
func (s *authService) EnsureAdmin(ctx context.Context) error {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		s.logger.Debug().Msg("bootstrap admin not configured, skipping")
		return nil
	}

	hash, err := auth.HashPassword(s.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	return s.userRepo.EnsureAdmin(ctx, s.cfg.AdminEmail, hash)
}
