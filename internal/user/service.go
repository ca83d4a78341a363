package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmlink_backend/internal/common"
	"farmlink_backend/internal/config"
	"farmlink_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceImplementation implements the shared.Service interface.
type ServiceImplementation struct {
	repo         Repository
	tokenService shared.TokenService
	cfg          *config.Config
	logger       *zap.Logger
}

var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(
	repo Repository,
	tokenService shared.TokenService,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:         repo,
		tokenService: tokenService,
		cfg:          cfg,
		logger:       logger,
	}
}

// Register creates a new user account and issues its first session token.
func (s *ServiceImplementation) Register(ctx context.Context, req shared.CreateUserRequest) (*shared.User, *shared.TokenResponse, error) {
	if !common.IsValidRole(req.Role) {
		return nil, nil, common.ErrBadRequest.WithDetails(
			fmt.Sprintf("User type must be '%s' or '%s'.", common.RoleFarmer, common.RoleBuyer))
	}

	// Pre-check uniqueness so the common case yields a clean, field-specific
	// conflict. A concurrent insert racing past these checks still resolves
	// to a conflict via the repository's duplicated-key translation.
	_, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, nil, common.NewConflictError("email", "An account with this email already exists.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check existing user by email: %w", err)
	}

	if req.Contact != "" {
		_, err = s.repo.FindByContact(ctx, req.Contact)
		if err == nil {
			return nil, nil, common.NewConflictError("contact", "An account with this contact already exists.")
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, nil, fmt.Errorf("failed to check existing user by contact: %w", err)
		}
	}

	hashedPassword, err := common.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser := CreateRequestToDB(&req, hashedPassword)

	if err := s.repo.Create(ctx, dbUser); err != nil {
		s.logger.Error("Failed to create user in repository", zap.Error(err), zap.String("email", req.Email))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, nil, apiErr
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokenResponse, err := s.issueToken(dbUser)
	if err != nil {
		s.logger.Error("Failed to generate access token after registration",
			zap.Error(err), zap.String("userID", dbUser.ID.String()))
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	sharedUser := DBToShared(dbUser)
	s.logger.Info("User registered successfully",
		zap.String("userID", sharedUser.ID.String()), zap.String("userType", sharedUser.Role))
	return sharedUser, tokenResponse, nil
}

// Login verifies email/password credentials. Unknown email, a missing
// password hash and a wrong password all produce the same client-facing
// message.
func (s *ServiceImplementation) Login(ctx context.Context, email, password string) (*shared.User, *shared.TokenResponse, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found during login", zap.String("email", email))
			return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
		}
		s.logger.Error("Error finding user by email during login", zap.Error(err), zap.String("email", email))
		return nil, nil, common.ErrInternalServer.WithDetails("Login failed due to an internal error.")
	}

	if dbUser.PasswordHash == nil || *dbUser.PasswordHash == "" {
		s.logger.Warn("Password login attempted on account without a password hash",
			zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
	}

	if !common.CheckPasswordHash(password, *dbUser.PasswordHash) {
		s.logger.Warn("Invalid password attempt", zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
	}

	now := time.Now()
	dbUser.LastLoginAt = &now
	if err := s.repo.Update(ctx, dbUser); err != nil {
		// Not critical for auth; log and proceed.
		s.logger.Error("Failed to update last login time", zap.Error(err), zap.String("userID", dbUser.ID.String()))
	}

	tokenResponse, err := s.issueToken(dbUser)
	if err != nil {
		s.logger.Error("Failed to generate access token on login",
			zap.Error(err), zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not generate access token.")
	}

	sharedUser := DBToShared(dbUser)
	s.logger.Info("User logged in successfully", zap.String("userID", sharedUser.ID.String()))
	return sharedUser, tokenResponse, nil
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by ID", zap.String("userID", id.String()))
		} else {
			s.logger.Error("Error finding user by ID", zap.Error(err), zap.String("userID", id.String()))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) UpdateProfile(ctx context.Context, id uuid.UUID, req shared.UpdateProfileRequest) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Contact != nil && *req.Contact != "" && (dbUser.Contact == nil || *dbUser.Contact != *req.Contact) {
		_, err := s.repo.FindByContact(ctx, *req.Contact)
		if err == nil {
			return nil, common.NewConflictError("contact", "An account with this contact already exists.")
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to check existing user by contact: %w", err)
		}
	}

	ApplyProfileUpdate(&req, dbUser)

	if err := s.repo.Update(ctx, dbUser); err != nil {
		s.logger.Error("Failed to update user profile", zap.Error(err), zap.String("userID", id.String()))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User profile updated", zap.String("userID", id.String()))
	return DBToShared(dbUser), nil
}

// FindOrCreateOAuthUser resolves an OAuth profile to a local account. The
// intended role from the login URL applies only when a new account is
// created; for an existing account the stored role always wins.
func (s *ServiceImplementation) FindOrCreateOAuthUser(ctx context.Context, profile shared.OAuthUserProfile, intendedRole string) (*shared.User, bool, error) {
	s.logger.Info("Processing OAuth user profile",
		zap.String("provider", profile.Provider),
		zap.String("providerID", profile.ProviderID),
		zap.String("email", profile.Email),
	)

	dbUser, err := s.repo.FindByGoogleID(ctx, profile.ProviderID)
	if err == nil && dbUser != nil {
		now := time.Now()
		dbUser.LastLoginAt = &now
		if err := s.repo.Update(ctx, dbUser); err != nil {
			s.logger.Error("Failed to update last login time for OAuth user",
				zap.Error(err), zap.String("userID", dbUser.ID.String()))
		}
		return DBToShared(dbUser), false, nil
	}
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		s.logger.Error("Error finding user by Google ID", zap.Error(err),
			zap.String("providerID", profile.ProviderID))
		return nil, false, err
	}

	// Not known by Google ID; link to an existing account with the same email.
	dbUserByEmail, emailErr := s.repo.FindByEmail(ctx, profile.Email)
	if emailErr == nil && dbUserByEmail != nil {
		s.logger.Info("Linking Google identity to existing account",
			zap.String("userID", dbUserByEmail.ID.String()))
		providerIDCopy := profile.ProviderID
		dbUserByEmail.GoogleID = &providerIDCopy
		now := time.Now()
		dbUserByEmail.LastLoginAt = &now
		if err := s.repo.Update(ctx, dbUserByEmail); err != nil {
			s.logger.Error("Failed to link Google account to existing user",
				zap.Error(err), zap.String("userID", dbUserByEmail.ID.String()))
			return nil, false, common.ErrInternalServer.WithDetails("Could not link Google account.")
		}
		return DBToShared(dbUserByEmail), false, nil
	}
	if emailErr != nil && !errors.Is(emailErr, common.ErrNotFound) {
		s.logger.Error("Error finding user by email for OAuth linking",
			zap.Error(emailErr), zap.String("email", profile.Email))
		return nil, false, emailErr
	}

	role := intendedRole
	if !common.IsValidRole(role) {
		role = common.RoleFarmer
	}

	name := profile.Name
	if name == "" {
		// Fall back to the local part of the email address.
		name, _, _ = strings.Cut(profile.Email, "@")
	}

	now := time.Now()
	providerIDCopy := profile.ProviderID
	dbNewUser := &User{
		BaseModel: common.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        name,
		Email:       strings.ToLower(strings.TrimSpace(profile.Email)),
		Role:        role,
		GoogleID:    &providerIDCopy,
		LastLoginAt: &now,
	}

	if err := s.repo.Create(ctx, dbNewUser); err != nil {
		s.logger.Error("Failed to create new OAuth user in repository",
			zap.Error(err), zap.String("email", profile.Email))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, false, apiErr
		}
		return nil, false, common.ErrInternalServer.WithDetails("Could not create new user account.")
	}

	s.logger.Info("New OAuth user created",
		zap.String("userID", dbNewUser.ID.String()), zap.String("userType", dbNewUser.Role))
	return DBToShared(dbNewUser), true, nil
}

func (s *ServiceImplementation) issueToken(dbUser *User) (*shared.TokenResponse, error) {
	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(dbUser)
	if err != nil {
		return nil, err
	}
	return &shared.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}
