package auth

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/peopleops/hr-platform/internal"
)

type Service struct {
	repo     RepositoryAPI
	tokenGen TokenGeneratorAPI
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		tokenGen: tokenGen,
		logger:   logger,
	}
}

// Authenticate validates credentials and returns a fresh token pair.
func (s *Service) Authenticate(dto LoginDTO) (Tokens, error) {
	if err := dto.Validate(); err != nil {
		return Tokens{}, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	storedHash, userID, err := s.repo.GetCredentials(dto.Email)
	if err != nil {
		s.logger.Warn("login failed: credentials lookup", "email", dto.Email)
		return Tokens{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login failed: password mismatch", "user_id", userID)
		return Tokens{}, ErrInvalidCredentials
	}

	return s.issueTokens(userID, dto.Email)
}

// RefreshTokens rotates a valid refresh token into a new pair.
func (s *Service) RefreshTokens(refreshToken string) (Tokens, error) {
	claims, err := s.tokenGen.ValidateRefreshToken(refreshToken)
	if err != nil {
		return Tokens{}, err
	}

	// the account may have been deactivated since the token was issued
	if _, err := s.repo.GetUser(claims.UserID); err != nil {
		return Tokens{}, ErrUserInactive
	}

	return s.issueTokens(claims.UserID, claims.Email)
}

func (s *Service) issueTokens(userID int64, email string) (Tokens, error) {
	accessToken, err := s.tokenGen.GenerateAccessToken(userID, email)
	if err != nil {
		return Tokens{}, internal.NewInternalError("failed to sign access token", err)
	}

	refreshToken, err := s.tokenGen.GenerateRefreshToken(userID, email)
	if err != nil {
		return Tokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}

	return Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGen.ValidateAccessToken(tokenString)
}

func (s *Service) GetUser(userID int64) (*internal.AuthUser, error) {
	return s.repo.GetUser(userID)
}
