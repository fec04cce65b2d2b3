package service

import (
	"context"

	"studyhub-api/core/config"
	"studyhub-api/core/errors"
	"studyhub-api/core/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// TokenService exchanges a stored refresh credential for a short-lived
// access token. The exchange happens on every call; tokens are never cached
// across passes.
type TokenService interface {
	AccessToken(ctx context.Context, refreshToken string) (string, error)
}

type googleTokenService struct {
	oauth *oauth2.Config
}

func NewTokenService(cfg config.GoogleAPIConfig) TokenService {
	endpoint := google.Endpoint
	if cfg.TokenURL != "" {
		endpoint = oauth2.Endpoint{TokenURL: cfg.TokenURL}
	}

	return &googleTokenService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
		},
	}
}

func (s *googleTokenService) AccessToken(ctx context.Context, refreshToken string) (string, error) {
	source := s.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	token, err := source.Token()
	if err != nil {
		if re, ok := err.(*oauth2.RetrieveError); ok {
			// The provider rejected the credential: revoked or expired.
			logger.Error("TokenService:AccessToken:Rejected", "status", re.Response.StatusCode, "error", re.ErrorCode)
			return "", errors.NewAppError(errors.ErrGoogleAuth, "Calendar authorization expired. Please reconnect your calendar", err)
		}
		logger.Error("TokenService:AccessToken:Error", "error", err)
		return "", errors.NewAppError(errors.ErrExternalAPI, "Failed to reach token endpoint", err)
	}

	return token.AccessToken, nil
}
