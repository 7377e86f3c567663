package service

import (
	"context"
	"time"

	"mediaarchive/src/config"
	"mediaarchive/src/model"
	res "mediaarchive/src/response"
	"mediaarchive/src/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

type TokenService interface {
	GenerateToken(userID string, expires time.Time, tokenType string) (string, error)
	GenerateAuthToken(ctx context.Context, user *model.User) (*res.TokenExpires, error)
}

type tokenService struct {
	Log            *logrus.Logger
	Secret         string
	AccessExp      time.Duration
	SessionService SessionService
}

func NewTokenService(secret string, accessExp time.Duration, sessionService SessionService) TokenService {
	return &tokenService{
		Log:            utils.Log,
		Secret:         secret,
		AccessExp:      accessExp,
		SessionService: sessionService,
	}
}

func (s *tokenService) GenerateToken(userID string, expires time.Time, tokenType string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"iat":  time.Now().Unix(),
		"exp":  expires.Unix(),
		"type": tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.Secret))
}

// GenerateAuthToken issues an access token and refreshes the session cache.
func (s *tokenService) GenerateAuthToken(ctx context.Context, user *model.User) (*res.TokenExpires, error) {
	expires := time.Now().UTC().Add(s.AccessExp)
	accessToken, err := s.GenerateToken(user.ID.String(), expires, config.TokenTypeAccess)
	if err != nil {
		s.Log.Errorf("Failed generate token: %+v", err)
		return nil, err
	}

	if s.SessionService != nil {
		if cacheErr := s.SessionService.CacheUserSession(ctx, user); cacheErr != nil {
			s.Log.Warnf("Failed to cache user session, continuing without cache: %v", cacheErr)
		}
	}

	return &res.TokenExpires{
		Token:   accessToken,
		Expires: expires,
	}, nil
}
