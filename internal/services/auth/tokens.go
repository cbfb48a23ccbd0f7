package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/crystalclicker/internal/model"
)

const issuer = "crystalclicker"

// sessionClaims are carried in every session token
type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (s *Service) signSession(id model.PlayerID, username string) (*Session, error) {
	now := s.clock.Now()
	expires := now.Add(s.sessionDuration)

	claims := sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   string(id),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		PlayerID:  id,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: expires,
	}, nil
}

func (s *Service) parseSession(token string) (*Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.signingKey, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, model.ErrInvalidSession
	}

	var createdAt, expiresAt time.Time
	if claims.IssuedAt != nil {
		createdAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time.UTC()
	}
	return &Session{
		Token:     token,
		PlayerID:  model.PlayerID(claims.Subject),
		Username:  claims.Username,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}, nil
}
