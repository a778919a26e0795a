package api

import (
	crand "crypto/rand"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Itoshi-web/idksan/internal/constants"
)

// sessionClaims carries the guest identity inside the signed session token.
type sessionClaims struct {
	PlayerUUID string `json:"player_uuid"`
	Username   string `json:"username"`
	jwt.RegisteredClaims
}

var (
	devSecretOnce sync.Once
	devSecret     []byte
	devSecretErr  error
)

func getSessionSecret() ([]byte, error) {
	secret := os.Getenv(constants.EnvSessionSecret)
	if secret == "" {
		// Generate an in-memory secret for development if not set. Tokens
		// become invalid on restart, which is acceptable for guest sessions.
		// Generation is once-guarded: handlers call this concurrently and
		// every caller must sign and verify against the same bytes.
		devSecretOnce.Do(func() {
			b := make([]byte, 32)
			if _, err := crand.Read(b); err != nil {
				devSecretErr = errors.New("failed to generate dev session secret")
				return
			}
			devSecret = b
		})
		return devSecret, devSecretErr
	}
	return []byte(secret), nil
}

func createSessionToken(playerUUID, username string, ttl time.Duration) (string, error) {
	secret, err := getSessionSecret()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := sessionClaims{
		PlayerUUID: playerUUID,
		Username:   username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseAndValidateSession(token string) (*sessionClaims, error) {
	secret, err := getSessionSecret()
	if err != nil {
		return nil, err
	}
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.PlayerUUID == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
