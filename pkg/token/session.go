package tokenstore

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

// Claims is what a session cookie carries.
type Claims struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

// Issue signs a session token for userID valid for ttl.
func Issue(secret string, userID uint, ttl time.Duration) (string, Claims, error) {
	claims := Claims{
		UserID:    userID,
		JTI:       uuid.NewString(),
		ExpiresAt: time.Now().Add(ttl),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": claims.ExpiresAt.Unix(),
		"jti": claims.JTI,
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", Claims{}, err
	}
	return s, claims, nil
}

// Parse validates signature and expiry and returns the claims.
func Parse(secret, tokenStr string) (Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// only accept HMAC signing
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	var uid uint64
	switch sub := mc["sub"].(type) {
	case string:
		uid, err = strconv.ParseUint(sub, 10, 64)
	case float64:
		// jwt lib may parse numeric as float64
		uid = uint64(sub)
	default:
		err = ErrInvalidToken
	}
	if err != nil || uid == 0 {
		return Claims{}, ErrInvalidToken
	}

	jti, _ := mc["jti"].(string)
	c := Claims{UserID: uint(uid), JTI: jti}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
