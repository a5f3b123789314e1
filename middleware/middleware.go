package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"tourdesk/globals"
	"tourdesk/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Auth signs and verifies admin tokens.
type Auth struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuth(secret string, ttl time.Duration) *Auth {
	return &Auth{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed HS256 token for the admin and its expiry.
func (a *Auth) Issue(adminID, email string) (string, time.Time, error) {
	now := a.now()
	exp := now.Add(a.ttl)
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ValidateJWT parses a raw token (without the Bearer prefix).
func (a *Auth) ValidateJWT(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("missing token")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "missing token")
			return
		}
		if !strings.HasPrefix(tokenString, "Bearer ") {
			utils.RespondWithError(w, http.StatusUnauthorized, "invalid token format")
			return
		}

		claims, err := a.ValidateJWT(strings.TrimPrefix(tokenString, "Bearer "))
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), globals.AdminIDKey, claims.Subject)
		next(w, r.WithContext(ctx), ps)
	}
}

// AdminIDFromRequest returns the authenticated admin id, or "".
func AdminIDFromRequest(r *http.Request) string {
	id, _ := r.Context().Value(globals.AdminIDKey).(string)
	return id
}
