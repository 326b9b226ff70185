package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"server/internal/domain"
)

// TokenClaims is the payload of the bearer tokens issued for this service.
// The subscription plan inside the token is a hint only; the authoritative
// plan and usage counter are resolved from the identity store per request.
type TokenClaims struct {
	Sub      string `json:"sub"`
	Plan     string `json:"plan"`
	Exp      int64  `json:"exp"`
	Issuer   string `json:"iss"`
	Audience string `json:"aud"`
}

type identityKey struct{}

// IdentityResolver yields the authoritative plan and free-usage counter for a
// user id. Implemented by the user repository.
type IdentityResolver interface {
	QuotaState(ctx context.Context, userID string) (*domain.QuotaState, error)
}

func SignJWT(secret string, claims TokenClaims) (string, error) {
	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	headerJSON, _ := json.Marshal(header)
	payloadJSON, _ := json.Marshal(claims)
	headerEnc := base64.RawURLEncoding.EncodeToString(headerJSON)
	payloadEnc := base64.RawURLEncoding.EncodeToString(payloadJSON)
	data := headerEnc + "." + payloadEnc
	sig := hmacSign(secret, data)
	return data + "." + sig, nil
}

func hmacSign(secret, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func VerifyJWT(secret, token string) (*TokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errors.New("invalid token")
	}
	expected := hmacSign(secret, parts[0]+"."+parts[1])
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return nil, errors.New("invalid signature")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, err
	}
	var claims TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}
	if claims.Exp != 0 && time.Now().Unix() > claims.Exp {
		return nil, errors.New("token expired")
	}
	return &claims, nil
}

// Auth verifies the bearer token and resolves the caller's quota state into
// the request context. Requests without a resolvable identity are rejected
// before any handler runs.
func Auth(secret string, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "missing authorization")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w, "invalid authorization")
				return
			}
			claims, err := VerifyJWT(secret, parts[1])
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}
			state, err := resolver.QuotaState(r.Context(), claims.Sub)
			if err != nil {
				unauthorized(w, "unknown user")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), state)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}

// ContextWithIdentity stores the resolved quota state on the context.
func ContextWithIdentity(ctx context.Context, state *domain.QuotaState) context.Context {
	if state == nil {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, state)
}

// IdentityFromContext returns the quota state resolved by Auth, or nil when
// the request was not authenticated.
func IdentityFromContext(ctx context.Context) *domain.QuotaState {
	if v, ok := ctx.Value(identityKey{}).(*domain.QuotaState); ok {
		return v
	}
	return nil
}
