package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ahmedakaak/MovieTracking-Ap/internal/cache"
)

type ctxKeyUserID struct{}

// Verifier resolves a bearer token into a caller identity. Locally issued
// HS256 tokens are checked against Secret; when JWKSURL is configured,
// RS256 tokens from an external identity provider are accepted as well.
type Verifier struct {
	Secret   []byte
	JWKSURL  string
	Issuer   string
	Audience string

	keys *cache.TTLCache[string, any]
}

func NewVerifier(secret []byte, issuer string) *Verifier {
	return &Verifier{
		Secret: secret,
		Issuer: issuer,
		keys:   cache.NewTTL[string, any](time.Hour),
	}
}

func (v *Verifier) keyFunc(token *jwt.Token) (any, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(v.Secret) == 0 {
			return nil, errors.New("hmac tokens not accepted")
		}
		return v.Secret, nil
	case *jwt.SigningMethodRSA:
		if v.JWKSURL == "" {
			return nil, errors.New("rsa tokens not accepted")
		}
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid")
		}
		if v.keys == nil {
			v.keys = cache.NewTTL[string, any](time.Hour)
		}
		if k, ok := v.keys.Get(kid); ok {
			return k, nil
		}
		set, err := fetchJWKS(v.JWKSURL)
		if err != nil {
			return nil, err
		}
		for _, j := range set.Keys {
			if j.Kid == kid {
				k, err := decodeJWKToRSA(j)
				if err != nil {
					return nil, err
				}
				v.keys.Set(kid, k)
				return k, nil
			}
		}
		return nil, errors.New("no verification key")
	default:
		return nil, fmt.Errorf("unexpected method: %v", token.Header["alg"])
	}
}

// Verify parses the token and returns the subject claim.
func (v *Verifier) Verify(tok string) (string, error) {
	opts := []jwt.ParserOption{}
	if v.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}
	if v.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.Audience))
	}
	parsed, err := jwt.Parse(tok, v.keyFunc, opts...)
	if err != nil || !parsed.Valid {
		return "", errors.New("invalid token")
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("missing subject")
	}
	return sub, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// caller identity in the request context.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerToken(r)
		if tok == "" {
			writeUnauthorized(w, "No token, authorization denied")
			return
		}
		uid, err := v.Verify(tok)
		if err != nil {
			writeUnauthorized(w, "Token is not valid")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyUserID{}, uid)))
	})
}

func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	// Cookie fallback for browser requests.
	if c, err := r.Cookie("access_token"); err == nil {
		return c.Value
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"msg":"` + msg + `"}`))
}

// UserID returns the caller identity set by Middleware, or "".
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyUserID{}).(string); ok {
		return v
	}
	return ""
}
