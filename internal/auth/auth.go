// Package auth resolves the acting user of a request. With a signing secret
// configured, identity comes only from a verified HS256 bearer token.
// Without one, the JSON "user" header asserted by the client is trusted.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Abdullah098765/CRM-Software/internal/api"
	"github.com/Abdullah098765/CRM-Software/internal/domain"
)

// UserHeader carries the client-asserted identity as JSON.
const UserHeader = "user"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrInvalidUser  = errors.New("invalid user header")
)

// Claims is the token payload.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Verifier signs and checks identity tokens.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier returns nil when secret is empty, which disables verification.
func NewVerifier(secret, issuer string) *Verifier {
	if secret == "" {
		return nil
	}
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Issue signs a token for the actor valid for ttl.
func (v *Verifier) Issue(a domain.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	email := strings.ToLower(strings.TrimSpace(a.Email))
	claims := &Claims{
		Email: email,
		Name:  a.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    v.issuer,
			Subject:   email,
			ID:        uuid.NewString(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify parses a token and returns the actor it names.
func (v *Verifier) Verify(token string) (*domain.Actor, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return &domain.Actor{Name: claims.Name, Email: claims.Email}, nil
}

// ParseUser decodes the JSON identity sent in the "user" header or the
// userData form field. An empty value yields nil without error.
func ParseUser(raw string) (*domain.Actor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var a domain.Actor
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUser, err)
	}
	a.Email = strings.TrimSpace(a.Email)
	a.Name = strings.TrimSpace(a.Name)
	return &a, nil
}

type ctxKey int

const (
	actorKey ctxKey = iota
	enforcedKey
)

// WithActor stores the acting user in ctx.
func WithActor(ctx context.Context, a *domain.Actor) context.Context {
	if a.Valid() {
		api.AddLogAttrs(ctx, "actor", a.Email)
	}
	return context.WithValue(ctx, actorKey, a)
}

// ActorFrom returns the acting user stored by the middleware.
func ActorFrom(ctx context.Context) (*domain.Actor, bool) {
	a, ok := ctx.Value(actorKey).(*domain.Actor)
	return a, ok && a.Valid()
}

func enforced(ctx context.Context) bool {
	on, _ := ctx.Value(enforcedKey).(bool)
	return on
}

// Middleware attaches the request's identity to its context. A malformed
// token is rejected with 401 and a malformed user header with 400; a request
// without any identity passes through and is refused later by Require on
// routes that mutate data.
func Middleware(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			corrID := api.CorrelationID(ctx)

			if v != nil {
				ctx = context.WithValue(ctx, enforcedKey, true)
				if header := r.Header.Get("Authorization"); header != "" {
					token, ok := strings.CutPrefix(header, "Bearer ")
					if !ok {
						api.WriteError(w, http.StatusUnauthorized, api.NewUnauthorizedError(ErrInvalidToken.Error(), corrID))
						return
					}
					a, err := v.Verify(token)
					if err != nil {
						api.WriteError(w, http.StatusUnauthorized, api.NewUnauthorizedError(ErrInvalidToken.Error(), corrID))
						return
					}
					ctx = WithActor(ctx, a)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			a, err := ParseUser(r.Header.Get(UserHeader))
			if err != nil {
				api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid user header", corrID, nil))
				return
			}
			if a != nil {
				ctx = WithActor(ctx, a)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require returns the acting user or writes the refusal. fallback is an
// identity carried in the request body; it is ignored when tokens are
// enforced.
func Require(w http.ResponseWriter, r *http.Request, fallback *domain.Actor) (*domain.Actor, bool) {
	if a, ok := ActorFrom(r.Context()); ok {
		return a, true
	}
	corrID := api.CorrelationID(r.Context())
	if enforced(r.Context()) {
		api.WriteError(w, http.StatusUnauthorized, api.NewUnauthorizedError("Authentication required", corrID))
		return nil, false
	}
	if fallback.Valid() {
		api.AddLogAttrs(r.Context(), "actor", fallback.Email)
		return fallback, true
	}
	api.WriteError(w, http.StatusBadRequest, api.NewValidationError(domain.MsgUserRequired, corrID, nil))
	return nil, false
}
