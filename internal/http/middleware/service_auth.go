package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/pricing-engine/internal/http/response"
	"github.com/yungbote/pricing-engine/internal/platform/apierr"
	"github.com/yungbote/pricing-engine/internal/platform/ctxutil"
	"github.com/yungbote/pricing-engine/internal/platform/logger"
)

const (
	ScopeObservationsWrite = "observations:write"
	ScopeDecisionsRead     = "decisions:read"
)

// ServiceClaims are carried by tokens issued to upstream services such as the
// scraper fleet or the messaging gateway. Scope is space separated.
type ServiceClaims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

type ServiceAuth struct {
	log    *logger.Logger
	secret []byte
}

// NewServiceAuth returns nil when secret is empty; a nil ServiceAuth admits every caller.
func NewServiceAuth(log *logger.Logger, secret string) *ServiceAuth {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		if log != nil {
			log.Warn("Service auth disabled: no JWT secret configured")
		}
		return nil
	}
	return &ServiceAuth{log: log.With("middleware", "ServiceAuth"), secret: []byte(secret)}
}

// RequireScope rejects requests without a valid HS256 bearer token carrying scope.
func (a *ServiceAuth) RequireScope(scope string) gin.HandlerFunc {
	if a == nil {
		return func(c *gin.Context) {
			ctx := ctxutil.WithCaller(c.Request.Context(), &ctxutil.Caller{Subject: "anonymous", Scopes: []string{"*"}})
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		}
	}
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			a.abort(c, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}
		caller, err := a.Verify(token)
		if err != nil {
			a.log.Debug("Service token rejected", "error", err)
			a.abort(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			return
		}
		if !caller.HasScope(scope) {
			a.abort(c, http.StatusForbidden, fmt.Errorf("token lacks scope %q", scope))
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithCaller(c.Request.Context(), caller))
		c.Next()
	}
}

func (a *ServiceAuth) Verify(token string) (*ctxutil.Caller, error) {
	parsed, err := jwt.ParseWithClaims(token, &ServiceClaims{}, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*ServiceClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return &ctxutil.Caller{Subject: claims.Subject, Scopes: strings.Fields(claims.Scope)}, nil
}

func (a *ServiceAuth) abort(c *gin.Context, status int, err error) {
	code := apierr.CodeUnauthorized
	if status == http.StatusForbidden {
		code = "forbidden"
	}
	response.RespondError(c, status, code, err)
	c.Abort()
}

// SignServiceToken issues an HS256 token for subject with the given scopes.
func SignServiceToken(secret, subject string, scopes []string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("missing jwt secret")
	}
	now := time.Now()
	claims := ServiceClaims{
		Scope: strings.Join(scopes, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
