package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "networth/internal/errors"
)

// VerifierConfig selects how bearer tokens from the identity provider are checked.
// JWKSURL enables RS256 verification against the provider's published keys;
// HMACSecret enables HS256 for local development and tests. Issuer and
// Audience are enforced when set.
type VerifierConfig struct {
	Issuer     string
	Audience   string
	JWKSURL    string
	HMACSecret string
}

// Verifier validates identity-provider tokens and extracts the subject.
type Verifier struct {
	issuer     string
	audience   string
	hmacSecret []byte
	jwks       *jwksCache
}

// NewVerifier creates a token verifier from the given configuration.
func NewVerifier(cfg VerifierConfig) *Verifier {
	v := &Verifier{
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}
	if cfg.HMACSecret != "" {
		v.hmacSecret = []byte(cfg.HMACSecret)
	}
	if cfg.JWKSURL != "" {
		v.jwks = newJWKSCache(cfg.JWKSURL, nil)
	}
	return v
}

// Subject parses tokenString and returns its "sub" claim.
func (v *Verifier) Subject(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256", "HS256"}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc, opts...)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodRSA:
		if v.jwks == nil {
			return nil, errors.New("RS256 tokens are not accepted")
		}
		kid, _ := token.Header["kid"].(string)
		return v.jwks.key(kid)
	case *jwt.SigningMethodHMAC:
		if v.hmacSecret == nil {
			return nil, errors.New("HS256 tokens are not accepted")
		}
		return v.hmacSecret, nil
	default:
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
}

// AuthMiddleware verifies the bearer token and sets the caller's identity
// subject in the context under "userID".
func AuthMiddleware(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		subject, err := v.Subject(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set("userID", subject)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrUnauthorized.Code,
			"message": message,
		},
	})
}
