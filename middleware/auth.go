package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kendall-kelly/tailoring-orders-portal/config"
)

// TokenCookie is the cookie a browser session carries its bearer token in
const TokenCookie = "token"

const (
	userIDKey      = "user_id"
	accessTokenKey = "access_token"
	claimsKey      = "validated_claims"
)

// tokenExtractor prefers the Authorization header and falls back to the
// session cookie.
var tokenExtractor = jwtmiddleware.MultiTokenExtractor(
	jwtmiddleware.AuthHeaderTokenExtractor,
	jwtmiddleware.CookieTokenExtractor(TokenCookie),
)

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Scope string `json:"scope"`
}

// Validate does nothing; it satisfies validator.CustomClaims.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// HasScope checks whether our claims have a specific scope.
func (c CustomClaims) HasScope(expectedScope string) bool {
	for _, scope := range strings.Fields(c.Scope) {
		if scope == expectedScope {
			return true
		}
	}
	return false
}

// Authenticate returns the auth middleware for cfg. Tokens are verified
// against Auth0 when a domain is configured; otherwise the token is passed
// through and the order service is left to reject it.
func Authenticate(cfg *config.Config, logger *slog.Logger) (gin.HandlerFunc, error) {
	if cfg.ValidatesTokens() {
		return EnsureValidToken(cfg, logger)
	}
	return ExtractToken(logger), nil
}

// ExtractToken stores the bearer token and its subject in the Gin context
// without checking the signature.
func ExtractToken(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokenExtractor(c.Request)
		if err != nil {
			logger.Debug("malformed authorization header", slog.String("error", err.Error()))
			unauthorized(c, "INVALID_TOKEN", "Malformed authorization header")
			return
		}
		if token == "" {
			unauthorized(c, "MISSING_TOKEN", "Authorization token is required")
			return
		}

		subject, err := tokenSubject(token)
		if err != nil {
			logger.Debug("unreadable bearer token", slog.String("error", err.Error()))
			unauthorized(c, "INVALID_TOKEN", "Failed to read JWT.")
			return
		}

		c.Set(userIDKey, subject)
		c.Set(accessTokenKey, token)
		c.Next()
	}
}

func tokenSubject(raw string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(raw, &jwt.RegisteredClaims{})
	if err != nil {
		return "", err
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if subject == "" {
		return "", errors.New("token has no subject")
	}
	return subject, nil
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
func EnsureValidToken(cfg *config.Config, logger *slog.Logger) (gin.HandlerFunc, error) {
	issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
	if err != nil {
		return nil, fmt.Errorf("parse issuer url: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("set up jwt validator: %w", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		code, message := "INVALID_TOKEN", "Failed to validate JWT."
		if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
			code, message = "MISSING_TOKEN", "Authorization token is required"
		} else {
			logger.Info("encountered error while validating JWT", slog.String("error", err.Error()))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		body := fmt.Sprintf(`{"success":false,"error":{"code":%q,"message":%q}}`, code, message)
		if _, writeErr := w.Write([]byte(body)); writeErr != nil {
			logger.Error("failed to write error response", slog.String("error", writeErr.Error()))
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithTokenExtractor(tokenExtractor),
	)

	return func(c *gin.Context) {
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			claims := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			token, _ := tokenExtractor(r)

			c.Request = r
			c.Set(userIDKey, claims.RegisteredClaims.Subject)
			c.Set(accessTokenKey, token)
			c.Set(claimsKey, claims)

			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !c.IsAborted() && c.GetString(userIDKey) == "" {
			// the error handler already wrote the response
			c.Abort()
		}
	}, nil
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetAccessToken returns the bearer token forwarded to the order service
func GetAccessToken(c *gin.Context) (string, error) {
	token := c.GetString(accessTokenKey)
	if token == "" {
		return "", &AuthError{Code: "MISSING_TOKEN", Message: "Access token not found in context"}
	}
	return token, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(claimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// RequireScope is a middleware that checks if the token has a specific scope
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetClaims(c)
		if err != nil {
			unauthorized(c, "MISSING_CLAIMS", "Could not retrieve token claims")
			return
		}

		customClaims, ok := claims.CustomClaims.(*CustomClaims)
		if !ok || !customClaims.HasScope(scope) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INSUFFICIENT_SCOPE",
					"message": "Insufficient permissions to access this resource",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context, code, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
	c.Abort()
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
