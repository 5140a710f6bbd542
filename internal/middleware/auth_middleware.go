package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

// PrincipalKey is the gin context key under which the verified caller is
// stored for downstream handlers.
const PrincipalKey = "principal"

// TokenVerifier checks a Firebase ID token. *auth.Client satisfies it; tests
// plug in fakes.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// errorBody mirrors the API error shape without importing internal/api,
// which would create an import cycle.
type errorBody struct {
	Error string `json:"error"`
}

// AuthMiddleware provides Gin middleware for Firebase token authentication.
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	if verifier == nil {
		panic("AuthMiddleware requires a non-nil token verifier")
	}
	return &AuthMiddleware{verifier: verifier}
}

// VerifyToken validates the Authorization bearer token and stores the
// resulting Principal in the request context. Requests without a valid token
// are aborted with 401 before reaching any handler.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			log.Printf("AuthMiddleware: Error verifying ID token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "Invalid or expired authentication token"})
			return
		}

		principal := &models.Principal{UID: token.UID}
		if email, ok := token.Claims["email"].(string); ok {
			principal.Email = email
		}
		if name, ok := token.Claims["name"].(string); ok {
			principal.DisplayName = name
		}
		if picture, ok := token.Claims["picture"].(string); ok {
			principal.PhotoURL = picture
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// PrincipalFrom pulls the verified caller out of the gin context. The second
// return is false when the auth middleware did not run on this route.
func PrincipalFrom(c *gin.Context) (*models.Principal, bool) {
	raw, ok := c.Get(PrincipalKey)
	if !ok {
		return nil, false
	}
	principal, ok := raw.(*models.Principal)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}
