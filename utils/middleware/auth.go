package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/model"
	"github.com/sahilchouksey/course-platform-api/utils/auth"
	"github.com/sahilchouksey/course-platform-api/utils/response"
	"gorm.io/gorm"
)

// AuthMiddleware authenticates the two disjoint principal spaces: regular
// accounts (student/instructor) and the singleton admin. Each space has its
// own JWT manager with its own secret.
type AuthMiddleware struct {
	accountJWT *auth.JWTManager
	adminJWT   *auth.JWTManager
	db         *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(accountJWT, adminJWT *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		accountJWT: accountJWT,
		adminJWT:   adminJWT,
		db:         db,
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// RequireAccount is middleware that requires a valid account token
func (m *AuthMiddleware) RequireAccount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return response.Unauthorized(c, "Missing authorization token")
		}

		claims, err := m.accountJWT.ValidateToken(tokenString)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		// The token is opaque evidence only; the account row is authoritative
		var account model.Account
		if err := m.db.First(&account, claims.PrincipalID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.Unauthorized(c, "User not found")
			}
			return response.InternalServerError(c, "Failed to load user")
		}

		c.Locals("account", &account)
		c.Locals("account_id", account.ID)
		c.Locals("role", string(account.Role))

		return c.Next()
	}
}

// RequireRole requires an account token whose account carries one of roles
func (m *AuthMiddleware) RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := GetRole(c)
		if !ok {
			return response.Forbidden(c, "Access denied")
		}
		for _, r := range roles {
			if role == string(r) {
				return c.Next()
			}
		}
		return response.Forbidden(c, "Insufficient permissions")
	}
}

// RequireAdmin requires a valid token from the admin space. Account tokens
// never pass here: they are signed with a different secret.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return response.Unauthorized(c, "Missing authorization token")
		}

		claims, err := m.adminJWT.ValidateToken(tokenString)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		var admin model.Admin
		if err := m.db.First(&admin, claims.PrincipalID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.Unauthorized(c, "Admin not found")
			}
			return response.InternalServerError(c, "Failed to load admin")
		}

		c.Locals("admin", &admin)
		c.Locals("admin_id", admin.ID)
		c.Locals("role", "admin")

		return c.Next()
	}
}

// RequireAccountOrAdmin accepts a token from either space. Used on routes
// where the owning instructor and the admin share access (course update and
// delete); the handler decides ownership from the locals.
func (m *AuthMiddleware) RequireAccountOrAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return response.Unauthorized(c, "Missing authorization token")
		}

		if claims, err := m.accountJWT.ValidateToken(tokenString); err == nil {
			var account model.Account
			if err := m.db.First(&account, claims.PrincipalID).Error; err != nil {
				return response.Unauthorized(c, "User not found")
			}
			c.Locals("account", &account)
			c.Locals("account_id", account.ID)
			c.Locals("role", string(account.Role))
			return c.Next()
		}

		if claims, err := m.adminJWT.ValidateToken(tokenString); err == nil {
			var admin model.Admin
			if err := m.db.First(&admin, claims.PrincipalID).Error; err != nil {
				return response.Unauthorized(c, "Admin not found")
			}
			c.Locals("admin", &admin)
			c.Locals("admin_id", admin.ID)
			c.Locals("role", "admin")
			return c.Next()
		}

		return response.Unauthorized(c, "Invalid token")
	}
}

// GetAccount extracts the authenticated account from context
func GetAccount(c *fiber.Ctx) (*model.Account, bool) {
	account := c.Locals("account")
	if account == nil {
		return nil, false
	}
	a, ok := account.(*model.Account)
	return a, ok
}

// GetAccountID extracts the account ID from context
func GetAccountID(c *fiber.Ctx) (uint, bool) {
	id := c.Locals("account_id")
	if id == nil {
		return 0, false
	}
	v, ok := id.(uint)
	return v, ok
}

// GetRole extracts the principal role from context ("admin" for admins)
func GetRole(c *fiber.Ctx) (string, bool) {
	role := c.Locals("role")
	if role == nil {
		return "", false
	}
	r, ok := role.(string)
	return r, ok
}

// IsAdmin reports whether the request is authenticated as the admin principal
func IsAdmin(c *fiber.Ctx) bool {
	role, ok := GetRole(c)
	return ok && role == "admin"
}
