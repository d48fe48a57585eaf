package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity"

var ErrNoIdentity = errors.New("no authenticated identity")

// Identity is the caller as described by the auth provider's token.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Image  string
}

// IdentityFromToken extracts the identity from verified JWT claims.
func IdentityFromToken(token *jwt.Token) (*Identity, error) {
	if token == nil {
		return nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("missing sub claim")
	}

	id := &Identity{UserID: sub}
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	id.Image, _ = claims["picture"].(string)
	return id, nil
}

func SetIdentity(c *fiber.Ctx, id *Identity) {
	c.Locals(identityKey, id)
}

// GetIdentity returns the identity placed in locals by the auth middleware.
func GetIdentity(c *fiber.Ctx) (*Identity, error) {
	if id, ok := c.Locals(identityKey).(*Identity); ok && id != nil {
		return id, nil
	}
	if token, ok := c.Locals("user").(*jwt.Token); ok {
		return IdentityFromToken(token)
	}
	return nil, ErrNoIdentity
}

// GetUserID returns the authenticated user's id.
func GetUserID(c *fiber.Ctx) (string, error) {
	id, err := GetIdentity(c)
	if err != nil {
		return "", err
	}
	return id.UserID, nil
}
