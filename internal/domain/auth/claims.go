package auth

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
)

// Actor identifies the authenticated caller of a request. The session layer
// is an external collaborator; the core only consumes its claims.
type Actor struct {
	ProfileID string
	Role      string
	IsAdmin   bool
}

// ActorFromContext extracts the acting profile from the verified JWT claims.
func ActorFromContext(ctx context.Context) (Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Actor{}, ErrInvalidToken
	}

	profileID, ok := claims["profile_id"].(string)
	if !ok || profileID == "" {
		return Actor{}, ErrInvalidToken
	}

	role, _ := claims["role"].(string)
	isAdmin, _ := claims["is_admin"].(bool)

	return Actor{ProfileID: profileID, Role: role, IsAdmin: isAdmin}, nil
}
