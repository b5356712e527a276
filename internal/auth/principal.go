package auth

import (
	"context"
	"time"

	"coinpulse/internal/models"
)

// Principal is the authenticated user attached to a request.
type Principal struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

func PrincipalOf(u *models.User) *Principal {
	return &Principal{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by WithPrincipal, if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
