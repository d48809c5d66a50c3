package notification

import (
	"context"

	authrepo "cleardoor_backend/internal/auth/repository"
	"cleardoor_backend/internal/notification/service"

	"github.com/google/uuid"
)

// AuthDirectory is the slice of the auth service the dispatcher needs.
type AuthDirectory interface {
	ActiveAdmins(ctx context.Context) ([]authrepo.User, error)
	UserByID(ctx context.Context, userID uuid.UUID) (authrepo.User, error)
}

// userDirectory adapts the auth service to the dispatcher's recipient
// lookups.
type userDirectory struct {
	auth AuthDirectory
}

func (d userDirectory) ActiveAdmins(ctx context.Context) ([]service.Recipient, error) {
	users, err := d.auth.ActiveAdmins(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]service.Recipient, 0, len(users))
	for _, u := range users {
		out = append(out, toRecipient(u))
	}
	return out, nil
}

func (d userDirectory) UserByID(ctx context.Context, id uuid.UUID) (service.Recipient, error) {
	u, err := d.auth.UserByID(ctx, id)
	if err != nil {
		return service.Recipient{}, err
	}
	return toRecipient(u), nil
}

func toRecipient(u authrepo.User) service.Recipient {
	return service.Recipient{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
	}
}
