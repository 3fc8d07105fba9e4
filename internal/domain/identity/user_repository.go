package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByEmail looks up an already normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context, filter UserFilter) ([]*User, int64, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	Search   string
	Role     *Role
	Status   *UserStatus
	Page     int
	PageSize int
}
