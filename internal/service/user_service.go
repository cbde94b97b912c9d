package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AdamBeresnev/pong-tournament-app/internal/middleware"
	"github.com/AdamBeresnev/pong-tournament-app/internal/store"
	users "github.com/AdamBeresnev/pong-tournament-app/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserService struct {
	db    *sqlx.DB
	store *store.UserStore
}

func NewUserService(db *sqlx.DB, store *store.UserStore) *UserService {
	return &UserService{db: db, store: store}
}

// EnsureGuestUser returns the shared guest account, creating it on first
// use. Everyone plays as the guest until a real account system exists.
func (s *UserService) EnsureGuestUser(ctx context.Context) (*users.User, error) {
	guestID := uuid.MustParse(middleware.GuestUserID)
	user, err := s.store.GetUser(ctx, guestID)
	if err == nil {
		return user, nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		guestUser := &users.User{
			ID:       guestID,
			Email:    "guest@pong-tournament.app",
			Username: "Guest",
		}
		err := s.store.CreateUser(ctx, guestUser)
		return guestUser, err
	}
	return nil, err
}
