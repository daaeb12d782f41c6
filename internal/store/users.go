package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/imrics/DermAI/internal/model"
)

type UserStore struct {
	db dbQuerier
}

func NewUserStore(db dbQuerier) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, name string) (model.User, error) {
	user := model.User{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		ctx,
		`INSERT INTO "User" (id, name, "createdAt") VALUES ($1, $2, $3)`,
		user.ID,
		user.Name,
		user.CreatedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *UserStore) Get(ctx context.Context, userID string) (model.User, error) {
	user := model.User{}
	err := s.db.QueryRow(
		ctx,
		`SELECT id, name, "createdAt" FROM "User" WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Name, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}
