package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Service struct {
	Repo Repo
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Create stores a new account with a hashed password.
func (s *Service) Create(ctx context.Context, username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, errors.New("username and password are required")
	}
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return User{}, err
	}
	return s.Repo.Create(ctx, User{Username: username, Password: string(hash)})
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.Repo.GetByUsername(ctx, strings.TrimSpace(username))
}

// Authenticate returns the user when password matches. Unknown users and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	user, err := s.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}
