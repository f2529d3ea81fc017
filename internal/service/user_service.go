package service

import (
	"context"
	"errors"

	"venuebook/internal/models"
	"venuebook/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	store      *store.Store
	bcryptCost int
	logger     *zerolog.Logger
}

func NewUserService(s *store.Store, bcryptCost int, logger *zerolog.Logger) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{store: s, bcryptCost: bcryptCost, logger: logger}
}

type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	if in.Username == "" || in.Password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return models.User{}, err
	}

	return s.store.CreateUser(models.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
	})
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (models.User, error) {
	return s.store.GetUser(id)
}

// EnsureAdmin creates the fixed admin account at startup. Part of the seed:
// state is re-generated identically on every process start.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return err
	}

	_, err = s.store.CreateUser(models.User{
		Username:     username,
		PasswordHash: string(hash),
		FirstName:    "Admin",
		LastName:     "User",
		Email:        "admin@example.com",
		Phone:        "123-456-7890",
		IsAdmin:      true,
	})
	if errors.Is(err, store.ErrUsernameTaken) {
		return nil
	}
	return err
}
