package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"users-api/internal/domain"
	"users-api/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidID    = errors.New("invalid user id")
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// UserService coordina el ciclo de vida de usuarios: lectura,
// actualización y borrado.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
	}
}

type UpdateUserInput struct {
	Name *string
	Age  *int
	City *string
}

// Pagination describe la página devuelta por List.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// UserPage agrupa una página de usuarios y sus metadatos.
type UserPage struct {
	Users      []domain.User `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

// GetByID devuelve un usuario activo o ErrUserNotFound.
func (s *UserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	if id <= 0 {
		return domain.User{}, ErrInvalidID
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// List pagina usuarios activos, más recientes primero. Valores de
// página o límite no positivos caen a los defaults. Una página fuera
// de rango devuelve la secuencia vacía, no un error.
func (s *UserService) List(ctx context.Context, page, limit int) (UserPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	offset := (page - 1) * limit
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return UserPage{}, fmt.Errorf("list users: %w", err)
	}

	pages := (total + limit - 1) / limit
	return UserPage{
		Users: users,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// Update aplica una actualización parcial: los campos nil conservan su
// valor previo. La verificación de existencia y la escritura no van en
// una transacción; un borrado que se cuele entre ambas aflora como
// not-found desde el propio UPDATE, que filtra por is_active.
func (s *UserService) Update(ctx context.Context, id int64, input UpdateUserInput) (domain.User, error) {
	if id <= 0 {
		return domain.User{}, ErrInvalidID
	}

	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}

	user, err := s.users.Update(ctx, id, repository.UpdateUserFields{
		Name: input.Name,
		Age:  input.Age,
		City: input.City,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("user updated", zap.Int64("user_id", id))
	return user, nil
}

// Delete elimina la fila de forma permanente. El borrado lógico existe
// como primitiva del repositorio pero la operación pública es el hard
// delete, igual que en el sistema original.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	deleted, err := s.users.HardDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return ErrUserNotFound
	}

	s.logger.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

// Deactivate marca la cuenta como inactiva sin eliminar la fila. El
// email sigue ocupando el índice único, por lo que un nuevo registro
// con ese email falla igual.
func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	done, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if !done {
		return ErrUserNotFound
	}

	s.logger.Info("user deactivated", zap.Int64("user_id", id))
	return nil
}
