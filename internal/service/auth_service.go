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
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService coordina registro y login de usuarios.
type AuthService struct {
	logger *zap.Logger
	users  repository.UserRepository
	hasher *PasswordHasher
	tokens *JWTService
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, hasher *PasswordHasher, tokens *JWTService) *AuthService {
	return &AuthService{
		logger: logger,
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      *int
	City     *string
}

// AuthResult agrupa el usuario y su token emitido.
type AuthResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Register crea la cuenta y emite un token para el nuevo id. Falla con
// ErrEmailTaken si el email ya existe, activo o no. La verificación
// previa es solo fast-path: el índice único de la tabla es quien
// resuelve una carrera entre dos registros concurrentes.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	_, err := s.users.GetByEmail(ctx, input.Email)
	if err == nil {
		return AuthResult{}, ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return AuthResult{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Age:          input.Age,
		City:         input.City,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return AuthResult{User: user, Token: token}, nil
}

// Login autentica por email y contraseña. Email desconocido, contraseña
// incorrecta y cuenta desactivada fallan con el mismo
// ErrInvalidCredentials para no filtrar existencia de cuentas.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup email: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	return AuthResult{User: user, Token: token}, nil
}
