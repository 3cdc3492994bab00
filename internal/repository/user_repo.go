package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"users-api/internal/domain"
)

var (
	// ErrDuplicateEmail indica violación del índice único sobre email.
	ErrDuplicateEmail = errors.New("duplicate email")
	// ErrForeignKey indica violación de una clave foránea.
	ErrForeignKey = errors.New("foreign key violation")
)

// UpdateUserFields describe una actualización parcial: los campos nil
// conservan su valor anterior.
type UpdateUserFields struct {
	Name *string
	Age  *int
	City *string
}

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, id int64, fields UpdateUserFields) (domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, int, error)
	SoftDelete(ctx context.Context, id int64) (bool, error)
	HardDelete(ctx context.Context, id int64) (bool, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `
		INSERT INTO users (name, email, password_hash, age, city)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Age,
		user.City,
	).Scan(
		&user.ID,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapPgError(err)
	}
	return user, nil
}

// GetByID devuelve solo usuarios activos.
func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const query = `
		SELECT id, name, email, password_hash, age, city, is_active, created_at, updated_at
		FROM users
		WHERE id = $1 AND is_active = true
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail devuelve la fila sin importar is_active: registro y login
// necesitan ver también cuentas desactivadas.
func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT id, name, email, password_hash, age, city, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

// Update aplica semántica COALESCE: un campo nil conserva el valor
// previo. Siempre refresca updated_at.
func (r *PgUserRepository) Update(ctx context.Context, id int64, fields UpdateUserFields) (domain.User, error) {
	const query = `
		UPDATE users
		SET name = COALESCE($1, name),
		    age = COALESCE($2, age),
		    city = COALESCE($3, city),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND is_active = true
		RETURNING id, name, email, password_hash, age, city, is_active, created_at, updated_at
	`
	u, err := r.scanOne(r.pool.QueryRow(ctx, query, fields.Name, fields.Age, fields.City, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, err
		}
		return domain.User{}, mapPgError(err)
	}
	return u, nil
}

// List devuelve una página de usuarios activos, más recientes primero,
// junto al total de activos.
func (r *PgUserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	const query = `
		SELECT id, name, email, password_hash, age, city, is_active, created_at, updated_at
		FROM users
		WHERE is_active = true
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]domain.User, 0, limit)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.PasswordHash,
			&u.Age,
			&u.City,
			&u.IsActive,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	const countQuery = `SELECT COUNT(*) FROM users WHERE is_active = true`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// SoftDelete desactiva una fila activa. Devuelve false si no había
// ninguna fila activa con ese id.
func (r *PgUserRepository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	const query = `
		UPDATE users
		SET is_active = false, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND is_active = true
	`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// HardDelete elimina la fila de forma permanente, activa o no.
func (r *PgUserRepository) HardDelete(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM users WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgUserRepository) scanOne(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Age,
		&u.City,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// mapPgError traduce códigos SQLSTATE de interés a errores del paquete.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateEmail
		case "23503":
			return ErrForeignKey
		}
	}
	return err
}
