package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"users-api/internal/domain"
	"users-api/internal/repository"
)

// mockUserRepo emula la semántica del repositorio Postgres: índice
// único sobre email, lecturas filtradas por is_active y orden de
// listado por fecha de creación descendente.
type mockUserRepo struct {
	usersByID map[int64]domain.User
	nextID    int64
	now       time.Time
	calls     int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID: make(map[int64]domain.User),
		nextID:    1,
		now:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockUserRepo) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	m.calls++
	for _, u := range m.usersByID {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrDuplicateEmail
		}
	}
	user.ID = m.nextID
	m.nextID++
	user.IsActive = true
	ts := m.tick()
	user.CreatedAt = ts
	user.UpdatedAt = ts
	m.usersByID[user.ID] = user
	return user, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	m.calls++
	user, ok := m.usersByID[id]
	if !ok || !user.IsActive {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.calls++
	for _, u := range m.usersByID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *mockUserRepo) Update(_ context.Context, id int64, fields repository.UpdateUserFields) (domain.User, error) {
	m.calls++
	user, ok := m.usersByID[id]
	if !ok || !user.IsActive {
		return domain.User{}, pgx.ErrNoRows
	}
	if fields.Name != nil {
		user.Name = *fields.Name
	}
	if fields.Age != nil {
		user.Age = fields.Age
	}
	if fields.City != nil {
		user.City = fields.City
	}
	user.UpdatedAt = m.tick()
	m.usersByID[id] = user
	return user, nil
}

func (m *mockUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, int, error) {
	m.calls++
	var active []domain.User
	for _, u := range m.usersByID {
		if u.IsActive {
			active = append(active, u)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if !active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].CreatedAt.After(active[j].CreatedAt)
		}
		return active[i].ID > active[j].ID
	})

	total := len(active)
	if offset >= total {
		return []domain.User{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return active[offset:end], total, nil
}

func (m *mockUserRepo) SoftDelete(_ context.Context, id int64) (bool, error) {
	m.calls++
	user, ok := m.usersByID[id]
	if !ok || !user.IsActive {
		return false, nil
	}
	user.IsActive = false
	user.UpdatedAt = m.tick()
	m.usersByID[id] = user
	return true, nil
}

func (m *mockUserRepo) HardDelete(_ context.Context, id int64) (bool, error) {
	m.calls++
	if _, ok := m.usersByID[id]; !ok {
		return false, nil
	}
	delete(m.usersByID, id)
	return true, nil
}
