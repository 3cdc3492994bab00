package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"users-api/internal/domain"
)

func seedUsers(t *testing.T, repo *mockUserRepo, n int) []domain.User {
	t.Helper()
	users := make([]domain.User, 0, n)
	for i := 0; i < n; i++ {
		u, err := repo.Create(context.Background(), domain.User{
			Name:         fmt.Sprintf("User %d", i+1),
			Email:        fmt.Sprintf("user%d@example.com", i+1),
			PasswordHash: "x",
		})
		if err != nil {
			t.Fatalf("seed user %d: %v", i+1, err)
		}
		users = append(users, u)
	}
	return users
}

func TestUserServiceList_Pagination(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)
	seeded := seedUsers(t, repo, 25)

	page1, err := svc.List(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if len(page1.Users) != 10 {
		t.Fatalf("page 1 size %d, want 10", len(page1.Users))
	}
	if page1.Pagination.Total != 25 || page1.Pagination.Pages != 3 {
		t.Fatalf("pagination %+v, want total=25 pages=3", page1.Pagination)
	}
	// Más recientes primero: el último creado abre la primera página.
	if page1.Users[0].ID != seeded[24].ID {
		t.Fatalf("first user id %d, want %d", page1.Users[0].ID, seeded[24].ID)
	}

	page3, err := svc.List(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if len(page3.Users) != 5 {
		t.Fatalf("page 3 size %d, want 5", len(page3.Users))
	}

	page4, err := svc.List(context.Background(), 4, 10)
	if err != nil {
		t.Fatalf("list page 4: %v", err)
	}
	if len(page4.Users) != 0 {
		t.Fatalf("page 4 size %d, want empty", len(page4.Users))
	}
}

func TestUserServiceList_NormalizesPageAndLimit(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)
	seedUsers(t, repo, 3)

	result, err := svc.List(context.Background(), 0, -7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Pagination.Page != 1 || result.Pagination.Limit != 10 {
		t.Fatalf("pagination %+v, want page=1 limit=10", result.Pagination)
	}
	if len(result.Users) != 3 {
		t.Fatalf("got %d users, want 3", len(result.Users))
	}
}

func TestUserServiceList_ExcludesDeactivated(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)
	seeded := seedUsers(t, repo, 3)

	if err := svc.Deactivate(context.Background(), seeded[1].ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	result, err := svc.List(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Pagination.Total != 2 || len(result.Users) != 2 {
		t.Fatalf("got %d users total %d, want 2/2", len(result.Users), result.Pagination.Total)
	}
	for _, u := range result.Users {
		if u.ID == seeded[1].ID {
			t.Fatal("deactivated user present in listing")
		}
	}
}

func TestUserServiceUpdate_CoalescesFields(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	age := 30
	created, err := repo.Create(context.Background(), domain.User{
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "x",
		Age:          &age,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	city := "Riga"
	updated, err := svc.Update(context.Background(), created.ID, UpdateUserInput{City: &city})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.City == nil || *updated.City != "Riga" {
		t.Fatalf("city not updated: %+v", updated.City)
	}
	if updated.Name != "Ana" {
		t.Fatalf("name changed to %q", updated.Name)
	}
	if updated.Age == nil || *updated.Age != 30 {
		t.Fatalf("age changed: %+v", updated.Age)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatal("updated_at not advanced")
	}
}

func TestUserServiceUpdate_NotFound(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	name := "Nadie"
	_, err := svc.Update(context.Background(), 42, UpdateUserInput{Name: &name})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserServiceGetByID_NotFoundAfterDeactivate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)
	seeded := seedUsers(t, repo, 1)

	if _, err := svc.GetByID(context.Background(), seeded[0].ID); err != nil {
		t.Fatalf("get active: %v", err)
	}
	if err := svc.Deactivate(context.Background(), seeded[0].ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	_, err := svc.GetByID(context.Background(), seeded[0].ID)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserServiceDelete_InvalidIDBeforeStore(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	for _, id := range []int64{0, -5} {
		if err := svc.Delete(context.Background(), id); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("id %d: expected ErrInvalidID, got %v", id, err)
		}
	}
	if repo.calls != 0 {
		t.Fatalf("store touched %d times for invalid ids", repo.calls)
	}
}

func TestUserServiceDelete_NotFound(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	if err := svc.Delete(context.Background(), 42); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserServiceDelete_RemovesRowPermanently(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)
	seeded := seedUsers(t, repo, 1)

	if err := svc.Delete(context.Background(), seeded[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), seeded[0].ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
	// La fila dejó de existir: repetir el borrado es not-found.
	if err := svc.Delete(context.Background(), seeded[0].ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestUserServiceDelete_RemovesDeactivatedRow(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo)
	seeded := seedUsers(t, repo, 1)

	if err := svc.Deactivate(context.Background(), seeded[0].ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	// El hard delete alcanza también filas inactivas.
	if err := svc.Delete(context.Background(), seeded[0].ID); err != nil {
		t.Fatalf("delete deactivated: %v", err)
	}
}
