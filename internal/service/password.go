package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher deriva y verifica hashes bcrypt con un costo fijo.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher valida el costo configurado. Un costo fuera del
// rango de bcrypt es un error de configuración de arranque.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordHasher{cost: cost}, nil
}

// Hash deriva un hash con sal fresca; dos llamadas con la misma
// entrada producen hashes distintos.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Verify compara en tiempo constante. Un hash almacenado malformado
// cuenta como verificación fallida, no como error.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
