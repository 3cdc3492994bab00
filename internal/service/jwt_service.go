package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService emite y valida tokens JWT de acceso.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// Claims son los claims firmados en cada token.
type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

var (
	ErrJWTInvalid = errors.New("jwt invalid")
	ErrJWTExpired = errors.New("jwt expired")
)

// NewJWTService construye el emisor. La ausencia de clave de firma es
// un error fatal de arranque.
func NewJWTService(secret string, ttl time.Duration) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("jwt signing secret not configured")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "users-api",
	}, nil
}

// Issue firma un token con el id de usuario y expiración según el TTL
// configurado. Los tokens no se almacenan ni pueden revocarse.
func (s *JWTService) Issue(userID int64) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse valida firma y vigencia y devuelve el id del sujeto. Distingue
// token expirado de token malformado o mal firmado.
func (s *JWTService) Parse(tokenString string) (int64, error) {
	if tokenString == "" {
		return 0, ErrJWTInvalid
	}

	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrJWTExpired
		}
		return 0, ErrJWTInvalid
	}

	if !s.isValidClaims(claims) {
		return 0, ErrJWTInvalid
	}
	return claims.UserID, nil
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if claims.UserID <= 0 {
		return false
	}
	if claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return false
	}
	return claims.Issuer == s.issuer
}
