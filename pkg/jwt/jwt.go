package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles reconocidos por el API de diesel.
const (
	RoleAdmin      = "admin"      // configura estaciones, tanques y bombas
	RoleSupervisor = "supervisor" // ajustes manuales y reportes
	RoleOperator   = "operador"   // conductor / operador de estación
)

// Claims claims estándar más negocio, estación por defecto y rol.
// UserID se usa como recordedBy en lecturas, movimientos y etapas.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	BusinessID string `json:"business_id"`
	StationID  string `json:"station_id,omitempty"`
	Role       string `json:"role"`
}

// Identity datos extraídos de un token válido.
type Identity struct {
	UserID     string
	BusinessID string
	StationID  string
	Role       string
}

// Generate genera un token JWT firmado (HS256).
func Generate(secret, issuer string, id Identity, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:     id.UserID,
		BusinessID: id.BusinessID,
		StationID:  id.StationID,
		Role:       id.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve la identidad.
// Retorna error si el token es inválido, expirado, con firma incorrecta o sin negocio.
func Parse(secret, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("claims inválidos")
	}
	if claims.UserID == "" || claims.BusinessID == "" {
		return Identity{}, fmt.Errorf("claims incompletos")
	}
	return Identity{
		UserID:     claims.UserID,
		BusinessID: claims.BusinessID,
		StationID:  claims.StationID,
		Role:       claims.Role,
	}, nil
}
