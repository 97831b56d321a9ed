// Package token реализует выпуск и проверку JWT-токенов авторизации.
// Issuer создаётся один раз при старте процесса и передаётся зависимостям
// явно: глобального состояния с секретом в пакете нет.
package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken возвращается для просроченного или некорректно
// подписанного токена.
var ErrInvalidToken = errors.New("invalid token")

// Claims содержит полезную нагрузку токена авторизации.
type Claims struct {
	UID   string
	Admin bool
}

type jwtClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// Issuer выпускает подписанные токены с заданным временем жизни.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer создаёт Issuer с указанным секретным ключом и TTL токенов.
// Пустой секрет заменяется случайным ключом: такой процесс остаётся
// работоспособным, но его токены не переживут перезапуск.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Issuer{
		secret: key,
		ttl:    ttl,
	}
}

// Sign выпускает токен для указанного пользователя и его роли.
func (i *Issuer) Sign(uid string, admin bool) (string, error) {
	now := time.Now()

	claims := jwtClaims{
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Parse проверяет подпись и срок действия токена и возвращает его claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	var claims jwtClaims

	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}

	return &Claims{
		UID:   claims.Subject,
		Admin: claims.Admin,
	}, nil
}
