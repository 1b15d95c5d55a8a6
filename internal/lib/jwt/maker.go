package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken возвращается при любой проблеме с токеном: неверная
// подпись, истёкший срок или несовпадение вида.
var ErrInvalidToken = errors.New("invalid token")

// GenerateTempToken выпускает токен первого шага входа со сроком shortTTL.
func (j *MakerImpl) GenerateTempToken(userID string) (string, error) {
	return j.generate(userID, "", KindTemp, j.shortTTL)
}

// GenerateSessionToken выпускает сессионный токен с ролью пользователя.
func (j *MakerImpl) GenerateSessionToken(userID, role string) (string, error) {
	return j.generate(userID, role, KindSession, j.sessionTTL)
}

// GenerateResetToken выпускает токен сброса пароля со сроком shortTTL.
func (j *MakerImpl) GenerateResetToken(userID string) (string, error) {
	return j.generate(userID, "", KindReset, j.shortTTL)
}

func (j *MakerImpl) generate(userID, role, kind string, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		UserID: userID,
		Role:   role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken разбирает токен, проверяет его подпись, срок и вид,
// возвращает CustomClaims, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr, wantKind string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.Kind != wantKind {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return claims, nil
}
