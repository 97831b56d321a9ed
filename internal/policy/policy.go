// Package policy реализует пополевую авторизацию изменений учётной записи:
// по роли вызывающего и текущему состоянию цели вычисляется набор полей,
// которые данный запрос вправе изменить.
package policy

import (
	"fmt"

	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/apperr"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/model"
	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/validation"
)

// Patch описывает запрошенные изменения учётной записи. Отсутствующее
// поле (nil) не изменяется.
type Patch struct {
	Email    *string
	Password *string
	Roles    *model.Roles
}

// IsEmpty сообщает, что запрос не затрагивает ни одного изменяемого поля.
func (p Patch) IsEmpty() bool {
	return p.Email == nil && p.Password == nil && p.Roles == nil
}

// Decision содержит результат авторизации: список полей, которые
// запросу разрешено изменить.
type Decision struct {
	Fields []string
}

// Hasher определяет контракт вычисления дайджеста пароля.
type Hasher interface {
	Hash(password string) ([]byte, error)
}

// Authorize проверяет запрос на изменение учётной записи. Правила
// применяются по порядку: пустой запрос отклоняется; поле roles доступно
// только администратору; новые учётные данные проходят проверку формата.
func Authorize(patch Patch, caller model.Roles, target *model.User) (Decision, error) {
	if patch.IsEmpty() {
		return Decision{}, fmt.Errorf("%w: nothing to update", apperr.ErrBadRequest)
	}

	if patch.Roles != nil && !caller.Admin {
		return Decision{}, fmt.Errorf("%w: only admin may change roles", apperr.ErrForbidden)
	}

	if patch.Password != nil && !validation.IsStrongPassword(*patch.Password) {
		return Decision{}, fmt.Errorf("%w: password is too weak", apperr.ErrBadRequest)
	}

	if patch.Email != nil && !validation.IsValidEmail(*patch.Email) {
		return Decision{}, fmt.Errorf("%w: invalid email", apperr.ErrBadRequest)
	}

	var fields []string
	if patch.Email != nil {
		fields = append(fields, "email")
	}
	if patch.Password != nil {
		fields = append(fields, "password")
	}
	if patch.Roles != nil {
		fields = append(fields, "roles")
	}

	return Decision{Fields: fields}, nil
}

// Apply вносит разрешённые изменения в учётную запись. Новый пароль
// проходит через Hasher: открытый текст не сохраняется ни при каком пути.
func Apply(target *model.User, patch Patch, hasher Hasher) error {
	if patch.Email != nil {
		target.Email = *patch.Email
	}
	if patch.Password != nil {
		digest, err := hasher.Hash(*patch.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		target.PasswordHash = digest
	}
	if patch.Roles != nil {
		target.Roles = *patch.Roles
	}
	return nil
}
