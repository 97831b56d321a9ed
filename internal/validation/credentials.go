// Package validation содержит функции валидации входных данных.
package validation

import "strings"

// MinPasswordLength задаёт минимальную длину пароля.
const MinPasswordLength = 6

// IsValidEmail проверяет, что адрес имеет базовую форму local@domain.
func IsValidEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\n") {
		return false
	}

	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}

	local := email[:at]
	domain := email[at+1:]

	return local != "" && domain != ""
}

// IsStrongPassword проверяет соответствие пароля политике стойкости.
func IsStrongPassword(password string) bool {
	return len(password) >= MinPasswordLength
}
