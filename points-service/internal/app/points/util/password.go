package util

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var passwordCharset = regexp.MustCompile(`^[A-Za-z0-9!@#$%^&*()]+$`)

// HashPassword хэширует пароль с использованием bcrypt
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// NewValidator возвращает validator с правилом password_charset:
// латиница, цифры и !@#$%^&*()
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("password_charset", func(fl validator.FieldLevel) bool {
		return passwordCharset.MatchString(fl.Field().String())
	})
	return v
}
