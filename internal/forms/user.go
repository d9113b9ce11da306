package forms

import (
	"fmt"
	"strings"

	"github.com/magabrotheeeer/stonks/internal/lib/password"
)

// RegisterForm — данные формы регистрации.
type RegisterForm struct {
	Email    string `validate:"required,email,min=6,max=120"`
	Password string `validate:"required,min=6,max=40"`
}

// LoginForm — данные формы входа.
type LoginForm struct {
	Email      string `validate:"required,email"`
	Password   string `validate:"required"`
	RememberMe bool
}

// ParseRegister проверяет поля формы регистрации.
// max в теге считает символы, поэтому длина в байтах проверяется отдельно.
func ParseRegister(email, rawPassword string) (RegisterForm, error) {
	form := RegisterForm{
		Email:    strings.TrimSpace(email),
		Password: rawPassword,
	}
	errs := ValidationErrors{}
	if err := validate.Struct(form); err != nil {
		fromValidator(err, errs)
	}
	checkPasswordBytes(form.Password, errs)
	if len(errs) > 0 {
		return form, errs
	}
	return form, nil
}

// ParseLogin проверяет поля формы входа.
func ParseLogin(email, rawPassword, rememberMe string) (LoginForm, error) {
	form := LoginForm{
		Email:      strings.TrimSpace(email),
		Password:   rawPassword,
		RememberMe: isChecked(rememberMe),
	}
	errs := ValidationErrors{}
	if err := validate.Struct(form); err != nil {
		fromValidator(err, errs)
	}
	checkPasswordBytes(form.Password, errs)
	if len(errs) > 0 {
		return form, errs
	}
	return form, nil
}

func checkPasswordBytes(p string, errs ValidationErrors) {
	if len(p) > password.MaxBytes {
		errs.add("Password", fmt.Sprintf("field Password must be at most %d bytes long", password.MaxBytes))
	}
}
