// Package forms разбирает и проверяет данные HTML-форм: добавление акции,
// регистрацию и вход пользователя.
//
// Ошибки проверки возвращаются как ValidationErrors: поле -> сообщение.
package forms

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator"
)

var validate = validator.New()

// ValidationErrors — ошибки проверки формы по полям.
type ValidationErrors map[string]string

// Error объединяет сообщения в стабильном порядке полей.
func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, v[f])
	}
	return strings.Join(msgs, ", ")
}

func (v ValidationErrors) add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

// fromValidator переводит ошибки validator в человеко‑читаемые сообщения.
func fromValidator(err error, into ValidationErrors) {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		into.add("form", err.Error())
		return
	}
	for _, fe := range errs {
		field := fe.Field()
		switch fe.ActualTag() {
		case "required":
			into.add(field, fmt.Sprintf("field %s is a required field", field))
		case "email":
			into.add(field, fmt.Sprintf("field %s must be a valid email address", field))
		case "alpha":
			into.add(field, fmt.Sprintf("field %s can contain only letters", field))
		case "min":
			into.add(field, fmt.Sprintf("field %s must be at least %s characters long", field, fe.Param()))
		case "max":
			into.add(field, fmt.Sprintf("field %s must be at most %s characters long", field, fe.Param()))
		case "gt":
			into.add(field, fmt.Sprintf("field %s must be greater than %s", field, fe.Param()))
		default:
			into.add(field, fmt.Sprintf("field %s is not valid", field))
		}
	}
}

// isChecked интерпретирует значение чекбокса формы.
func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "on", "true", "1":
		return true
	}
	return false
}
