package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	validate     = newValidator()
	queryDecoder = newQueryDecoder()
)

func newValidator() *validator.Validate {
	v := validator.New()

	// В ошибках - имена полей из json/schema тегов
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "schema"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return ""
	})

	// "2026-10-20"
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		_, err := time.Parse(domain.DateFormat, value)
		return err == nil
	})

	// "10:30", строго
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		_, err := types.ParseMinutes(value)
		return err == nil
	})

	return v
}

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("schema")
	d.IgnoreUnknownKeys(true)
	return d
}

// Validate проверяет структуру по тегам validate.
// Возвращает ошибки в виде поле -> правило.
func Validate(v interface{}) (map[string]string, error) {
	err := validate.Struct(v)
	if err == nil {
		return nil, nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, err
	}

	details := make(map[string]string, len(ve))
	for _, fe := range ve {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule = fmt.Sprintf("%s=%s", rule, fe.Param())
		}
		details[fe.Field()] = rule
	}
	return details, err
}

// DecodeQuery заполняет структуру из query параметров по тегам schema
func DecodeQuery(values url.Values, v interface{}) error {
	if err := queryDecoder.Decode(v, values); err != nil {
		return fmt.Errorf("decode query: %w", err)
	}
	return nil
}

// ParseDate разбирает дату "YYYY-MM-DD" в заданной таймзоне
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(domain.DateFormat, strings.TrimSpace(value), loc)
}
