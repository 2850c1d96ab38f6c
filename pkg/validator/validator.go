package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describe la primera regla que falló para un campo.
type FieldError struct {
	Field string // nombre JSON del campo
	Tag   string
	Param string
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// Reportar el nombre JSON en lugar del nombre Go para que el caller lo reconozca.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// notblank: string no vacío tras recortar espacios.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// ValidateStruct valida data y devuelve los errores en el orden de declaración de los campos.
func ValidateStruct(data interface{}) []*FieldError {
	var out []*FieldError
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []*FieldError{{Tag: "invalid"}}
	}
	for _, e := range verrs {
		out = append(out, &FieldError{
			Field: e.Field(),
			Tag:   e.Tag(),
			Param: e.Param(),
		})
	}
	return out
}

// First devuelve el primer error de validación o nil.
func First(data interface{}) *FieldError {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
