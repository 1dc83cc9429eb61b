package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator membungkus validator/v10 agar bisa dipakai sebagai echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// FieldErrors mengubah error validator menjadi map field -> pesan
// untuk dikembalikan sebagai response 422.
func FieldErrors(err error) map[string]string {
	errs := map[string]string{}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["_error"] = err.Error()
		return errs
	}
	for _, fe := range validationErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			errs[field] = field + " wajib diisi"
		case "email":
			errs[field] = field + " harus berupa email yang valid"
		case "min":
			errs[field] = field + " minimal " + fe.Param()
		case "max":
			errs[field] = field + " maksimal " + fe.Param()
		case "oneof":
			errs[field] = field + " harus salah satu dari: " + fe.Param()
		case "gt":
			errs[field] = field + " harus lebih besar dari " + fe.Param()
		default:
			errs[field] = field + " tidak valid"
		}
	}
	return errs
}
