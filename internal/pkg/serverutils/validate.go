package serverutils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation on a request DTO and converts
// failures into an InvalidInput application error.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fields []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range verrs {
			fields = append(fields, ve.Field()+" ("+ve.Tag()+")")
		}
		return InvalidInput("invalid request: %s", strings.Join(fields, ", "))
	}
	return InvalidInput("invalid request: %v", err)
}
