package handler

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"internship-tracker/backend/internal/model"
)

const universityIDTag = "university_id"

// RegisterValidators installs the custom binding tags on gin's validator.
// Call once before serving.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	// report json/form names in validation errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return v.RegisterValidation(universityIDTag, validateUniversityID)
}

// validateUniversityID accepts AAA/NNNN/NN and the compact AAANNNNNN form
func validateUniversityID(fl validator.FieldLevel) bool {
	_, ok := model.NormalizeUniversityID(fl.Field().String())
	return ok
}
