package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"psicocitas-web/internal/models"
)

// CelularPattern matches a Peruvian mobile number: nine digits starting with 9.
var CelularPattern = regexp.MustCompile(`^9\d{8}$`)

var customMessages = map[string]string{
	"celular":  "Ingrese un número de celular correcto",
	"sede":     "Seleccione una sede válida",
	"required": "es obligatorio",
	"numeric":  "debe contener solo dígitos",
	"datetime": "debe tener el formato AAAA-MM-DD",
	"oneof":    "tiene un valor no permitido",
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidations(v)
	}
}

// RegisterValidations adds the custom tags used by request structs.
func RegisterValidations(v *validator.Validate) {
	_ = v.RegisterValidation("celular", func(fl validator.FieldLevel) bool {
		return CelularPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("sede", func(fl validator.FieldLevel) bool {
		return models.IsSede(fl.Field().String())
	})
}

// Validate performs validation on a struct using the binding tags.
func Validate(s interface{}) error {
	return binding.Validator.ValidateStruct(s)
}

// FormatValidationError formats validation errors into a readable string.
func FormatValidationError(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok {
		var errorMessages []string
		for _, e := range errs {
			msg, known := customMessages[e.Tag()]
			switch {
			case !known:
				errorMessages = append(errorMessages, fmt.Sprintf("%s: %s", e.Field(), e.Tag()))
			case e.Tag() == "celular" || e.Tag() == "sede":
				errorMessages = append(errorMessages, msg)
			default:
				errorMessages = append(errorMessages, fmt.Sprintf("%s %s", e.Field(), msg))
			}
		}
		return strings.Join(errorMessages, ", ")
	}
	return err.Error()
}

// BindAndValidate binds the request body to a struct and validates it.
// If validation fails, it sends a BadRequest response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			BadRequest(c, FormatValidationError(err))
			return false
		}
		BadRequest(c, "Solicitud inválida: "+err.Error())
		return false
	}
	return true
}
