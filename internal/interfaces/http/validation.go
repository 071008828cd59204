package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/jhoicas/facturacion-ve/pkg/rif"
)

// newValidator configura el validador con la etiqueta rif y los nombres JSON/query de los campos.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})
	_ = v.RegisterValidation("rif", func(fl validator.FieldLevel) bool {
		return rif.Validate(fl.Field().String()) == nil
	})
	return v
}

// requestBinder lee y valida el body o la query de una petición.
type requestBinder struct {
	validate *validator.Validate
}

// body parsea el JSON en out y lo valida. Si falla ya escribió la respuesta y devuelve false.
func (b requestBinder) body(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, badBody(c)
	}
	return b.check(c, out)
}

// query parsea los parámetros de consulta en out y los valida.
func (b requestBinder) query(c *fiber.Ctx, out any) (bool, error) {
	if err := c.QueryParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	return b.check(c, out)
}

func (b requestBinder) check(c *fiber.Ctx, out any) (bool, error) {
	err := b.validate.Struct(out)
	if err == nil {
		return true, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false, badBody(c)
	}
	fields := make([]dto.FieldError, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, dto.FieldError{Field: fieldPath(e), Message: validationMessage(e)})
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Message: "la solicitud tiene campos inválidos",
		Fields:  fields,
	})
}

// fieldPath quita el nombre del struct raíz: "CreateOrderRequest.detalles[0].id_producto" -> "detalles[0].id_producto".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo requerido"
	case "email":
		return "correo inválido"
	case "uuid":
		return "debe ser un UUID"
	case "rif":
		return "RIF inválido"
	case "oneof":
		return "debe ser uno de: " + e.Param()
	case "datetime":
		return "fecha inválida, se espera RFC3339"
	case "min":
		if e.Kind() == reflect.String {
			return "debe tener al menos " + e.Param() + " caracteres"
		}
		if e.Kind() == reflect.Slice {
			return "debe tener al menos " + e.Param() + " elementos"
		}
		return "debe ser mayor o igual a " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "debe tener como máximo " + e.Param() + " caracteres"
		}
		return "debe ser menor o igual a " + e.Param()
	}
	return "valor inválido"
}
