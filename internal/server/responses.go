package server

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"scory/internal/apperr"
)

func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	message := err.Error()
	if kind == apperr.KindInternal {
		message = "internal server error"
	}
	c.JSON(kind.HTTPStatus(), gin.H{
		"success": false,
		"message": message,
	})
}

// bindJSON decodes and validates a request body, writing the structured
// validation response on failure.
func (s *Server) bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		details := bindingErrors(err)
		body := gin.H{
			"success": false,
			"message": "validation failed",
		}
		if len(details) > 0 {
			body["errors"] = details
		}
		c.JSON(apperr.KindValidation.HTTPStatus(), body)
		return false
	}
	return true
}

func bindingErrors(err error) []string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return nil
	}
	details := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		details = append(details, fieldErr.Field()+" failed "+fieldErr.Tag()+" validation")
	}
	return details
}
