package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/egresados/internal/app/models/dto"
)

// ValidatedBodyKey is the context key holding the bound request body
const ValidatedBodyKey = "validatedBody"

var validate = validator.New()

// ValidateJSON binds the JSON body into a new T, validates it and stores the
// pointer under ValidatedBodyKey.
func ValidateJSON[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		obj := new(T)
		if err := c.ShouldBindJSON(obj); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").
				WithDetails(err.Error())
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}

		if err := validate.Struct(obj); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}

		c.Set(ValidatedBodyKey, obj)
		c.Next()
	}
}

// ValidatedBody returns the body stored by ValidateJSON
func ValidatedBody[T any](c *gin.Context) (*T, bool) {
	v, ok := c.Get(ValidatedBodyKey)
	if !ok {
		return nil, false
	}
	obj, ok := v.(*T)
	return obj, ok
}
