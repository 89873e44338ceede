package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/designer-studio/internal/interface/http/response"
)

// ErrorHandler отвечает за ошибки, добавленные через c.Error, если обработчик
// сам ничего не записал. Внутренние ошибки маскируются в response.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		response.Error(c, c.Errors.Last().Err)
	}
}
