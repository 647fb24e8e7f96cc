package response

import (
	"github.com/labstack/echo/v4"
)

// エラーレスポンスの形式
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func Error(c echo.Context, status int, message string, details ...string) error {
	return c.JSON(status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
