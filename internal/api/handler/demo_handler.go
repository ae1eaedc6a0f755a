package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Demo handles GET / with a static greeting.
//
// @Summary      Demo
// @Tags         demo
// @Produce      json
// @Success      200  {object}  demoResponse
// @Router       / [get]
func Demo(c echo.Context) error {
	return c.JSON(http.StatusOK, demoResponse{
		Name:    "Demo",
		Message: "Hello World!",
		Icon:    "/icon.png",
		Stack: []string{
			"echo",
			"mongodb",
			"redis",
			"golang-jwt",
			"bcrypt",
			"zerolog",
			"prometheus",
			"swagger",
		},
	})
}
