package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-system/internal/controllers"
)

func runFileRouter(g *echo.Group, fileCtrl *controllers.FileController) {
	g.POST("/files", fileCtrl.Upload)
	g.DELETE("/files/:id", fileCtrl.DeleteFile)
}
