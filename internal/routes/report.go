package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-system/internal/controllers"
)

func runReportRouter(g *echo.Group, reportCtrl *controllers.ReportController) {
	g.GET("/reports/inventory", reportCtrl.GetInventoryReport)
}
