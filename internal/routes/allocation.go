package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-system/internal/controllers"
)

func runAllocationRouter(g *echo.Group, allocationCtrl *controllers.AllocationController) {
	g.POST("/allocations", allocationCtrl.LinkEquipment)
	g.GET("/allocations/:ticket_id", allocationCtrl.ListByTicket)
	g.PUT("/allocations/:ticket_id/:equipment_id", allocationCtrl.UpdateLink)
	g.DELETE("/allocations/:ticket_id/:equipment_id", allocationCtrl.UnlinkEquipment)
}
