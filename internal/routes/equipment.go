package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-system/internal/controllers"
)

func runEquipmentRouter(g *echo.Group, equipmentCtrl *controllers.EquipmentController, fileCtrl *controllers.FileController) {
	g.GET("/equipment", equipmentCtrl.GetEquipments)
	g.GET("/equipment/tree", equipmentCtrl.GetEquipmentTree)
	g.GET("/equipment/:id", equipmentCtrl.FindEquipment)
	g.POST("/equipment", equipmentCtrl.CreateEquipment)
	g.PUT("/equipment/:id", equipmentCtrl.UpdateEquipment)
	g.DELETE("/equipment/:id", equipmentCtrl.DeleteEquipment)

	g.GET("/equipment/:id/quantity", equipmentCtrl.GetQuantity)
	g.PUT("/equipment/:id/quantity", equipmentCtrl.SetQuantity)

	g.GET("/equipment/:id/files", fileCtrl.ListByEquipment)
	g.POST("/equipment/:id/files", fileCtrl.UploadToEquipment)
	g.DELETE("/equipment/:id/files/:file_id", fileCtrl.UnlinkFile)
}
