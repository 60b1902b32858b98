package controllers

import (
	"fmt"
	"net/http"
	"time"

	"equipment-system/internal/dto"
	"equipment-system/internal/services"
	"equipment-system/pkg/api"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// GetInventoryReport отдает инвентарную ведомость. По умолчанию JSON,
// при ?format=xlsx — файл Excel.
func (c *ReportController) GetInventoryReport(ctx echo.Context) error {
	rows, err := c.reportService.InventoryRows(ctx.Request().Context())
	if err != nil {
		c.logger.Error("GetInventoryReport: ошибка при формировании отчета", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	if ctx.QueryParam("format") == "xlsx" {
		return c.respondWithXLSX(ctx, rows)
	}

	return api.SuccessOne(ctx, http.StatusOK, "Отчет успешно сформирован", rows)
}

var inventoryHeaders = []string{
	"ID", "Наименование", "Категория", "Серийный номер", "Артикул",
	"Родитель (ID)", "Остаток", "Гарантия до", "Описание", "Создано",
}

func inventoryRowToSlice(node *dto.EquipmentNodeDTO) []interface{} {
	dateFmt := "02.01.2006"

	var parentID, quantity, warrantyEnd string
	if node.ParentID.Valid {
		parentID = fmt.Sprintf("%d", node.ParentID.Uint64)
	}
	if node.Quantity.Valid {
		quantity = fmt.Sprintf("%d", node.Quantity.Int64)
	} else {
		quantity = "не отслеживается"
	}
	if node.WarrantyEnd.Valid {
		warrantyEnd = time.Unix(node.WarrantyEnd.Int64, 0).Format(dateFmt)
	}

	return []interface{}{
		node.ID, node.Name, node.CategoryName.String, node.SerialNumber, node.Article.String,
		parentID, quantity, warrantyEnd, node.Description.String,
		time.Unix(node.CreatedAt, 0).Format(dateFmt),
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, rows []*dto.EquipmentNodeDTO) error {
	f := excelize.NewFile()
	sheet := "Инвентарь"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &inventoryHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "J1", style)

	for i, node := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := inventoryRowToSlice(node)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 35)
	f.SetColWidth(sheet, "C", "E", 20)
	f.SetColWidth(sheet, "I", "I", 40)

	fileName := fmt.Sprintf("inventory_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
