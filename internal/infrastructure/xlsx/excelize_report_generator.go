// Package xlsx exporta el listado de movimientos a una planilla Excel.
package xlsx

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/cajas-api/internal/application/movement"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
)

var _ movement.ReportGenerator = (*ExcelizeReportGenerator)(nil)

// SheetName hoja con el detalle de movimientos.
const SheetName = "Movimientos"

var header = []any{
	"Nro", "Fecha", "Caja origen", "Caja destino",
	"Monto origen", "Monto destino", "Estado", "Observación",
	"Creado por", "Modificado por",
}

// ExcelizeReportGenerator implementa movement.ReportGenerator con excelize.
type ExcelizeReportGenerator struct{}

// NewExcelizeReportGenerator construye el generador.
func NewExcelizeReportGenerator() *ExcelizeReportGenerator {
	return &ExcelizeReportGenerator{}
}

// GenerateMovementReport escribe una fila por movimiento, con encabezado fijo, y
// al final la cantidad filtrada junto con la fecha de generación.
func (g *ExcelizeReportGenerator) GenerateMovementReport(
	ctx context.Context,
	rows []entity.JoinedMovement,
	total int,
	generatedAt time.Time,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "J1", headerStyle); err != nil {
		return nil, fmt.Errorf("xlsx: estilo encabezado: %w", err)
	}

	for i, j := range rows {
		if i%200 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		status := "Activo"
		if !j.Active {
			status = "Anulado"
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{
			j.Number,
			j.CreatedAt,
			j.OriginBox.Description,
			j.DestinationBox.Description,
			nil, // montos: abajo, como texto decimal exacto
			nil,
			status,
			j.Observation,
			j.Creator.Name,
			j.Updater.Name,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
		// SetCellDefault escribe el literal numérico tal cual; un float64 perdería dígitos
		for col, amount := range map[string]string{"E": j.OriginAmount.String(), "F": j.DestinationAmount.String()} {
			if err := f.SetCellDefault(SheetName, fmt.Sprintf("%s%d", col, i+2), amount); err != nil {
				return nil, fmt.Errorf("xlsx: monto fila %d: %w", i+2, err)
			}
		}
	}
	if len(rows) > 0 {
		last := len(rows) + 1
		if err := f.SetCellStyle(SheetName, "E2", fmt.Sprintf("F%d", last), amountStyle); err != nil {
			return nil, fmt.Errorf("xlsx: estilo montos: %w", err)
		}
	}

	footer, _ := excelize.CoordinatesToCellName(1, len(rows)+2)
	summary := []any{
		fmt.Sprintf("Registros: %d", total),
		"Generado: " + generatedAt.Format("02/01/2006 15:04"),
	}
	if err := f.SetSheetRow(SheetName, footer, &summary); err != nil {
		return nil, fmt.Errorf("xlsx: totales: %w", err)
	}

	if err := f.SetColWidth(SheetName, "B", "D", 20); err != nil {
		return nil, fmt.Errorf("xlsx: ancho de columnas: %w", err)
	}
	if err := f.SetColWidth(SheetName, "E", "F", 15); err != nil {
		return nil, fmt.Errorf("xlsx: ancho de columnas: %w", err)
	}
	if err := f.SetColWidth(SheetName, "H", "H", 40); err != nil {
		return nil, fmt.Errorf("xlsx: ancho de columnas: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("xlsx: fijar encabezado: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
