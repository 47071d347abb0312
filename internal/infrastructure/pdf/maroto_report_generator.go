// Package pdf genera el reporte PDF del listado de movimientos internos entre cajas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + empresa     │  Fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Nro | Fecha | Origen | Destino | Montos | Estado     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: registros / montos activos                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cajas-api/internal/application/movement"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
)

var _ movement.ReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa movement.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	company string
}

// NewMarotoReportGenerator construye el generador. company aparece en el encabezado y como autor.
func NewMarotoReportGenerator(company string) *MarotoReportGenerator {
	return &MarotoReportGenerator{company: company}
}

// GenerateMovementReport genera el PDF y devuelve sus bytes. total es la cantidad
// filtrada (puede superar len(rows) si el reporte fue truncado).
func (g *MarotoReportGenerator) GenerateMovementReport(
	ctx context.Context,
	rows []entity.JoinedMovement,
	total int,
	generatedAt time.Time,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Movimientos internos", true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.company, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(rows)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(rows, total)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(company string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("MOVIMIENTOS INTERNOS ENTRE CAJAS", props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New(company, props.Text{
				Size: 9, Top: 8, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Nro", 1, align.Center),
		h("Fecha", 2, align.Left),
		h("Caja origen", 2, align.Left),
		h("Caja destino", 2, align.Left),
		h("Monto origen", 2, align.Right),
		h("Monto destino", 2, align.Right),
		h("Estado", 1, align.Center),
	)
}

func tableDetailRows(rows []entity.JoinedMovement) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	result := make([]core.Row, 0, len(rows))
	for _, j := range rows {
		status := text.New("Activo", props.Text{Size: 8, Align: align.Center, Top: 1})
		if !j.Active {
			status = text.New("Anulado", props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorRed})
		}
		result = append(result, row.New(7).Add(
			cell(fmt.Sprintf("%d", j.Number), 1, align.Center),
			cell(j.CreatedAt.Format("02/01/2006"), 2, align.Left),
			cell(j.OriginBox.Description, 2, align.Left),
			cell(j.DestinationBox.Description, 2, align.Left),
			cell(j.OriginAmount.StringFixed(2), 2, align.Right),
			cell(j.DestinationAmount.StringFixed(2), 2, align.Right),
			col.New(1).Add(status),
		))
		if j.Observation != "" {
			result = append(result, row.New(5).Add(
				col.New(1),
				col.New(11).Add(text.New(j.Observation, props.Text{Size: 7, Color: colorGray, Left: 1})),
			))
		}
	}
	return result
}

// totalsRows: cantidad de registros y suma de montos de los movimientos activos listados.
func totalsRows(rows []entity.JoinedMovement, total int) []core.Row {
	originSum, destSum := decimal.Zero, decimal.Zero
	for _, j := range rows {
		if j.Active {
			originSum = originSum.Add(j.OriginAmount)
			destSum = destSum.Add(j.DestinationAmount)
		}
	}
	count := fmt.Sprintf("Registros: %d", total)
	if len(rows) < total {
		count = fmt.Sprintf("Registros: %d (se muestran %d)", total, len(rows))
	}
	label := props.Text{Style: fontstyle.Bold, Size: 9, Top: 2}
	amount := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1}
	return []core.Row{
		row.New(8).Add(
			col.New(7).Add(text.New(count, label)),
			col.New(2).Add(text.New(originSum.StringFixed(2), amount)),
			col.New(2).Add(text.New(destSum.StringFixed(2), amount)),
			col.New(1),
		),
		row.New(5).Add(
			col.New(12).Add(text.New("Totales calculados sobre movimientos activos.", props.Text{Size: 7, Color: colorGray})),
		),
	}
}
