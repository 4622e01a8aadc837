// Package pdf genera la nota de entrega de una recepción de diesel completada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nota de entrega + N° tarea │ Fecha + Estado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CISTERNA / PROVEEDOR / DESTINO                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TIEMPOS: una fila por etapa registrada                     │
//	│  LECTURAS: proveedor y bomba de entrada (antes / después)   │
//	│  COMPARTIMENTOS                                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONCILIACIÓN: despachado / recibido / diferencia           │
//	│  FOOTER: notas de diferencia + firmas                       │
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

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// MarotoDeliveryNoteGenerator implementa diesel.DeliveryNoteGenerator usando Maroto v2.
type MarotoDeliveryNoteGenerator struct {
	loc *time.Location
}

var _ diesel.DeliveryNoteGenerator = (*MarotoDeliveryNoteGenerator)(nil)

// NewMarotoDeliveryNoteGenerator construye el generador. loc nil = UTC.
func NewMarotoDeliveryNoteGenerator(loc *time.Location) *MarotoDeliveryNoteGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &MarotoDeliveryNoteGenerator{loc: loc}
}

// GenerateDeliveryNote genera el PDF y devuelve sus bytes.
func (g *MarotoDeliveryNoteGenerator) GenerateDeliveryNote(_ context.Context, note diesel.DeliveryNote) ([]byte, error) {
	if note.Task == nil {
		return nil, fmt.Errorf("pdf: tarea requerida")
	}
	task := note.Task
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Nota de entrega "+task.TaskNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(task, g.loc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(task, note.DestinationTank))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("TIEMPOS"))
	m.AddRows(g.timelineRows(note.Checkpoints)...)

	m.AddRows(sectionTitle("LECTURAS DE CONTADORES"))
	m.AddRows(readingsRows(note.Checkpoints)...)

	if len(note.Checkpoints.Compartments) > 0 {
		m.AddRows(sectionTitle("COMPARTIMENTOS"))
		m.AddRows(compartmentRows(note.Checkpoints.Compartments)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(task))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(task)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(task *entity.ReceivingTask, loc *time.Location) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("NOTA DE ENTREGA DE DIESEL", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estación: "+task.StationID, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(task.TaskNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+task.TaskDate.In(loc).Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Estado: "+string(task.Status), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func partiesRow(task *entity.ReceivingTask, tank *entity.Tank) core.Row {
	dest := "-"
	if tank != nil {
		dest = fmt.Sprintf("%s (%s)", tank.Name, tank.Code)
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Cisterna: %s   |   Proveedor: %s   |   Operador: %s",
				nonEmpty(task.TankerID, "-"),
				nonEmpty(task.SupplierID, "-"),
				nonEmpty(task.EmployeeID, "-"),
			), props.Text{Size: 8, Top: 2}),
			text.New("Tanque destino: "+dest, props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func (g *MarotoDeliveryNoteGenerator) timelineRows(c entity.Checkpoints) []core.Row {
	steps := []struct {
		label string
		at    *time.Time
	}{
		{"Inicio", c.StartTime},
		{"Llegada al proveedor", c.ArrivalAtSupplierTime},
		{"Inicio de carga", c.LoadingStartTime},
		{"Salida del proveedor", c.DepartureFromSupplierTime},
		{"Llegada a la estación", c.ArrivalAtStationTime},
		{"Inicio de descarga", c.UnloadingStartTime},
		{"Fin de descarga", c.UnloadingEndTime},
	}
	rows := make([]core.Row, 0, len(steps))
	for _, s := range steps {
		value := "-"
		if s.at != nil {
			value = s.at.In(g.loc).Format("02/01/2006 15:04")
		}
		rows = append(rows, keyValueRow(s.label, value))
	}
	return rows
}

func readingsRows(c entity.Checkpoints) []core.Row {
	rows := []core.Row{
		keyValueRow("Contador proveedor", fmt.Sprintf("%s  ->  %s",
			formatLiters(c.SupplierPumpBefore), formatLiters(c.SupplierPumpAfter))),
		keyValueRow("Contador de entrada", fmt.Sprintf("%s  ->  %s",
			formatLiters(c.IntakePumpBefore), formatLiters(c.IntakePumpAfter))),
	}
	if c.Invoice != nil {
		rows = append(rows, keyValueRow("Factura", fmt.Sprintf("%s  (%s L)",
			nonEmpty(c.Invoice.Number, "-"), formatLiters(c.Invoice.Quantity))))
	}
	if c.SupplierReadingAnomalous || c.IntakeReadingAnomalous {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Lectura anómala registrada: revisar reemplazo de contador.", props.Text{
				Size: 8, Top: 1, Color: colorAlert,
			}),
		)))
	}
	return rows
}

func compartmentRows(list []entity.Compartment) []core.Row {
	rows := make([]core.Row, 0, len(list))
	for _, c := range list {
		q := c.Quantity
		rows = append(rows, keyValueRow(fmt.Sprintf("Compartimento %d", c.Number), formatLiters(&q)+" L"))
	}
	return rows
}

func keyValueRow(key, value string) core.Row {
	return row.New(5).Add(
		col.New(5).Add(text.New(key, props.Text{Size: 8, Left: 2})),
		col.New(7).Add(text.New(value, props.Text{Size: 8, Color: colorGray})),
	)
}

// totalsRow: bloque de conciliación alineado a la derecha.
func totalsRow(task *entity.ReceivingTask) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	diffColor := colorPrimary
	if task.Discrepancy {
		diffColor = colorAlert
	}
	return row.New(20).Add(
		col.New(4),
		col.New(4).Add(
			label("Despachado por proveedor:"),
			label("Recibido en estación:"),
			text.New("DIFERENCIA:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: diffColor, Right: 2,
			}),
		),
		col.New(3).Add(
			value(formatLiters(task.QuantityFromSupplier)+" L"),
			value(formatLiters(task.QuantityReceivedAtStation)+" L"),
			text.New(formatLiters(task.QuantityDifference)+" L", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: diffColor, Right: 1,
			}),
		),
		col.New(1),
	)
}

func footerRows(task *entity.ReceivingTask) []core.Row {
	var rows []core.Row
	if task.DifferenceNotes != "" {
		rows = append(rows,
			sectionTitle("OBSERVACIONES DE DIFERENCIA"),
			row.New(12).Add(col.New(12).Add(
				text.New(task.DifferenceNotes, props.Text{Size: 8, Top: 1, Left: 2}),
			)),
		)
	}
	rows = append(rows,
		row.New(20),
		row.New(8).Add(
			col.New(6).Add(text.New("______________________________\nEntrega (conductor)", props.Text{
				Size: 8, Align: align.Center, Color: colorGray,
			})),
			col.New(6).Add(text.New("______________________________\nRecibe (estación)", props.Text{
				Size: 8, Align: align.Center, Color: colorGray,
			})),
		),
	)
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatLiters cantidad con 2 decimales y puntos de miles. nil = "-".
// Ej: 24850.5 -> "24.850,50"
func formatLiters(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	out := groupThousands(intPart) + "," + frac
	if d.IsNegative() {
		return "-" + out
	}
	return out
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
