// Package excel exporta los reportes de diesel a XLSX con excelize.
package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/application/ports"
)

// ContentType tipo MIME de los archivos generados.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Reporte"

var _ ports.ReportExporter = (*ReportExporter)(nil)

// ReportExporter implementa ports.ReportExporter.
type ReportExporter struct {
	now func() time.Time
}

// NewReportExporter construye el exportador.
func NewReportExporter() *ReportExporter {
	return &ReportExporter{now: time.Now}
}

type sheet struct {
	f       *excelize.File
	header  int
	data    int
	nextRow int
}

// newSheet crea el libro con título (fila 1), fecha de generación (fila 2) y encabezados (fila 4).
func (e *ReportExporter) newSheet(title string, headers []string) (*sheet, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "bottom", Color: "DDDDDD", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}

	_ = f.SetCellValue(sheetName, "A1", title)
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	_ = f.SetRowHeight(sheetName, 1, 30)
	_ = f.SetCellValue(sheetName, "A2", "Generado: "+e.now().UTC().Format("2006-01-02 15:04:05")+" UTC")

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 4)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, colName, colName, 20)
	}
	return &sheet{f: f, header: headerStyle, data: dataStyle, nextRow: 5}, nil
}

func (s *sheet) addRow(values ...interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, s.nextRow)
		if err != nil {
			return err
		}
		if err := s.f.SetCellValue(sheetName, cell, v); err != nil {
			return err
		}
		_ = s.f.SetCellStyle(sheetName, cell, cell, s.data)
	}
	s.nextRow++
	return nil
}

func (s *sheet) bytes() ([]byte, error) {
	defer s.f.Close()
	buf, err := s.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

// ConsumptionSummary una fila por concepto.
func (e *ReportExporter) ConsumptionSummary(r *dto.ConsumptionSummaryDTO) ([]byte, error) {
	s, err := e.newSheet("Resumen de consumo de diesel", []string{"Concepto", "Litros"})
	if err != nil {
		return nil, err
	}
	rows := []struct {
		label string
		value interface{}
	}{
		{"Período", periodLabel(r.From, r.To)},
		{"Estación", nonEmpty(r.StationID, "Todas")},
		{"Recibido", liters(r.TotalReceived)},
		{"Consumido", liters(r.TotalConsumed)},
		{"Trasladado", liters(r.TotalTransferred)},
		{"Ajustes (entrada)", liters(r.TotalAdjustedIn)},
		{"Ajustes (salida)", liters(r.TotalAdjustedOut)},
		{"Existencia actual", liters(r.CurrentStock)},
		{"Tareas completadas", r.TasksCompleted},
		{"Tareas con discrepancia", r.Discrepancies},
	}
	for _, row := range rows {
		if err := s.addRow(row.label, row.value); err != nil {
			return nil, err
		}
	}
	return s.bytes()
}

// TankLevels una fila por tanque más la fila de totales.
func (e *ReportExporter) TankLevels(r *dto.TankLevelsDTO) ([]byte, error) {
	s, err := e.newSheet("Niveles de tanques", []string{
		"Código", "Nombre", "Estación", "Rol", "Capacidad", "Nivel actual", "% llenado", "Nivel mínimo", "Bajo mínimo",
	})
	if err != nil {
		return nil, err
	}
	for _, t := range r.Tanks {
		below := "No"
		if t.BelowMinLevel {
			below = "Sí"
		}
		if err := s.addRow(t.Code, t.Name, t.StationID, t.Role, liters(t.Capacity), liters(t.CurrentLevel),
			liters(t.FillPercent), liters(t.MinLevel), below); err != nil {
			return nil, err
		}
	}
	if err := s.addRow("TOTAL", "", "", "", liters(r.TotalCapacity), liters(r.TotalLevel), "", "",
		r.BelowMinCount); err != nil {
		return nil, err
	}
	return s.bytes()
}

// ReceivingTasks una fila por tarea.
func (e *ReportExporter) ReceivingTasks(r *dto.ReceivingTasksReportDTO) ([]byte, error) {
	s, err := e.newSheet("Tareas de recepción "+periodLabel(r.From, r.To), []string{
		"Número", "Fecha", "Estación", "Proveedor", "Cisterna", "Estado",
		"Despachado", "Recibido", "Diferencia", "Discrepancia", "Notas",
	})
	if err != nil {
		return nil, err
	}
	for _, t := range r.Rows {
		disc := "No"
		if t.Discrepancy {
			disc = "Sí"
		}
		if err := s.addRow(t.TaskNumber, t.TaskDate.UTC().Format("2006-01-02"), t.StationID, t.SupplierID,
			t.TankerID, t.Status, optLiters(t.QuantityFromSupplier), optLiters(t.QuantityReceivedAtStation),
			optLiters(t.QuantityDifference), disc, t.DifferenceNotes); err != nil {
			return nil, err
		}
	}
	if err := s.addRow("TOTAL RECIBIDO", "", "", "", "", "", "", liters(r.TotalReceived)); err != nil {
		return nil, err
	}
	return s.bytes()
}

func liters(d decimal.Decimal) float64 {
	f, _ := d.Round(3).Float64()
	return f
}

func optLiters(d *decimal.Decimal) interface{} {
	if d == nil {
		return ""
	}
	return liters(*d)
}

func periodLabel(from, to *time.Time) string {
	day := func(t *time.Time) string {
		if t == nil {
			return "..."
		}
		return t.UTC().Format("2006-01-02")
	}
	if from == nil && to == nil {
		return "completo"
	}
	return day(from) + " a " + day(to)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
