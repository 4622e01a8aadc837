package excel_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/infrastructure/excel"
)

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestConsumptionSummary_FilasPorConcepto(t *testing.T) {
	out, err := excel.NewReportExporter().ConsumptionSummary(&dto.ConsumptionSummaryDTO{
		TotalReceived: decimal.NewFromInt(2480),
		TotalConsumed: decimal.NewFromInt(130),
		CurrentStock:  decimal.NewFromInt(2350),
	})
	require.NoError(t, err)

	f := open(t, out)
	v, err := f.GetCellValue("Reporte", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Resumen de consumo de diesel", v)

	v, _ = f.GetCellValue("Reporte", "A4")
	assert.Equal(t, "Concepto", v)
	v, _ = f.GetCellValue("Reporte", "A7")
	assert.Equal(t, "Recibido", v)
	v, _ = f.GetCellValue("Reporte", "B7")
	assert.Equal(t, "2480", v)
}

func TestTankLevels_IncluyeTotales(t *testing.T) {
	out, err := excel.NewReportExporter().TankLevels(&dto.TankLevelsDTO{
		GeneratedAt: time.Now(),
		Tanks: []dto.TankResponse{
			{Code: "T-01", Name: "Recepción", Capacity: decimal.NewFromInt(10000), CurrentLevel: decimal.NewFromInt(500), BelowMinLevel: true},
		},
		TotalCapacity: decimal.NewFromInt(10000),
		TotalLevel:    decimal.NewFromInt(500),
		BelowMinCount: 1,
	})
	require.NoError(t, err)

	f := open(t, out)
	v, _ := f.GetCellValue("Reporte", "A5")
	assert.Equal(t, "T-01", v)
	v, _ = f.GetCellValue("Reporte", "I5")
	assert.Equal(t, "Sí", v)
	v, _ = f.GetCellValue("Reporte", "A6")
	assert.Equal(t, "TOTAL", v)
}

func TestReceivingTasks_CantidadesOpcionales(t *testing.T) {
	q := decimal.NewFromInt(250)
	out, err := excel.NewReportExporter().ReceivingTasks(&dto.ReceivingTasksReportDTO{
		Rows: []dto.ReceivingTaskRow{
			{TaskNumber: "RCV-20260310-0001", TaskDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), Status: "completed", QuantityFromSupplier: &q},
			{TaskNumber: "RCV-20260310-0002", TaskDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), Status: "pending"},
		},
	})
	require.NoError(t, err)

	f := open(t, out)
	v, _ := f.GetCellValue("Reporte", "G5")
	assert.Equal(t, "250", v)
	v, _ = f.GetCellValue("Reporte", "G6")
	assert.Equal(t, "", v)
	v, _ = f.GetCellValue("Reporte", "B5")
	assert.Equal(t, "2026-03-10", v)
}
