package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

func TestFormatLiters(t *testing.T) {
	d := func(s string) *decimal.Decimal {
		v := decimal.RequireFromString(s)
		return &v
	}
	assert.Equal(t, "-", formatLiters(nil))
	assert.Equal(t, "250,00", formatLiters(d("250")))
	assert.Equal(t, "24.850,50", formatLiters(d("24850.5")))
	assert.Equal(t, "-1.200,00", formatLiters(d("-1200")))
	assert.Equal(t, "1.000.000,00", formatLiters(d("1000000")))
}

func TestGenerateDeliveryNote_GeneraPDF(t *testing.T) {
	sent := decimal.NewFromInt(250)
	received := decimal.NewFromInt(248)
	diff := decimal.NewFromInt(2)
	task := &entity.ReceivingTask{
		TaskNumber:                "RCV-20260310-0001",
		StationID:                 "st-1",
		TaskDate:                  time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		Status:                    entity.TaskStatusCompleted,
		QuantityFromSupplier:      &sent,
		QuantityReceivedAtStation: &received,
		QuantityDifference:        &diff,
	}
	tank := &entity.Tank{Code: "T-01", Name: "Recepción"}

	g := NewMarotoDeliveryNoteGenerator(nil)
	out, err := g.GenerateDeliveryNote(context.Background(), diesel.DeliveryNote{
		Task:            task,
		Checkpoints:     entity.Checkpoints{Compartments: []entity.Compartment{{Number: 1, Quantity: sent}}},
		DestinationTank: tank,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = g.GenerateDeliveryNote(context.Background(), diesel.DeliveryNote{})
	assert.Error(t, err)
}
