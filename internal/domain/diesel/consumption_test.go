package diesel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

func TestConsumption_TasaPorHora(t *testing.T) {
	qty, rate, err := diesel.Consumption(d("500"), d("420"), dp("8"))
	require.NoError(t, err)
	assert.True(t, qty.Equal(d("80")))
	require.NotNil(t, rate)
	assert.True(t, rate.Equal(d("10")))
}

func TestConsumption_SinHoras(t *testing.T) {
	_, rate, err := diesel.Consumption(d("500"), d("420"), nil)
	require.NoError(t, err)
	assert.Nil(t, rate)

	_, rate, err = diesel.Consumption(d("500"), d("420"), dp("0"))
	require.NoError(t, err)
	assert.Nil(t, rate)
}

func TestConsumption_NivelFinalMayor(t *testing.T) {
	_, _, err := diesel.Consumption(d("420"), d("500"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStatistics(t *testing.T) {
	records := []*entity.GeneratorConsumption{
		{GeneratorID: "g1", QuantityConsumed: d("80"), RunningHours: dp("8")},
		{GeneratorID: "g1", QuantityConsumed: d("40"), RunningHours: dp("2")},
		{GeneratorID: "g1", QuantityConsumed: d("10")},
		{GeneratorID: "g2", QuantityConsumed: d("999"), RunningHours: dp("1")},
	}
	st := diesel.Statistics("g1", records)
	assert.Equal(t, 3, st.Records)
	assert.True(t, st.TotalConsumed.Equal(d("130")))
	assert.True(t, st.TotalRunningHours.Equal(d("10")))
	require.NotNil(t, st.AverageRate)
	assert.True(t, st.AverageRate.Equal(d("13")))
}
