package diesel_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/diesel"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
)

func TestCredit(t *testing.T) {
	tank := &entity.Tank{ID: "t1", Capacity: d("1000"), CurrentLevel: d("700")}

	level, err := diesel.Credit(tank, d("248"))
	require.NoError(t, err)
	assert.True(t, level.Equal(d("948")))

	level, err = diesel.Credit(tank, d("300.5"))
	require.ErrorIs(t, err, domain.ErrOverCapacity)
	assert.True(t, level.Equal(d("700")), "no se recorta")

	var le *domain.LevelError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "t1", le.TankID)

	level, err = diesel.Credit(tank, d("300"))
	require.NoError(t, err, "llenar hasta la capacidad exacta es válido")
	assert.True(t, level.Equal(tank.Capacity))
}

func TestDebit(t *testing.T) {
	tank := &entity.Tank{ID: "t1", Capacity: d("1000"), CurrentLevel: d("80")}

	level, err := diesel.Debit(tank, d("80"))
	require.NoError(t, err)
	assert.True(t, level.IsZero())

	_, err = diesel.Debit(tank, d("80.01"))
	assert.ErrorIs(t, err, domain.ErrInsufficientVolume)

	_, err = diesel.Debit(tank, d("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
