package usecase_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/application/dto"
	"github.com/jhoicas/Diesel-api/internal/application/ports"
	"github.com/jhoicas/Diesel-api/internal/application/usecase"
	"github.com/jhoicas/Diesel-api/internal/domain"
	"github.com/jhoicas/Diesel-api/internal/domain/entity"
	"github.com/jhoicas/Diesel-api/internal/domain/repository"
	"github.com/jhoicas/Diesel-api/internal/infrastructure/memory"
)

var actor = diesel.Actor{BusinessID: "biz-1", UserID: "admin-1"}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

type registry struct {
	store   *memory.Store
	meters  *usecase.PumpMeterUseCase
	tanks   *usecase.TankUseCase
	configs *usecase.StationConfigUseCase
}

func newRegistry() registry {
	store := memory.NewStore()
	repos := store.Repos()
	ledger := diesel.NewLedgerUseCase(store, repos.Movements, ports.NopMetrics{}, zerolog.Nop())
	return registry{
		store:   store,
		meters:  usecase.NewPumpMeterUseCase(repos.Meters),
		tanks:   usecase.NewTankUseCase(store, repos.Tanks, ledger),
		configs: usecase.NewStationConfigUseCase(repos.StationConfigs, repos.Tanks, repos.Meters),
	}
}

func TestPumpMeter_CrearYCodigoDuplicado(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()
	in := dto.CreatePumpMeterRequest{StationID: "st-1", Code: "B-01", Name: "Bomba entrada", Type: "intake", InitialReading: d("1200.5")}

	out, err := r.meters.Create(ctx, "biz-1", in)
	require.NoError(t, err)
	assert.True(t, d("1200.5").Equal(out.CurrentReading))
	assert.True(t, d("1200.5").Equal(out.InitialReading))
	assert.True(t, out.IsActive)

	_, err = r.meters.Create(ctx, "biz-1", in)
	assert.ErrorIs(t, err, domain.ErrConflict)

	in.Type = "tanker"
	in.Code = "B-02"
	_, err = r.meters.Create(ctx, "biz-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPumpMeter_DesactivarNoTocaLectura(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()
	out, err := r.meters.Create(ctx, "biz-1", dto.CreatePumpMeterRequest{StationID: "st-1", Code: "B-01", Name: "B", Type: "output", InitialReading: d("50")})
	require.NoError(t, err)

	inactive := false
	upd, err := r.meters.Update(ctx, "biz-1", out.ID, dto.UpdatePumpMeterRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, upd.IsActive)
	assert.True(t, d("50").Equal(upd.CurrentReading))

	list, err := r.meters.List(ctx, "biz-1", dto.PumpMeterFilterRequest{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = r.meters.GetByID(ctx, "biz-2", out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTank_CrearConSaldoDeApertura(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()

	out, err := r.tanks.Create(ctx, actor, dto.CreateTankRequest{
		StationID: "st-1", Code: "T-01", Name: "Principal", Role: "main",
		Capacity: d("10000"), MinLevel: d("1000"), InitialLevel: d("2500"),
	})
	require.NoError(t, err)
	assert.True(t, d("2500").Equal(out.CurrentLevel))
	assert.True(t, d("25").Equal(out.FillPercent))
	assert.False(t, out.BelowMinLevel)

	movs, err := r.store.Repos().Movements.List(ctx, "biz-1", repository.TankMovementFilter{TankID: out.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeAdjustment, movs[0].Type)
	assert.True(t, d("2500").Equal(movs[0].Quantity))
}

func TestTank_AperturaMayorALaCapacidadNoCreaTanque(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()

	_, err := r.tanks.Create(ctx, actor, dto.CreateTankRequest{
		StationID: "st-1", Code: "T-01", Name: "Principal", Role: "main",
		Capacity: d("1000"), InitialLevel: d("1500"),
	})
	require.ErrorIs(t, err, domain.ErrOverCapacity)

	list, err := r.tanks.List(ctx, "biz-1", dto.TankFilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTank_ValidacionDeCantidades(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()
	base := dto.CreateTankRequest{StationID: "st-1", Code: "T-01", Name: "T", Role: "main", Capacity: d("1000")}

	bad := base
	bad.Capacity = d("0")
	_, err := r.tanks.Create(ctx, actor, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = base
	bad.MinLevel = d("1001")
	_, err = r.tanks.Create(ctx, actor, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = base
	bad.Role = "tanker"
	_, err = r.tanks.Create(ctx, actor, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTank_CapacidadNoBajaDelNivelActual(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()
	out, err := r.tanks.Create(ctx, actor, dto.CreateTankRequest{
		StationID: "st-1", Code: "T-01", Name: "T", Role: "main", Capacity: d("1000"), InitialLevel: d("800"),
	})
	require.NoError(t, err)

	_, err = r.tanks.Update(ctx, "biz-1", out.ID, dto.UpdateTankRequest{Capacity: dp("700")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	upd, err := r.tanks.Update(ctx, "biz-1", out.ID, dto.UpdateTankRequest{Capacity: dp("900"), MinLevel: dp("850")})
	require.NoError(t, err)
	assert.True(t, upd.BelowMinLevel)
	assert.True(t, d("800").Equal(upd.CurrentLevel))
}

func TestTank_CapacidadSeComparaConElNivelVigente(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()
	out, err := r.tanks.Create(ctx, actor, dto.CreateTankRequest{
		StationID: "st-1", Code: "T-01", Name: "T", Role: "main", Capacity: d("1000"), InitialLevel: d("800"),
	})
	require.NoError(t, err)

	// una recepción sube el nivel después de que el cliente leyó el tanque
	ledger := diesel.NewLedgerUseCase(r.store, r.store.Repos().Movements, ports.NopMetrics{}, zerolog.Nop())
	_, err = ledger.Append(ctx, actor, diesel.MovementInput{
		Spec:     entity.Adjustment{TankID: out.ID, Direction: entity.AdjustmentIn, Notes: "recepción sin tarea"},
		Quantity: d("150"),
	})
	require.NoError(t, err)

	_, err = r.tanks.Update(ctx, "biz-1", out.ID, dto.UpdateTankRequest{Capacity: dp("900")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := r.tanks.GetByID(ctx, "biz-1", out.ID)
	require.NoError(t, err)
	assert.True(t, d("1000").Equal(got.Capacity))
	assert.True(t, d("950").Equal(got.CurrentLevel))
}

func TestTank_RepositorioRechazaCapacidadMenorAlNivel(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()
	repo := r.store.Repos().Tanks
	require.NoError(t, repo.Create(ctx, &entity.Tank{
		ID: "t-1", BusinessID: "biz-1", StationID: "st-1", Code: "T", Name: "T",
		Role: entity.TankRoleMain, Capacity: d("1000"), CurrentLevel: d("600"), IsActive: true,
	}))

	err := repo.Update(ctx, &entity.Tank{
		ID: "t-1", BusinessID: "biz-1", StationID: "st-1", Code: "T", Name: "T",
		Role: entity.TankRoleMain, Capacity: d("500"), IsActive: true,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStationConfig_OtroNegocioNoSobrescribe(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()
	rcv, err := r.tanks.Create(ctx, actor, dto.CreateTankRequest{StationID: "st-1", Code: "R", Name: "R", Role: "receiving", Capacity: d("1000")})
	require.NoError(t, err)
	_, err = r.configs.Save(ctx, actor, "st-1", dto.StationConfigRequest{ReceivingTanks: []string{rcv.ID}})
	require.NoError(t, err)

	intruder := diesel.Actor{BusinessID: "biz-2", UserID: "admin-2"}
	_, err = r.configs.Save(ctx, intruder, "st-1", dto.StationConfigRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := r.configs.Get(ctx, "biz-1", "st-1")
	require.NoError(t, err)
	assert.Equal(t, []string{rcv.ID}, got.ReceivingTanks)

	_, err = r.configs.Get(ctx, "biz-2", "st-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStationConfig_ValidaRolesYTipos(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()
	rcv, err := r.tanks.Create(ctx, actor, dto.CreateTankRequest{StationID: "st-1", Code: "R", Name: "R", Role: "receiving", Capacity: d("1000")})
	require.NoError(t, err)
	gen, err := r.tanks.Create(ctx, actor, dto.CreateTankRequest{StationID: "st-1", Code: "G", Name: "G", Role: "generator", Capacity: d("500")})
	require.NoError(t, err)
	pump, err := r.meters.Create(ctx, "biz-1", dto.CreatePumpMeterRequest{StationID: "st-1", Code: "P", Name: "P", Type: "intake"})
	require.NoError(t, err)

	_, err = r.configs.Save(ctx, actor, "st-1", dto.StationConfigRequest{ReceivingTanks: []string{gen.ID}})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"receiving_tanks"}, verr.Fields)

	_, err = r.configs.Save(ctx, actor, "st-1", dto.StationConfigRequest{IntakePumps: []string{pump.ID}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	saved, err := r.configs.Save(ctx, actor, "st-1", dto.StationConfigRequest{
		ReceivingTanks: []string{rcv.ID},
		GeneratorTanks: []string{gen.ID},
		IntakePumps:    []string{pump.ID},
		HasIntakePump:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "admin-1", saved.UpdatedBy)

	got, err := r.configs.Get(ctx, "biz-1", "st-1")
	require.NoError(t, err)
	assert.Equal(t, []string{rcv.ID}, got.ReceivingTanks)

	_, err = r.configs.Get(ctx, "biz-1", "st-9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEvidence_SubeConClaveYContentType(t *testing.T) {
	store := memory.NewEvidenceStore()
	uc := usecase.NewEvidenceUseCase(store)
	payload := base64.StdEncoding.EncodeToString([]byte("foto"))

	out, err := uc.Upload(context.Background(), dto.EvidenceUploadRequest{
		FileName: "lectura.PNG",
		Data:     "data:image/png;base64," + payload,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^diesel/\d+_lectura\.PNG$`, out.Key)
	assert.Equal(t, "memory://"+out.Key, out.URL)
	data, ok := store.Object(out.Key)
	require.True(t, ok)
	assert.Equal(t, "foto", string(data))

	_, err = uc.Upload(context.Background(), dto.EvidenceUploadRequest{FileName: "x.jpg", Data: "%%%"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEvidence_ContentTypePorExtension(t *testing.T) {
	assert.Equal(t, "image/png", usecase.ContentTypeFor("a.png"))
	assert.Equal(t, "image/webp", usecase.ContentTypeFor("a.WEBP"))
	assert.Equal(t, "image/jpeg", usecase.ContentTypeFor("a.jpeg"))
	assert.Equal(t, "image/jpeg", usecase.ContentTypeFor("sin-extension"))
}
