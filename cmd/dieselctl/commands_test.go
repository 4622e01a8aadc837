package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Diesel-api/internal/application/diesel"
	"github.com/jhoicas/Diesel-api/internal/application/dto"
	dieselrules "github.com/jhoicas/Diesel-api/internal/domain/diesel"
	"github.com/jhoicas/Diesel-api/internal/infrastructure/memory"
	"github.com/jhoicas/Diesel-api/pkg/config"
	"github.com/jhoicas/Diesel-api/pkg/jwt"
	"github.com/jhoicas/Diesel-api/pkg/logger"
)

const testSecret = "cli-secret"

func testConfig() (*config.Config, error) {
	return &config.Config{
		JWT: config.JWTConfig{Secret: testSecret, Expiration: 30, Issuer: "dieselctl-test"},
	}, nil
}

// memoryCLI cli con el motor sobre el almacén en memoria.
func memoryCLI(t *testing.T) (*cli, *diesel.Engine) {
	t.Helper()
	store := memory.NewStore()
	engine := diesel.NewEngine(diesel.EngineDeps{
		TxRunner: store,
		Repos:    store.Repos(),
		Sequence: memory.NewSequence(),
		Policy:   dieselrules.DefaultPolicy(),
		Log:      zerolog.Nop(),
	})
	c := &cli{
		log:        logger.Nop(),
		loadConfig: testConfig,
		openAuditor: func(ctx context.Context, cfg *config.Config) (auditor, func(), error) {
			return engineAuditor{receiving: engine.Receiving, readings: engine.Readings}, func() {}, nil
		},
	}
	return c, engine
}

func run(c *cli, args ...string) (string, error) {
	root := c.rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestToken_EmiteJWTValido(t *testing.T) {
	c, _ := memoryCLI(t)
	out, err := run(c, "token", "--user", "u-1", "--business", "biz-1", "--station", "st-1", "--role", "supervisor")
	require.NoError(t, err)

	id, err := jwt.Parse(testSecret, strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.UserID)
	assert.Equal(t, "biz-1", id.BusinessID)
	assert.Equal(t, "st-1", id.StationID)
	assert.Equal(t, jwt.RoleSupervisor, id.Role)
}

func TestToken_RolDesconocido(t *testing.T) {
	c, _ := memoryCLI(t)
	_, err := run(c, "token", "--user", "u-1", "--business", "biz-1", "--role", "vendedor")
	assert.Error(t, err)
}

func TestReconcile_SinNegocio(t *testing.T) {
	c, _ := memoryCLI(t)
	_, err := run(c, "reconcile", "task-1")
	assert.Error(t, err)
}

func TestReconcile_TareaSinMedidas(t *testing.T) {
	c, engine := memoryCLI(t)
	day := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	task, err := engine.Receiving.Create(context.Background(), diesel.Actor{BusinessID: "biz-1", UserID: "u-1"}, diesel.CreateTaskInput{
		StationID: "st-1", TankerID: "tk-1", SupplierID: "sup-1", TaskDate: &day,
	})
	require.NoError(t, err)

	out, err := run(c, "reconcile", task.ID, "--business", "biz-1")
	require.NoError(t, err)

	var res dto.ReconciliationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, task.TaskNumber, res.TaskNumber)
	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, "UNMEASURABLE", res.Problem)
}

func TestReconcile_OtroNegocioNoEncuentraLaTarea(t *testing.T) {
	c, engine := memoryCLI(t)
	task, err := engine.Receiving.Create(context.Background(), diesel.Actor{BusinessID: "biz-1", UserID: "u-1"}, diesel.CreateTaskInput{
		StationID: "st-1", TankerID: "tk-1", SupplierID: "sup-1",
	})
	require.NoError(t, err)

	_, err = run(c, "reconcile", task.ID, "--business", "biz-2")
	assert.Error(t, err)
}

func TestAuditMeter_Inexistente(t *testing.T) {
	c, _ := memoryCLI(t)
	_, err := run(c, "audit-meter", "no-existe", "--business", "biz-1")
	assert.Error(t, err)
}
