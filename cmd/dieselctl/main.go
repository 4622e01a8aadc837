// dieselctl tareas operativas del API de diesel: migraciones, tokens de desarrollo y
// auditoría de conciliaciones y contadores contra la base configurada.
//
// Uso: go run ./cmd/dieselctl <comando> [flags]
package main

import (
	"os"

	"github.com/jhoicas/Diesel-api/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{Env: "development", Level: "info", Output: os.Stderr})
	if err := newRootCmd(log).Execute(); err != nil {
		os.Exit(1)
	}
}
