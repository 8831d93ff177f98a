package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"contaflow/dian-csv/cmd/audit"
	"contaflow/dian-csv/cmd/bank"
	batchcmd "contaflow/dian-csv/cmd/batch"
	"contaflow/dian-csv/cmd/dian"
	"contaflow/dian-csv/cmd/exogena"
	mergecmd "contaflow/dian-csv/cmd/merge"
	"contaflow/dian-csv/cmd/nomina"
	"contaflow/dian-csv/cmd/report"
	"contaflow/dian-csv/cmd/retenciones"
	"contaflow/dian-csv/cmd/root"
	"contaflow/dian-csv/cmd/upload"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// Load environment variables silently before any logging happens
	loadEnvSilently()

	// Configure the global log level so every logger picks it up
	configureLogLevelDirectly()

	root.Init()

	root.Cmd.AddCommand(audit.Cmd)
	root.Cmd.AddCommand(bank.Cmd)
	root.Cmd.AddCommand(batchcmd.Cmd)
	root.Cmd.AddCommand(dian.Cmd)
	root.Cmd.AddCommand(nomina.Cmd)
	root.Cmd.AddCommand(exogena.Cmd)
	root.Cmd.AddCommand(retenciones.Cmd)
	root.Cmd.AddCommand(mergecmd.Cmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(upload.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global log level for all logrus instances
func configureLogLevelDirectly() {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}

	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
