// Package root contains the root command for the application
package root

import (
	"contaflow/dian-csv/internal/bankparser"
	"contaflow/dian-csv/internal/common"
	"contaflow/dian-csv/internal/config"
	"contaflow/dian-csv/internal/currencyutils"
	"contaflow/dian-csv/internal/dianparser"
	"contaflow/dian-csv/internal/logging"
	"contaflow/dian-csv/internal/merge"
	"contaflow/dian-csv/internal/store"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "dian-csv",
		Short: "A CLI tool to normalize DIAN tax exports and Colombian bank statements to CSV.",
		Long: `dian-csv converts DIAN electronic invoice exports (ventas, compras,
nómina, exógena, retenciones) and Colombian bank statements (PDF or Excel)
into a normalized CSV format, with movement categorization and fiscal
roll-ups.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to dian-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			cfg := config.GetGlobalConfig()

			Log = logging.NewLogrusAdapterFromLogger(config.Logger)
			logging.SetDefaultLogger(Log)

			bankparser.SetLogger(Log)
			dianparser.SetLogger(Log)
			store.SetLogger(Log)
			merge.SetLogger(Log)
			common.SetLogger(Log)
			currencyutils.SetLogger(config.Logger)

			if cfg.CSV.Delimiter != "" {
				common.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
			}
		},
	}

	// SharedFlags holds common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Merge command flags
	CompanyNIT string
	ReportType string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
}

// DataStore returns a store rooted at the configured data directory.
func DataStore() *store.Store {
	return store.NewStore(config.GetGlobalConfig().Data.Directory)
}
