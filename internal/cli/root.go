// Package cli comandos de ledgerctl: consulta saldos, vencimientos, cajas y
// costeo de trabajos desde una exportación JSON o una base SQLite local.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ukena18/Haci-sub000/internal/application/workspace"
	"github.com/ukena18/Haci-sub000/internal/domain/ledger"
	"github.com/ukena18/Haci-sub000/internal/domain/repository"
	"github.com/ukena18/Haci-sub000/internal/infrastructure/sqlite"
	"github.com/ukena18/Haci-sub000/pkg/clock"
	"github.com/ukena18/Haci-sub000/pkg/config"
	"github.com/ukena18/Haci-sub000/pkg/logger"
)

var version = "1.0.0"

// fileUser usuario implícito de una exportación JSON (un archivo, un negocio).
const fileUser = "local"

type options struct {
	statePath     string
	sqlitePath    string
	userID        string
	now           string
	currency      string
	skipWeekends  bool
	countPaidJobs bool
	noColor       bool
	logLevel      string
}

// session servicio abierto para un comando.
type session struct {
	svc    *workspace.Service
	userID string
	close  func()
}

// NewRootCmd árbol de comandos de ledgerctl.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Consulta el libro de cobros de un negocio de servicios",
		Long: `ledgerctl calcula saldos de clientes, la lista de cobros vigilados, el
efectivo por caja y el costeo de trabajos a partir del árbol de estado.

El árbol se lee de una exportación JSON (--state) o de la base SQLite local
(--sqlite y --user). Los valores por defecto de las reglas se toman de .env y
de las variables LEDGER_*.`,
		Example: `  ledgerctl totals --state export.json
  ledgerctl watch --sqlite haci.db --user u1 --now 2024-03-15
  ledgerctl job 0190a7c4-... --state export.json`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.loadDefaults(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.statePath, "state", "", "Exportación JSON del árbol de estado")
	f.StringVar(&opts.sqlitePath, "sqlite", "", "Base SQLite local")
	f.StringVar(&opts.userID, "user", "", "Usuario dentro de la base SQLite")
	f.StringVar(&opts.now, "now", "", "Instante de cálculo (RFC3339 o YYYY-MM-DD; por defecto ahora)")
	f.StringVar(&opts.currency, "currency", "", "Moneda por defecto del negocio")
	f.BoolVar(&opts.skipWeekends, "skip-weekends", false, "Correr vencimientos de sábado/domingo al lunes")
	f.BoolVar(&opts.countPaidJobs, "count-paid-jobs", false, "Contar como cobrados los trabajos pagados sin cobro generado")
	f.BoolVar(&opts.noColor, "no-color", false, "Salida sin colores")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Nivel de log (stderr)")

	root.AddCommand(
		newTotalsCmd(opts),
		newWatchCmd(opts),
		newVaultsCmd(opts),
		newJobCmd(opts),
	)
	return root
}

// Execute ejecuta ledgerctl con os.Args.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadDefaults completa las reglas no indicadas por flag con .env y LEDGER_*.
func (o *options) loadDefaults(cmd *cobra.Command) error {
	_ = godotenv.Load() // sin .env se usan las variables del sistema

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("currency") {
		o.currency = cfg.Ledger.DefaultCurrency
	}
	if !flags.Changed("skip-weekends") {
		o.skipWeekends = cfg.Ledger.SkipWeekends
	}
	if !flags.Changed("count-paid-jobs") {
		o.countPaidJobs = cfg.Ledger.CountPaidJobs
	}
	if o.noColor {
		color.NoColor = true
	}
	return nil
}

func (o *options) clock() (clock.Clock, error) {
	if o.now == "" {
		return clock.System{}, nil
	}
	if t, err := time.Parse(time.RFC3339, o.now); err == nil {
		return clock.Fixed{At: t}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", o.now, time.Local)
	if err != nil {
		return nil, fmt.Errorf("--now inválido %q: use RFC3339 o YYYY-MM-DD", o.now)
	}
	return clock.Fixed{At: t}, nil
}

// open abre el almacén indicado y construye el servicio.
func (o *options) open(ctx context.Context, errOut io.Writer) (*session, error) {
	clk, err := o.clock()
	if err != nil {
		return nil, err
	}

	var (
		store  repository.StateStore
		userID string
		closer = func() {}
	)
	switch {
	case o.statePath != "" && o.sqlitePath != "":
		return nil, errors.New("use --state o --sqlite, no ambos")
	case o.statePath != "":
		store, userID = &fileStore{path: o.statePath}, fileUser
	case o.sqlitePath != "":
		if o.userID == "" {
			return nil, errors.New("--sqlite requiere --user")
		}
		db, err := sqlite.Open(ctx, o.sqlitePath, ledger.NewID)
		if err != nil {
			return nil, err
		}
		store, userID, closer = db, o.userID, func() { _ = db.Close() }
	default:
		return nil, errors.New("indique --state <archivo.json> o --sqlite <ruta> --user <id>")
	}

	log := logger.NewWithWriter(logger.Config{Env: "production", Level: o.logLevel}, errOut).Component("cli")
	svc := workspace.New(workspace.Deps{
		Store: store,
		Clock: clk,
		Log:   log,
	}, workspace.Options{
		Policy:          ledger.DuePolicy{SkipWeekends: o.skipWeekends},
		Totals:          ledger.Options{CountPaidJobs: o.countPaidJobs},
		DefaultCurrency: o.currency,
	})
	return &session{svc: svc, userID: userID, close: closer}, nil
}
