package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ukena18/Haci-sub000/internal/application/dto"
)

var (
	overdueMark = color.New(color.FgRed, color.Bold).SprintFunc()
	dueMark     = color.New(color.FgYellow).SprintFunc()
	debtMark    = color.New(color.FgRed).SprintFunc()
	creditMark  = color.New(color.FgGreen).SprintFunc()
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

// run abre la sesión del comando y la cierra al terminar.
func run(cmd *cobra.Command, opts *options, fn func(*session) error) error {
	sess, err := opts.open(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer sess.close()
	return fn(sess)
}

func newTotalsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "totals [customerID]",
		Short: "Saldo canónico por cliente (cobrado menos adeudado)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(sess *session) error {
				ctx := cmd.Context()
				ids := args
				if len(ids) == 0 {
					state, err := sess.svc.Load(ctx, sess.userID)
					if err != nil {
						return err
					}
					for _, c := range state.Customers {
						ids = append(ids, c.ID)
					}
				}

				w := newTable(cmd.OutOrStdout())
				fmt.Fprintln(w, "CLIENTE\tNOMBRE\tMONEDA\tADEUDADO\tCOBRADO\tSALDO")
				for _, id := range ids {
					t, err := sess.svc.CustomerTotals(ctx, sess.userID, id)
					if err != nil {
						return fmt.Errorf("cliente %s: %w", id, err)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						t.CustomerID, t.CustomerName, t.Currency,
						t.TotalDebt.StringFixed(2), t.TotalPayment.StringFixed(2), balanceCell(t))
				}
				return w.Flush()
			})
		},
	}
}

// balanceCell saldo coloreado; va en la última columna para no romper la alineación.
func balanceCell(t dto.CustomerTotalsResponse) string {
	switch {
	case t.Balance.IsNegative():
		return debtMark(t.BalanceText)
	case t.Balance.IsPositive():
		return creditMark(t.BalanceText)
	default:
		return t.BalanceText
	}
}

func newWatchCmd(opts *options) *cobra.Command {
	var dismissed bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Cobros vigilados por días restantes (vencidos primero)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(sess *session) error {
				ctx := cmd.Context()
				var (
					items []dto.WatchItemResponse
					err   error
				)
				if dismissed {
					items, err = sess.svc.DismissedItems(ctx, sess.userID)
				} else {
					items, err = sess.svc.Watchlist(ctx, sess.userID)
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "Sin cobros pendientes")
					return nil
				}
				w := newTable(out)
				fmt.Fprintln(w, "TIPO\tID\tCLIENTE\tCONCEPTO\tIMPORTE\tVENCE\tDÍAS\tESTADO")
				for _, it := range items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
						it.Kind, it.ID, it.CustomerName, it.Title, it.AmountText, it.DueDate, it.DaysLeft, watchStatus(it))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&dismissed, "dismissed", false, "Listar los elementos descartados")
	return cmd
}

func watchStatus(it dto.WatchItemResponse) string {
	switch {
	case it.Dismissed:
		return "descartado"
	case it.Overdue:
		return overdueMark("VENCIDO")
	case it.DaysLeft <= 3:
		return dueMark("próximo")
	default:
		return "pendiente"
	}
}

func newVaultsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "vaults",
		Short: "Efectivo real por caja",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(sess *session) error {
				vaults, err := sess.svc.ListVaults(cmd.Context(), sess.userID)
				if err != nil {
					return err
				}
				w := newTable(cmd.OutOrStdout())
				fmt.Fprintln(w, "CAJA\tNOMBRE\tMONEDA\tMOVIMIENTOS\tACTIVA\tCOBRADO")
				for _, v := range vaults {
					active := ""
					if v.Active {
						active = "*"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
						v.ID, v.Name, v.Currency, v.TransactionCount, active, v.TotalText)
				}
				return w.Flush()
			})
		},
	}
}

func newJobCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "job <jobID>",
		Short: "Costeo de un trabajo (total vivo si el cronómetro está abierto)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(sess *session) error {
				cost, err := sess.svc.JobCost(cmd.Context(), sess.userID, args[0])
				if err != nil {
					return err
				}
				w := newTable(cmd.OutOrStdout())
				fmt.Fprintf(w, "Trabajo:\t%s\n", cost.JobID)
				fmt.Fprintf(w, "Modo:\t%s\n", cost.Mode)
				if cost.Hours != nil {
					fmt.Fprintf(w, "Horas:\t%s\n", cost.Hours.StringFixed(2))
				}
				fmt.Fprintf(w, "Mano de obra:\t%s\n", cost.Labor.StringFixed(2))
				fmt.Fprintf(w, "Repuestos:\t%s\n", cost.Parts.StringFixed(2))
				total := cost.TotalText
				if cost.Live {
					total += " (en curso)"
				}
				fmt.Fprintf(w, "Total:\t%s\n", total)
				return w.Flush()
			})
		},
	}
}
