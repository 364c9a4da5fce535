package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shift-bot/config"
	"shift-bot/internal/app/service"
	"shift-bot/internal/delivery/telegram/render"
	"shift-bot/internal/model"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции базы",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(config.Options{})
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "база %s в актуальном состоянии\n", a.cfg.Database.Path)
			return nil
		},
	}
}

func newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "Список пользователей в порядке первой смены",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(config.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.ledger.GetGlobalStats(cmd.Context())
			if err != nil {
				return err
			}
			return printSummaries(cmd.OutOrStdout(), stats)
		},
	}
}

func newStatsCmd() *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Итоги по закрытым сменам",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(config.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if userID == 0 {
				stats, err := a.ledger.GetGlobalStats(cmd.Context())
				if err != nil {
					return err
				}
				return printSummaries(out, stats)
			}
			stats, err := a.ledger.GetUserStats(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "user %d: сессий %d, часов %s, заработано %s руб. (ставка %s)\n",
				userID, stats.SessionCount, render.Money(stats.TotalHours), render.Money(stats.TotalPay),
				render.Money(a.ledger.HourlyRate()))
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "Telegram ID пользователя")
	return cmd
}

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Выгрузить смены в xlsx",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(config.Options{})
			if err != nil {
				return err
			}
			defer a.Close()
			return exportTo(cmd.Context(), service.NewExportService(a.repo, a.log), out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "shifts.xlsx", "файл для выгрузки")
	return cmd
}

func exportTo(ctx context.Context, exp *service.ExportService, path string) error {
	buf, err := exp.Export(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("запись %s: %w", path, err)
	}
	return nil
}

func printSummaries(w io.Writer, stats []model.UserSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tИМЯ\tСЕССИЙ\tЧАСОВ\tРУБ.")
	for _, s := range stats {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			s.UserID, s.DisplayName, s.SessionCount, render.Money(s.TotalHours), render.Money(s.TotalPay))
	}
	return tw.Flush()
}
