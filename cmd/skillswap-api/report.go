package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/report"
	"github.com/rajivgeraev/skillswap-api/internal/seed"
)

var (
	reportSeedFile string
	reportOutDir   string
)

var reportCmd = &cobra.Command{
	Use:   "report <users|swaps|feedback>",
	Short: "Выгрузить коллекцию из файла начальных данных в JSON",
	Long: `Строит ту же выгрузку, что и /api/admin/reports/:collection,
по файлу начальных данных, и сохраняет её как {collection}-report-{YYYY-MM-DD}.json.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportSeedFile, "seed", os.Getenv("SEED_FILE"), "YAML с начальными данными (по умолчанию встроенные демо-данные)")
	reportCmd.Flags().StringVarP(&reportOutDir, "out", "o", ".", "Каталог для файла отчёта")
}

func runReport(cmd *cobra.Command, args []string) error {
	collection, err := report.ParseCollection(args[0])
	if err != nil {
		return err
	}

	fixture, err := seed.Load(reportSeedFile)
	if err != nil {
		return err
	}
	l := ledger.New()
	if err := l.Import(fixture.Snapshot()); err != nil {
		return fmt.Errorf("ошибка загрузки начальных данных: %w", err)
	}

	rep, err := report.Build(collection, l.Snapshot(), time.Now())
	if err != nil {
		return err
	}

	path := filepath.Join(reportOutDir, rep.FileName)
	if err := os.WriteFile(path, rep.Body, 0o644); err != nil {
		return fmt.Errorf("ошибка записи отчёта: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
