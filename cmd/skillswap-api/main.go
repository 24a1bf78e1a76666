package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd - корневая команда SkillSwap
var rootCmd = &cobra.Command{
	Use:   "skillswap-api",
	Short: "SkillSwap: каталог обмена навыками",
	Long: `SkillSwap API - каталог пользователей, предлагающих и ищущих навыки.

Доступные команды:
  serve  - запустить HTTP API и WebSocket сервер
  report - выгрузить коллекцию в JSON-файл`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
