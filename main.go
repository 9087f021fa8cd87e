package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"mmony/momo-csv/cmd/advise"
	"mmony/momo-csv/cmd/analyze"
	"mmony/momo-csv/cmd/batch"
	"mmony/momo-csv/cmd/convert"
	"mmony/momo-csv/cmd/push"
	"mmony/momo-csv/cmd/root"
	"mmony/momo-csv/cmd/rules"
	"mmony/momo-csv/cmd/stats"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Configure global log level directly so early messages respect it
	root.Log.SetLevel(configureLogLevelDirectly())

	// 3. Initialize root command flags
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(stats.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(push.Cmd)
	root.Cmd.AddCommand(advise.Cmd)
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

// configureLogLevelDirectly sets the global logrus level from MOMO_LOG_LEVEL
// and returns it
func configureLogLevelDirectly() logrus.Level {
	logLevelStr := os.Getenv("MOMO_LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}

	logrus.SetLevel(logLevel)
	return logLevel
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}
