package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	app "github.com/rocketscienceinc/cubetactoe-backend/internal"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/config"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/logger"
)

// main - is the entry point of the application. It initializes the configuration, logger, and runs the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := initConfig()
	log := logger.New(os.Stdout, conf.LogLevel)

	if err := app.RunApp(log, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize config. Without a config.yml the environment alone is used.
func initConfig() *config.Config {
	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	path := filepath.Join(baseDir, "./config.yml")
	if _, err = os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		conf, envErr := config.LoadEnv()
		if envErr != nil {
			panic(envErr)
		}

		return conf
	}

	return config.MustLoad(path)
}
