package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/SmileofHaven/Audion-Changes/internal/report"
	"github.com/SmileofHaven/Audion-Changes/internal/store"
	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

// openStore applies the log level flags and opens the library database
func openStore() (*store.Store, error) {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	dbPath := viper.GetString("db")
	util.DebugLog("Opening database: %s", dbPath)

	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}

// newEventLogger creates the JSONL event logger under the artifacts dir
func newEventLogger() (*report.EventLogger, error) {
	logLevel := report.LevelInfo
	if viper.GetBool("quiet") {
		logLevel = report.LevelWarning
	} else if viper.GetBool("verbose") {
		logLevel = report.LevelDebug
	}

	logger, err := report.NewEventLogger(viper.GetString("artifacts"), logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create event logger: %w", err)
	}

	return logger, nil
}
