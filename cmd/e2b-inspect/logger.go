// Debug logging for the CLI: messages go to ~/.e2b-inspect/debug.log so
// terminal output stays clean while failures remain diagnosable.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var debugLogger *log.Logger

func initLogger() error {
	logDir := filepath.Join(os.Getenv("HOME"), ".e2b-inspect")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	logFile := filepath.Join(logDir, "debug.log")
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	debugLogger = log.New(file, "", log.LstdFlags|log.Lshortfile)
	debugLogger.Printf("=== e2b-inspect started ===")
	return nil
}

func logDebug(format string, args ...interface{}) {
	if debugLogger != nil {
		debugLogger.Output(2, fmt.Sprintf(format, args...))
	}
}
