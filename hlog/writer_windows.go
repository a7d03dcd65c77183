//go:build windows

package hlog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/eventlog"
)

var debugLog *eventlog.Log

func init() {
	var err error
	debugLog, err = eventlog.Open("Wololo")
	if err != nil {
		debugLog = nil
	}
}

func debugInit(msg string) {
	if debugLog != nil {
		debugLog.Info(1, "Wololo#Init: "+msg)
	} else {
		fmt.Fprintf(os.Stderr, "Wololo#Init: %s\n", msg)
	}
}

func IsTerminal() bool {
	isService, err := svc.IsWindowsService()
	if err == nil && isService {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func getLogDir() string {
	isService, _ := svc.IsWindowsService()
	if isService {
		return filepath.Join(filepath.VolumeName(os.Getenv("SystemDrive")), "ProgramData", "Wololo", "logs")
	}

	appData := os.Getenv("LOCALAPPDATA")
	if appData == "" {
		appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
	}
	return filepath.Join(appData, "Wololo", "logs")
}
