package debug

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDebuggerAttached reports whether the binary was started by Delve, directly or from an IDE
func IsDebuggerAttached() bool {
	if os.Getenv("VSCODE_DEBUG_MODE") != "" || os.Getenv("DELVE_DEBUGGER") != "" {
		return true
	}
	return strings.HasPrefix(filepath.Base(os.Args[0]), "__debug_bin")
}
