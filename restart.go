package sipper

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// LogFileEnv carries the active log file path across a watchdog restart so
// the re-executed process appends to the same file instead of starting a
// new one.
const LogFileEnv = "SIPPER_LOGFILE"

// to allow testing
var execProcess = syscall.Exec

// Reexec replaces the current process with a fresh image of itself, keeping
// arguments and environment. It only returns on failure.
func Reexec() error {
	bin, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "unable to determine binary path")
	}
	if err := execProcess(bin, os.Args, os.Environ()); err != nil {
		return errors.Wrapf(err, "unable to re-exec %s", bin)
	}
	return nil
}
