// Command tdc is the fire control workbench for the patrol site: it solves
// torpedo firing problems, runs the dial-by-dial simulator that backs the
// site's playback page, and replays attacks recorded in the patrol reports
// through the solver.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jmknapp/cobia-patrols/internal/config"
	"github.com/jmknapp/cobia-patrols/internal/logging"
)

// AppName names the log files and the telemetry spool.
const AppName = "tdc"

// version defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	command := strings.ToLower(args[0])
	switch command {
	case "version":
		fmt.Printf("%s %s (built %s)\n", AppName, CurrentVersion, BuildDate)
		return 0
	case "help", "-h", "--help":
		usage()
		return 0
	}

	if err := config.Load("."); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logCfg := config.GetLoggingConfig()
	logger, closeLog, err := logging.Setup(logCfg.Level, logCfg.Dir, AppName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() {
		_ = closeLog()
	}()

	logger.Debug().Str("version", CurrentVersion).Str("command", command).Msg("Starting")

	var cmdErr error
	switch command {
	case "solve":
		cmdErr = runSolve(logger, args[1:])
	case "simulate":
		cmdErr = runSimulate(logger, args[1:])
	case "verify":
		cmdErr = runVerify(logger, args[1:])
	case "presets":
		cmdErr = runPresets(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		return 2
	}
	if cmdErr != nil {
		logger.Error().Err(cmdErr).Str("command", command).Msg("Command failed")
		return 1
	}
	return 0
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s <command> [flags]

Commands:
  solve      compute a firing solution for one observation
  simulate   run the analog machine and write a playback recording
  verify     replay attacks from the patrol reports through the solver
  presets    list the configured torpedo speed settings
  version    print version and build date

Run '%s <command> -h' for the flags a command takes.

Example, the fourth attack of the first patrol:
  %s solve -own-course 281 -target-bearing 291 -target-range 1300 -target-course 115 -target-speed 10
`, AppName, AppName, AppName)
}
