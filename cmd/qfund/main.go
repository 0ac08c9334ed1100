// Command qfund simulates a complete quadratic funding round. It loads a
// round description file, replays the declared proposals and votes through
// the message router, triggers the distribution and prints the resulting
// balances.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	flag "github.com/spf13/pflag"
)

func main() {
	var (
		genesisPath = flag.StringP("genesis", "g", "genesis.json", "path to the round description file")
		verbose     = flag.BoolP("verbose", "v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	raw, err := os.ReadFile(*genesisPath)
	if err != nil {
		logger.Error("cannot read the round description", "path", *genesisPath, "err", err)
		os.Exit(1)
	}

	report, err := runRound(logger, raw)
	if err != nil {
		logger.Error("round failed", "err", err)
		os.Exit(1)
	}
	if _, err := os.Stdout.WriteString(report); err != nil {
		logger.Error("cannot write the report", "err", err)
		os.Exit(1)
	}
}
