package main

import (
	"context"
	"fmt"
	"os"

	"courier-agent/internal/config"
	courieragent "courier-agent/internal/courier-agent"
	"courier-agent/internal/mylogger"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	mylog, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	if err := courieragent.Run(context.Background(), mylog, cfg); err != nil {
		mylog.Action("agent_exit").Error("agent stopped with error", err)
		os.Exit(1)
	}
}
