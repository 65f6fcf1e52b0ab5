package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/framevault-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Start(); err != nil {
		application.Log.Error("Failed to start background workers", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := application.Cfg.Port
	if port == "" {
		port = "8080"
	}
	application.Log.Info("Server listening on :" + port)
	if err := application.Run(ctx, ":"+port); err != nil {
		application.Log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
