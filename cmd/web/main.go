package main

import (
	"log/slog"
	"os"

	"cleansheet/internal/app"
	"cleansheet/web"
)

func main() {
	application, err := app.NewApplication(web.Files)
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
