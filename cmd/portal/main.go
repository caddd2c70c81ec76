package main

import (
	"log/slog"
	"os"

	"hrhub/internal/app/portal"
)

func main() {
	if err := portal.Run(); err != nil {
		slog.Error("portal stopped", "err", err)
		os.Exit(1)
	}
}
