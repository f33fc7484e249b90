package main

import (
	"context"
	"os"

	"github.com/yigit/egresados/internal/bootstrap"
	"github.com/yigit/egresados/internal/pkg/logger"
	"github.com/yigit/egresados/internal/server"
)

// @title Egresados API
// @version 1.0
// @description Graduate follow-up records and survey spreadsheet imports

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	ctx := context.Background()

	srv, err := server.NewServer(ctx, bootstrap.DefaultConfigPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
