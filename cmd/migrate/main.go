package main

import (
	"context"
	"time"

	migrations "reservio/internal/migrations/mongo"
	"reservio/pkg/config"
)

func main() {
	cfg := config.Load("migrate")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	if err := migrations.Run(ctx, db, cfg.Log); err != nil {
		cfg.Log.Fatal("Migrations failed", "error", err)
	}

	cfg.Log.Info("All migrations applied")
}
