package main

import (
	resourcehandler "reservio/internal/resources/handler"
	resourcerepo "reservio/internal/resources/repository"
	resourceservice "reservio/internal/resources/service"
	resourcevalidator "reservio/internal/resources/validator"
	"reservio/pkg/app"
	"reservio/pkg/cache"
	"reservio/pkg/config"
)

func main() {
	cfg := config.Load("resources-service")
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	var resourceCache cache.ResourceCache = cache.NewNoopResourceCache()
	if cfg.Client.Redis != nil {
		resourceCache = cache.NewRedisResourceCache(cfg.Client.Redis, cfg.ResourceCacheTTL)
	}

	resources := resourceservice.NewResourceService(
		resourcerepo.NewResourceRepository(db),
		resourceCache,
		resourcevalidator.New(),
		cfg,
	)

	application := app.NewApplication(cfg)
	application.SetApp(resourcehandler.NewResourceHandler(resources, cfg.Log))
	application.Run()
}
