package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"go-shop/config"
	"go-shop/controllers"
	"go-shop/logger"
	"go-shop/repository"
	"go-shop/routes"
	"go-shop/services"
	"go-shop/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("go-shop", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := repository.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Error("failed to connect to mongodb", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error("failed to disconnect from mongodb", slog.String("error", err.Error()))
		}
	}()

	db := client.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Error("failed to create indexes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	productRepo := repository.NewProductRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)

	var mailer services.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer = utils.NewEmailService(cfg.SendGridAPIKey, cfg.EmailSender, log)
	} else {
		log.Warn("SENDGRID_API_KEY not set, order confirmation emails disabled")
	}
	uploader := utils.NewUploader(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset, log)

	jwtSecret := []byte(cfg.JWTSecret)

	ratingService := services.NewRatingService(ratingRepo, productRepo, userRepo, log)
	orderService := services.NewOrderService(orderRepo, cartRepo, productRepo, userRepo, mailer, log)
	cartService := services.NewCartService(cartRepo, productRepo, log)
	productService := services.NewProductService(productRepo, log)
	userService := services.NewUserService(userRepo, jwtSecret, log)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, routes.Controllers{
		Users:    controllers.NewUserController(userService, log),
		Products: controllers.NewProductController(productService, uploader, log),
		Carts:    controllers.NewCartController(cartService, log),
		Orders:   controllers.NewOrderController(orderService, log),
		Ratings:  controllers.NewRatingController(ratingService, log),
	}, jwtSecret, log)

	addr := ":" + cfg.Port
	log.Info("server starting", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
