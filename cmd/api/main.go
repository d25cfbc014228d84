package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/kashvicrafts/storefront-api/internal/auth"
	"github.com/kashvicrafts/storefront-api/internal/config"
	"github.com/kashvicrafts/storefront-api/internal/handler"
	"github.com/kashvicrafts/storefront-api/internal/notifier"
	"github.com/kashvicrafts/storefront-api/internal/repository"
	"github.com/kashvicrafts/storefront-api/internal/security"
	"github.com/kashvicrafts/storefront-api/internal/usecase"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	cipher, err := security.NewFieldCipher(cfg.PIICipherKey, cfg.PIICipherIV)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize field cipher")
	}

	// Every operation on the client is bounded by the storage timeout;
	// the stores surface the resulting deadline errors as transient.
	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.MongoURI).
		SetTimeout(cfg.StorageTimeout))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.StorageTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping mongodb")
	}

	db := client.Database(cfg.DBName)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), cfg.StorageTimeout)
	defer cancelIndex()

	// Leaf stores first, then the sagas that compose them.
	userRepo := repository.NewUserMongoRepository(indexCtx, &logger, db, cipher)
	addressRepo := repository.NewAddressMongoRepository(db, cipher)
	productRepo := repository.NewProductMongoRepository(db)
	orderRepo := repository.NewOrderMongoRepository(db)
	orderItemRepo := repository.NewOrderItemMongoRepository(db)
	giftBoxRepo := repository.NewGiftBoxMongoRepository(db)

	var sender notifier.Sender
	if cfg.NotificationServiceURL != "" {
		sender = notifier.NewHTTPSender(cfg.NotificationServiceURL, cfg.NotifyTimeout)
	} else {
		sender = notifier.NewSMTPSender(cfg.SMTP)
	}
	notifierService := notifier.NewService(productRepo, sender, &logger)

	authenticator := auth.NewJWTAuthenticator(cfg.TokenIssuer, cfg.JWTSecret)

	orderUsecase := usecase.NewOrderUsecase(
		orderRepo, orderItemRepo, productRepo, userRepo, addressRepo, notifierService, &logger)
	userUsecase := usecase.NewUserUsecase(
		userRepo, addressRepo, orderUsecase, notifierService,
		cfg.FrontendURL, cfg.ResetTokenExpiresIn, &logger)
	authUsecase := usecase.NewAuthUsecase(
		userRepo, &authenticator, notifierService,
		cfg.FrontendURL, cfg.AccessTokenExpiresIn, cfg.ResetTokenExpiresIn, &logger)
	addressUsecase := usecase.NewAddressUsecase(addressRepo, userRepo, &logger)
	productUsecase := usecase.NewProductUsecase(productRepo, &logger)
	orderItemUsecase := usecase.NewOrderItemUsecase(orderItemRepo, &logger)
	giftBoxUsecase := usecase.NewGiftBoxUsecase(giftBoxRepo)

	router := handler.NewRouter(handler.Handlers{
		Auth:       handler.NewAuthHandler(authUsecase, userUsecase, &logger),
		Users:      handler.NewUserHandler(userUsecase, &logger),
		Addresses:  handler.NewAddressHandler(addressUsecase, &logger),
		Products:   handler.NewProductHandler(productUsecase, &logger),
		Orders:     handler.NewOrderHandler(orderUsecase, &logger),
		OrderItems: handler.NewOrderItemHandler(orderItemUsecase, &logger),
		GiftBoxes:  handler.NewGiftBoxHandler(giftBoxUsecase, &logger),
	}, &authenticator, &logger)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
