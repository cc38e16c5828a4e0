package main

import (
	"context"
	"log/slog"
	"os"

	"konv/config"
	"konv/internal/delivery"
	"konv/internal/delivery/http"
	"konv/internal/delivery/http/middleware"
	"konv/internal/delivery/http/router/handler"
	"konv/internal/infra/auth"
	"konv/internal/infra/gateway/beyonic"
	logs "konv/internal/infra/log"
	"konv/internal/infra/notification"
	"konv/internal/infra/persistence/postgres"
	"konv/internal/infra/pubsub"
	"konv/internal/infra/qrcode"
	"konv/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewContactRepository,
			postgres.NewLocationRepository,
			postgres.NewDistrictRepository,
			postgres.NewOrderRepository,
			postgres.NewPaymentRepository,
			postgres.NewCategoryRepository,
			postgres.NewShopRepository,
			postgres.NewProductRepository,
			postgres.NewStockRepository,
			postgres.NewAnnouncementRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			qrcode.NewQRCodeService,
			beyonic.NewClient,
			notification.NewNotificationService,
			pubsub.NewEventPublisher,
			impl.NewFlatFeeQuoter,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
			impl.NewOrderService,
			impl.NewPaymentService,
			impl.NewCatalogService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
			handler.NewOrderHandler,
			handler.NewPaymentHandler,
			handler.NewWebhookHandler,
			handler.NewCatalogHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
