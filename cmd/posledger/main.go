package main

import (
	"context"
	"log/slog"
	"os"

	"posledger/config"
	"posledger/internal/delivery"
	"posledger/internal/delivery/http"
	httpMiddleware "posledger/internal/delivery/http/middleware"
	"posledger/internal/delivery/http/router/handler"
	deliveryMiddleware "posledger/internal/delivery/middleware"
	"posledger/internal/domain/service"
	"posledger/internal/infra/auth"
	logs "posledger/internal/infra/log"
	"posledger/internal/infra/persistence/postgres"
	"posledger/internal/infra/pubsub"
	"posledger/internal/infra/qrcode"
	"posledger/internal/usecase/impl"

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
			postgres.NewCustomerRepository,
			postgres.NewProductRepository,
			postgres.NewSaleRepository,
			postgres.NewPaymentRepository,
			postgres.NewSequenceRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTService,
			newReceiptQRService,
			pubsub.NewEventPublisher,
		),
	)
}

// newReceiptQRService creates the receipt QR service with dependency injection
func newReceiptQRService(cfg *config.Config) service.ReceiptQRService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewReceiptQRService(256, "M", "")
	}

	return qrcode.NewReceiptQRService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewCustomerService,
			impl.NewInventoryService,
			impl.NewSaleService,
			impl.NewSettlementService,
			impl.NewReportService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			httpMiddleware.NewAuthMiddleware,
			httpMiddleware.NewErrorMiddleware,
			deliveryMiddleware.NewRequestIDMiddleware,
			deliveryMiddleware.NewLoggerMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewCustomerHandler,
			handler.NewProductHandler,
			handler.NewSaleHandler,
			handler.NewSettlementHandler,
			handler.NewReportHandler,
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
