package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"storefront/internal/adapter/api"
	"storefront/internal/adapter/api/handler"
	apimiddleware "storefront/internal/adapter/api/middleware"
	"storefront/internal/adapter/api/router"
	"storefront/internal/adapter/repository"
	"storefront/internal/domain/service"
	"storefront/internal/infrastructure/firebase"
	"storefront/internal/infrastructure/jobs"
	"storefront/internal/infrastructure/websocket"
	"storefront/internal/usecase"
	"storefront/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	fbAuth, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}
	authClient := firebase.NewAuthClient(fbAuth)

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	productRepo := repository.NewFirestoreProductRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	subscriberRepo := repository.NewFirestoreSubscriberRepository(firestoreClient)

	hub := websocket.NewHub()
	hub.Start(ctx)

	paymentService := service.NewStripeCheckoutService(cfg.StripeSecretKey)
	mailService := service.NewHTTPMailService(cfg.MailProviderURL, cfg.MailProviderKey, cfg.MailFromAddress)

	productUseCase := usecase.NewProductUseCase(productRepo, hub)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, productRepo, hub)
	checkoutUseCase := usecase.NewCheckoutUseCase(
		orderRepo,
		productRepo,
		userRepo,
		paymentService,
		mailService,
		hub,
		cfg.StripeSuccessURL,
		cfg.StripeCancelURL,
	)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, hub)
	newsletterUseCase := usecase.NewNewsletterUseCase(subscriberRepo, mailService)

	reminder := jobs.NewPendingOrderReminder(
		orderRepo,
		userRepo,
		mailService,
		cfg.ReminderCronSpec,
		time.Duration(cfg.PendingReminderHrs)*time.Hour,
	)
	if err := reminder.Start(); err != nil {
		log.Fatalf("Failed to schedule pending-order reminder: %v", err)
	}
	defer reminder.Stop()

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient, userRepo, cfg.AdminAPIToken)
	adminMiddleware := apimiddleware.NewAdminMiddleware()

	router.Setup(e, router.Handlers{
		Product:    handler.NewProductHandler(productUseCase),
		Checkout:   handler.NewCheckoutHandler(checkoutUseCase),
		Order:      handler.NewOrderHandler(orderUseCase),
		Chat:       handler.NewChatHandler(chatUseCase),
		Newsletter: handler.NewNewsletterHandler(newsletterUseCase),
		WebSocket:  handler.NewWebSocketHandler(hub),
		Health:     handler.NewHealthHandler(),
	}, authMiddleware, adminMiddleware)

	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
