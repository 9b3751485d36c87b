package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"marketplace/cmd"
	httpserver "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/amqp"
	"marketplace/internal/adapters/out/assets"
	"marketplace/internal/adapters/out/postgres/auditrepo"
	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/adapters/out/postgres/notificationrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/userrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)

	pushPublisher, err := amqp.NewPushPublisher(configs.AmqpURL)
	if err != nil {
		log.Fatalf("Error connecting to message broker: %v", err)
	}
	defer pushPublisher.Close()

	assetStore, err := assets.NewHTTPClient(configs.AssetStoreURL, logger)
	if err != nil {
		log.Fatalf("Error configuring asset store client: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, pushPublisher, assetStore, logger)

	jobManager := app.CreateJobManager(configs.AuditRetentionDays)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

// defaultAuditRetentionDays applies when AUDIT_RETENTION_DAYS is not set.
const defaultAuditRetentionDays = 90

func getConfigs() cmd.Config {
	retentionDays := defaultAuditRetentionDays
	if raw := goDotEnvVariable("AUDIT_RETENTION_DAYS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("AUDIT_RETENTION_DAYS must be an integer: %v", err)
		}
		retentionDays = parsed
	}

	config := cmd.Config{
		HTTPPort:           goDotEnvVariable("HTTP_PORT"),
		DBHost:             goDotEnvVariable("DB_HOST"),
		DBPort:             goDotEnvVariable("DB_PORT"),
		DBUser:             goDotEnvVariable("DB_USER"),
		DBPassword:         goDotEnvVariable("DB_PASSWORD"),
		DBName:             goDotEnvVariable("DB_NAME"),
		DBSslMode:          goDotEnvVariable("DB_SSLMODE"),
		AmqpURL:            goDotEnvVariable("AMQP_URL"),
		AssetStoreURL:      goDotEnvVariable("ASSET_STORE_URL"),
		AuditRetentionDays: retentionDays,
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.ItemDTO{},
		&userrepo.UserDTO{},
		&catalogrepo.ProductDTO{}, &catalogrepo.CategoryDTO{}, &catalogrepo.OfferDTO{},
		&auditrepo.EntryDTO{},
		&notificationrepo.NotificationDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database schema: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	server := httpserver.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateChangeOrderStatusCommandHandler(),
		app.CreateAssignDriverCommandHandler(),
		app.CreateSetDriverAvailabilityCommandHandler(),
		app.CreateUpdateProductCommandHandler(),
		app.CreateSoftDeleteCommandHandler(),
		app.CreateRestoreCommandHandler(),
		app.CreatePurgeCommandHandler(),
		app.CreateMarkNotificationsReadCommandHandler(),
		app.CreateListAuditEntriesQueryHandler(),
		app.CreateListNotificationsQueryHandler(),
	)

	e := echo.New()
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
