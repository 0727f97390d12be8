package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/planboard/backend/ai"
	"github.com/planboard/backend/api"
	"github.com/planboard/backend/config"
	"github.com/planboard/backend/database"
	"github.com/planboard/backend/models"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetString(c, "DB_HOST", "localhost"),
		config.GetString(c, "DB_USER", "postgres"),
		config.GetString(c, "DB_PASSWORD", ""),
		config.GetString(c, "DB_NAME", "planboard"),
		config.GetString(c, "DB_PORT", "5432"),
		config.GetString(c, "DB_SSLMODE", "disable"),
	)

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// Enable required PostgreSQL extensions
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		fmt.Printf("Error enabling uuid-ossp extension: %v\n", err)
		os.Exit(1)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		fmt.Printf("Error testing database connection: %v\n", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.Workspace{},
		&models.Board{},
		&models.List{},
		&models.Card{},
		&models.Label{},
		&models.CardLabel{},
	); err != nil {
		fmt.Printf("Error migrating database schema: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	if err := ensureDefaultWorkspace(currentDB, c); err != nil {
		fmt.Printf("Error seeding default workspace: %v\n", err)
		os.Exit(1)
	}

	aiCfg, err := config.LoadAI(c)
	if err != nil {
		fmt.Printf("Error loading AI configuration: %v\n", err)
		os.Exit(1)
	}

	client, err := ai.NewChatClient(aiCfg)
	if err != nil {
		fmt.Printf("Error initializing AI client: %v\n", err)
		os.Exit(1)
	}

	cache := ai.NewResponseCache(ai.DefaultCacheTTL, zlog.Logger)
	generator := ai.NewGenerator(client, cache, aiCfg, zlog.Logger)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, generator)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// ensureDefaultWorkspace creates the workspace named by DEFAULT_WORKSPACE_PUBLIC_ID
// when no such workspace exists yet, so a fresh environment has a target for
// generated boards without manual setup.
func ensureDefaultWorkspace(db database.Store, c map[string]string) error {
	publicID := config.GetString(c, "DEFAULT_WORKSPACE_PUBLIC_ID", "")
	if publicID == "" {
		return nil
	}

	existing, err := db.WorkspaceRepo().FindByPublicID(publicID)
	if err != nil || existing != nil {
		return err
	}

	return db.WorkspaceRepo().Add(&models.Workspace{
		ID:        uuid.New(),
		PublicID:  publicID,
		Name:      config.GetString(c, "DEFAULT_WORKSPACE_NAME", "Personal"),
		CreatedBy: "system",
	})
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
