package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"potrack/cmd"
	"potrack/internal/adapters/out/postgres/counterrepo"
	"potrack/internal/adapters/out/postgres/porepo"
	"potrack/internal/adapters/out/postgres/userrepo"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := connectDB(configs)
	migrateDB(gormDB)

	app := cmd.NewCompositionRoot(configs, gormDB)
	seedAdminUser(configs, app.CreateUserRepository())

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:       goDotEnvVariable("HTTP_PORT"),
		DBHost:         goDotEnvVariable("DB_HOST"),
		DBPort:         goDotEnvVariable("DB_PORT"),
		DBUser:         goDotEnvVariable("DB_USER"),
		DBPassword:     goDotEnvVariable("DB_PASSWORD"),
		DBName:         goDotEnvVariable("DB_NAME"),
		DBSslMode:      goDotEnvVariable("DB_SSLMODE"),
		JWTSecret:      goDotEnvVariable("JWT_SECRET"),
		UploadsDir:     goDotEnvVariable("UPLOADS_DIR"),
		DigestSchedule: goDotEnvVariable("DIGEST_SCHEDULE"),
		AdminUsername:  goDotEnvVariable("ADMIN_USERNAME"),
		AdminPassword:  goDotEnvVariable("ADMIN_PASSWORD"),
	}

	if config.UploadsDir == "" {
		config.UploadsDir = "uploads"
	}
	if config.DigestSchedule == "" {
		config.DigestSchedule = "0 */15 * * * *"
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

func connectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func migrateDB(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&porepo.PODTO{},
		&porepo.MachineDTO{},
		&counterrepo.CounterDTO{},
		&userrepo.UserDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

// seedAdminUser creates the initial admin account when the users table is
// empty so the API is usable on first boot.
func seedAdminUser(configs cmd.Config, users *userrepo.GormUserRepository) {
	ctx := context.Background()

	count, err := users.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count users: %v", err)
	}
	if count > 0 || configs.AdminUsername == "" || configs.AdminPassword == "" {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(configs.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	err = users.Add(ctx, userrepo.UserDTO{
		ID:           uuid.New(),
		Username:     configs.AdminUsername,
		PasswordHash: string(hash),
		Role:         userrepo.RoleAdmin,
	})
	if err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server, err := app.CreateHTTPServer()
	if err != nil {
		log.Fatalf("Failed to build HTTP server: %v", err)
	}
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
