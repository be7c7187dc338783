package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/altynbek07/dineqr/config"
	"github.com/altynbek07/dineqr/database"
	"github.com/altynbek07/dineqr/models"
	"github.com/altynbek07/dineqr/router"
	"github.com/altynbek07/dineqr/services"
	"github.com/altynbek07/dineqr/utils"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	if err := database.SeedRoles(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed roles: %v", err)
	}

	subscriptionMonitor := services.NewSubscriptionMonitor(db)
	subscriptionMonitor.Start()
	defer subscriptionMonitor.Stop()

	sessionCleaner := services.NewSessionCleaner(db)
	sessionCleaner.Start()
	defer sessionCleaner.Stop()

	r := router.SetupRouter(db)
	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Restaurant{},
		&models.RestaurantSubscription{},
		&models.SubscriptionLog{},
		&models.Session{},
		&models.Table{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
