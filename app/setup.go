package app

import (
	"fmt"
	"os"

	"github.com/sahilchouksey/course-platform-api/api"
	"github.com/sahilchouksey/course-platform-api/config"
	"github.com/sahilchouksey/course-platform-api/database"
	"github.com/sahilchouksey/course-platform-api/router"
	"github.com/sahilchouksey/course-platform-api/services"
	"github.com/sahilchouksey/course-platform-api/services/cron"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Notification retention cron (enabled unless CRON_ENABLED=false)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" {
		notificationService := services.NewNotificationService(store.DB())
		cronManager = cron.NewCronManager(store.DB(), notificationService)
		if err := cronManager.Start(); err != nil {
			print("Warning: Failed to start cron jobs\n")
			print("Error: ", err.Error(), "\n")
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes
	router.SetupRoutes(app, store, getEnv)

	// Get the PORT & Start the Server
	return server.Run()
}
