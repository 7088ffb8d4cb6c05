package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"task-manager/tasks-service/config"
	"task-manager/tasks-service/handlers"
	"task-manager/tasks-service/logging"
	"task-manager/tasks-service/middleware"
	"task-manager/tasks-service/repositories"
	"task-manager/tasks-service/services"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	cfg := config.Load(".env")

	logging.InitLogger(logging.Options{
		SystemName: "tasks-service",
		FilePath:   cfg.LogFile,
		Level:      cfg.LogLevel,
	})
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Tasks Service...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", cfg.MongoURI)

	db := client.Database(cfg.DBName)
	taskRepo := repositories.NewTaskRepo(db.Collection(cfg.TasksCollection))
	statusRepo := repositories.NewStatusRepo(db.Collection(cfg.StatusCollection))
	if err := taskRepo.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: Failed to create indexes on %s: %v", cfg.TasksCollection, err)
	}
	if err := statusRepo.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: Failed to create indexes on %s: %v", cfg.StatusCollection, err)
	}
	logging.Logger.Infof("Event ID: DB_COLLECTION_SET, Description: Using MongoDB collections: %s/%s, %s/%s",
		cfg.DBName, cfg.TasksCollection, cfg.DBName, cfg.StatusCollection)

	taskHandler := handlers.NewTaskHandler(services.NewTaskService(taskRepo))
	statusHandler := handlers.NewStatusHandler(services.NewStatusService(statusRepo))
	healthHandler := handlers.NewHealthHandler(func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	})

	r := mux.NewRouter()
	handlers.RegisterRoutes(r, taskHandler, statusHandler, healthHandler)

	accessLog := logging.Logger.WriterLevel(logrus.InfoLevel)
	cors := middleware.CORS(cfg.CORSOrigins)

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middleware.AccessLog(accessLog, cors(middleware.Recover(r))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"tasks-service": func(ctx context.Context) error {
				logging.Logger.Info("Event ID: SERVICE_SHUTDOWN, Description: Graceful shutdown initiated...")
				if err := srv.Shutdown(ctx); err != nil {
					return err
				}
				if err := client.Disconnect(ctx); err != nil {
					return err
				}
				return accessLog.Close()
			},
		},
	)

	exitCode := <-wait
	logging.Logger.Infof("Event ID: SERVICE_STOPPED, Description: Tasks Service exited with code %d", exitCode)
	os.Exit(exitCode)
}
