package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/malwarebo/taskhub/api"
	"github.com/malwarebo/taskhub/cache"
	"github.com/malwarebo/taskhub/config"
	"github.com/malwarebo/taskhub/db"
	"github.com/malwarebo/taskhub/middleware"
	"github.com/malwarebo/taskhub/models"
	"github.com/malwarebo/taskhub/pagination"
	"github.com/malwarebo/taskhub/services"
	"github.com/malwarebo/taskhub/stores"
	"github.com/malwarebo/taskhub/throttle"
	"github.com/malwarebo/taskhub/utils"
	"gorm.io/gorm"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func printBanner() {
	fmt.Printf("%s%s", colorCyan, colorBold)
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                                                              ║")
	fmt.Println("║  📋 TaskHub API                                              ║")
	fmt.Println("║                                                              ║")
	fmt.Println("║  Todos, tags, subtasks, and blog posts over one REST core   ║")
	fmt.Println("║                                                              ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Printf("%s", colorReset)
}

func printStep(step, message string) {
	fmt.Printf("%s[%s]%s %s%s%s\n", colorBlue, step, colorReset, colorBold, message, colorReset)
}

func printSuccess(message string) {
	fmt.Printf("%s✓%s %s\n", colorGreen, colorReset, message)
}

func printWarning(message string) {
	fmt.Printf("%s⚠%s %s\n", colorYellow, colorReset, message)
}

func printError(message string) {
	fmt.Printf("%s✗%s %s\n", colorRed, colorReset, message)
}

func printInfo(message string) {
	fmt.Printf("%sℹ%s %s\n", colorCyan, colorReset, message)
}

func main() {
	seed := flag.Bool("seed", false, "insert sample records after migration")
	flag.Parse()

	printBanner()
	fmt.Println()

	printStep("1/8", "Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}
	printSuccess("Configuration loaded successfully")

	printStep("2/8", "Validating configuration...")
	if err := cfg.Validate(); err != nil {
		printError(fmt.Sprintf("Configuration validation failed: %v", err))
		os.Exit(1)
	}
	printSuccess("Configuration validation passed")

	printStep("3/8", "Connecting to database...")
	var database *gorm.DB
	err = utils.Retry(context.Background(), utils.DefaultRetryConfig(), func() error {
		database, err = db.Connect(cfg)
		return err
	})
	if err != nil {
		printError(fmt.Sprintf("Failed to connect to database: %v", err))
		os.Exit(1)
	}

	sqlDB, err := database.DB()
	if err != nil {
		printError(fmt.Sprintf("Failed to get database instance: %v", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(database); err != nil {
		printError(fmt.Sprintf("Migration failed: %v", err))
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Connected to PostgreSQL at %s:%d", cfg.Database.Host, cfg.Database.Port))

	if *seed {
		if err := seedSampleData(database, cfg.DefaultOwnerID); err != nil {
			printError(fmt.Sprintf("Seeding failed: %v", err))
			os.Exit(1)
		}
		printSuccess("Sample records inserted")
	}

	printStep("4/8", "Connecting to Redis...")
	var redisStore *cache.RedisStore
	err = utils.Retry(context.Background(), utils.DefaultRetryConfig(), func() error {
		redisStore, err = cache.CreateRedisStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return err
	})

	var cacheStore cache.Store
	var throttleStore throttle.Store
	if err != nil {
		printWarning(fmt.Sprintf("Failed to connect to Redis: %v (falling back to in-memory cache and throttling)", err))
		cacheStore = cache.CreateMemoryStore()
		throttleStore = throttle.CreateMemoryStore()
	} else {
		defer redisStore.Close()
		cacheStore = redisStore
		throttleStore = throttle.CreateRedisStore(redisStore.Client())
		printSuccess(fmt.Sprintf("Connected to Redis at %s:%d", cfg.Redis.Host, cfg.Redis.Port))
	}

	responseCache := cache.CreateCache(cacheStore, cfg.Cache.TTL)

	printStep("5/8", "Initializing stores...")
	todoStore := stores.CreateTodoStore(database)
	tagStore := stores.CreateTagStore(database)
	subtaskStore := stores.CreateSubtaskStore(database)
	postStore := stores.CreateBlogPostStore(database)
	printSuccess("Stores initialized")

	printStep("6/8", "Initializing services...")
	emailService := services.CreateEmailService(services.EmailConfig{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		NotifyTo: cfg.Email.NotifyTo,
	})

	todoService := services.CreateTodoService(todoStore, tagStore, emailService, cfg.DefaultOwnerID)
	tagService := services.CreateTagService(tagStore, cfg.DefaultOwnerID)
	subtaskService := services.CreateSubtaskService(subtaskStore, todoStore)
	postService := services.CreateBlogPostService(postStore, cfg.DefaultOwnerID)
	printSuccess("Services initialized")

	printStep("7/8", "Initializing handlers...")
	pageCfg := pagination.Config{
		DefaultSize: cfg.Pagination.DefaultSize,
		MaxSize:     cfg.Pagination.MaxSize,
	}
	todoHandler := api.CreateTodoHandler(todoService, responseCache, pageCfg)
	tagHandler := api.CreateTagHandler(tagService, responseCache, pageCfg)
	subtaskHandler := api.CreateSubtaskHandler(subtaskService, responseCache, pageCfg)
	postHandler := api.CreateBlogPostHandler(postService, responseCache, pageCfg)

	choiceHandler, err := api.CreateChoiceFieldsHandler("todo", map[string]map[string]string{
		"priority": models.TodoPriorityChoices,
		"status":   models.TodoStatusChoices,
	})
	if err != nil {
		printError(fmt.Sprintf("Failed to build choice fields handler: %v", err))
		os.Exit(1)
	}
	printSuccess("Handlers initialized")

	printStep("8/8", "Setting up HTTP server...")
	router := mux.NewRouter()

	authMiddleware := middleware.CreateAuthMiddleware(cfg.Auth.JWTSecret)
	throttleMiddleware := middleware.CreateThrottleMiddleware(
		throttleStore,
		throttle.ParsePolicies(cfg.Throttles.Anonymous),
		throttle.ParsePolicies(cfg.Throttles.Authenticated),
	)

	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.BurstMiddleware(cfg.Throttles.BurstPerSecond))

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(authMiddleware.Handler)
	apiRouter.Use(throttleMiddleware.Handler)

	apiRouter.HandleFunc("/health", api.HealthCheckHandler).Methods("GET")

	apiRouter.HandleFunc("/todos", todoHandler.HandleList).Methods("GET")
	apiRouter.HandleFunc("/todos", todoHandler.HandleCreate).Methods("POST")
	apiRouter.HandleFunc("/todos/choice-fields", choiceHandler.HandleGet).Methods("GET")
	apiRouter.HandleFunc("/todos/{id:[0-9]+}", todoHandler.HandleGet).Methods("GET")
	apiRouter.HandleFunc("/todos/{id:[0-9]+}", todoHandler.HandleUpdate).Methods("PUT", "PATCH")
	apiRouter.HandleFunc("/todos/{id:[0-9]+}", todoHandler.HandleDelete).Methods("DELETE")

	apiRouter.HandleFunc("/tags", tagHandler.HandleList).Methods("GET")
	apiRouter.HandleFunc("/tags", tagHandler.HandleCreate).Methods("POST")
	apiRouter.HandleFunc("/tags/{id:[0-9]+}", tagHandler.HandleGet).Methods("GET")
	apiRouter.HandleFunc("/tags/{id:[0-9]+}", tagHandler.HandleUpdate).Methods("PUT", "PATCH")
	apiRouter.HandleFunc("/tags/{id:[0-9]+}", tagHandler.HandleDelete).Methods("DELETE")

	apiRouter.HandleFunc("/subtasks", subtaskHandler.HandleList).Methods("GET")
	apiRouter.HandleFunc("/subtasks", subtaskHandler.HandleCreate).Methods("POST")
	apiRouter.HandleFunc("/subtasks/{id:[0-9]+}", subtaskHandler.HandleGet).Methods("GET")
	apiRouter.HandleFunc("/subtasks/{id:[0-9]+}", subtaskHandler.HandleUpdate).Methods("PUT", "PATCH")
	apiRouter.HandleFunc("/subtasks/{id:[0-9]+}", subtaskHandler.HandleDelete).Methods("DELETE")

	apiRouter.HandleFunc("/blog-posts", postHandler.HandleList).Methods("GET")
	apiRouter.HandleFunc("/blog-posts", postHandler.HandleCreate).Methods("POST")
	apiRouter.HandleFunc("/blog-posts/{id:[0-9]+}", postHandler.HandleGet).Methods("GET")
	apiRouter.HandleFunc("/blog-posts/{id:[0-9]+}", postHandler.HandleUpdate).Methods("PUT", "PATCH")
	apiRouter.HandleFunc("/blog-posts/{id:[0-9]+}", postHandler.HandleDelete).Methods("DELETE")

	server := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	printSuccess("HTTP server configured")

	fmt.Println()
	fmt.Printf("%s%s🎉 TaskHub is ready!%s\n", colorGreen, colorBold, colorReset)
	fmt.Println()
	fmt.Printf("%s%sAPI Endpoints:%s\n", colorPurple, colorBold, colorReset)
	fmt.Printf("  %s•%s Health Check: %shttp://localhost:%s/api/v1/health%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Printf("  %s•%s Todos:        %shttp://localhost:%s/api/v1/todos%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Printf("  %s•%s Tags:         %shttp://localhost:%s/api/v1/tags%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Printf("  %s•%s Subtasks:     %shttp://localhost:%s/api/v1/subtasks%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Printf("  %s•%s Blog Posts:   %shttp://localhost:%s/api/v1/blog-posts%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Println()
	fmt.Printf("%s%sEnvironment:%s %s%s%s\n", colorPurple, colorBold, colorReset, colorYellow, cfg.Environment, colorReset)
	fmt.Printf("%s%sServer Port:%s %s%s%s\n", colorPurple, colorBold, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Printf("%s%sDatabase:%s %s%s:%d%s\n", colorPurple, colorBold, colorReset, colorYellow, cfg.Database.Host, cfg.Database.Port, colorReset)
	fmt.Println()
	fmt.Printf("%s%sPress Ctrl+C to stop the server%s\n", colorYellow, colorBold, colorReset)
	fmt.Println()

	go func() {
		printInfo(fmt.Sprintf("Starting HTTP server on port %s...", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			printError(fmt.Sprintf("Server failed to start: %v", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println()
	printWarning("Shutting down TaskHub server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		printError(fmt.Sprintf("Server forced to shutdown: %v", err))
		os.Exit(1)
	}

	printSuccess("TaskHub server stopped gracefully")
}

// seedSampleData inserts a small starter data set; reruns are safe
// because FirstOrCreate keys on the unique columns.
func seedSampleData(database *gorm.DB, ownerID uint) error {
	tags := []models.Tag{
		{UserID: ownerID, Name: "home"},
		{UserID: ownerID, Name: "work"},
	}
	for i := range tags {
		if err := database.Where(models.Tag{UserID: tags[i].UserID, Name: tags[i].Name}).
			FirstOrCreate(&tags[i]).Error; err != nil {
			return err
		}
	}

	todos := []models.Todo{
		{UserID: ownerID, Title: "Water the plants", Priority: models.PriorityLow, Status: models.StatusPending, Tags: []models.Tag{tags[0]}},
		{UserID: ownerID, Title: "Prepare quarterly review", Priority: models.PriorityHigh, Status: models.StatusPending, Tags: []models.Tag{tags[1]}},
	}
	for i := range todos {
		if err := database.Where(models.Todo{UserID: todos[i].UserID, Title: todos[i].Title}).
			FirstOrCreate(&todos[i]).Error; err != nil {
			return err
		}
	}

	post := models.BlogPost{OwnerID: ownerID, Title: "Welcome to TaskHub", Content: "Track todos, tag them, and break them into subtasks.", Published: true}
	return database.Where(models.BlogPost{OwnerID: post.OwnerID, Title: post.Title}).
		FirstOrCreate(&post).Error
}
