package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/redis/v3"
	"github.com/google/uuid"
	"github.com/khanghh/kattend/internal/attendance"
	"github.com/khanghh/kattend/internal/audit"
	"github.com/khanghh/kattend/internal/auth"
	"github.com/khanghh/kattend/internal/common"
	"github.com/khanghh/kattend/internal/config"
	"github.com/khanghh/kattend/internal/database"
	"github.com/khanghh/kattend/internal/handlers/api"
	"github.com/khanghh/kattend/internal/logging"
	"github.com/khanghh/kattend/internal/middlewares"
	"github.com/khanghh/kattend/internal/middlewares/authgate"
	"github.com/khanghh/kattend/internal/users"
	"github.com/khanghh/kattend/model"
	"github.com/khanghh/kattend/params"
	goredis "github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

var (
	app       *cli.App
	gitCommit string
	gitDate   string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "kattend - Employee attendance and login audit server"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name: "version",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
	}
	app.Action = run
}

func mustInitDatabase(dbConfig config.DatabaseConfig) *gorm.DB {
	db, err := database.Open(dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "driver", dbConfig.Driver, "error", err)
		os.Exit(1)
	}

	if err := model.AutoMigrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	return db
}

// mustInitStorage returns the redis backed storage when redis is configured,
// otherwise an in-process memory storage.
func mustInitStorage(redisCfg config.RedisConfig) (fiber.Storage, goredis.UniversalClient) {
	if redisCfg.URL == "" {
		slog.Warn("Redis is not configured, rate limits are tracked in memory")
		return memory.New(), nil
	}
	storage := redis.New(redis.Config{
		URL:           redisCfg.URL,
		PoolSize:      redisCfg.PoolSize,
		IsClusterMode: redisCfg.ClusterMode,
	})
	return storage, storage.Conn()
}

func run(ctx *cli.Context) error {
	config, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return err
	}

	appLogger, logCloser := logging.New(config.Log, config.Debug || ctx.IsSet(debugFlag.Name))
	defer logCloser.Close()
	slog.SetDefault(appLogger)

	db := mustInitDatabase(config.Database)
	storage, rdb := mustInitStorage(config.Redis)
	defer storage.Close()

	// repositories
	var (
		userRepo       = users.NewUserRepository(db)
		historyRepo    = audit.NewLoginHistoryRepository(db)
		attendanceRepo = attendance.NewAttendanceRepository(db)
	)

	// services
	var (
		userService    = users.NewUserService(userRepo, config.BcryptCost)
		tokenIssuer    = auth.NewTokenIssuer(config.JWT.Secret, config.JWT.Expiration, config.JWT.Issuer)
		authService    = auth.NewAuthService(userService, audit.NewRecorder(historyRepo), tokenIssuer)
		historyService = audit.NewHistoryService(historyRepo, userService, config.Location())
	)
	attendanceService, err := attendance.NewAttendanceService(attendanceRepo, userService, attendance.Options{
		Location:     config.Location(),
		LateAfter:    config.Attendance.LateAfter,
		HalfDayHours: config.Attendance.HalfDayHours,
	})
	if err != nil {
		return err
	}

	router := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		BodyLimit:     params.ServerBodyLimit,
		IdleTimeout:   params.ServerIdleTimeout,
		ReadTimeout:   params.ServerReadTimeout,
		WriteTimeout:  params.ServerWriteTimeout,
		ErrorHandler:  middlewares.ErrorHandler,
	})

	router.Use(recover.New())
	router.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	router.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	router.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(config.AllowOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api.Register(router.Group("/api"), api.Routes{
		Auth:         api.NewAuthHandler(authService, userService),
		LoginHistory: api.NewLoginHistoryHandler(historyService),
		Attendance:   api.NewAttendanceHandler(attendanceService),
		AccessGate:   authgate.New(authgate.Config{Tokens: tokenIssuer, Users: userService}),
		LoginLimiter: middlewares.NewRateLimiter(middlewares.RateLimitConfig{
			Max:     config.RateLimit.Max,
			Window:  config.RateLimit.Window,
			Storage: storage,
			Message: api.MsgTooManyRequests,
		}),
	})

	healthCheckCtx, term := context.WithCancel(ctx.Context)
	done := make(chan struct{})
	go common.StartHealthCheckServer(healthCheckCtx, done, config.HealthCheckAddr, common.NewHealthCheckHandler(db, rdb))
	defer func() {
		term()
		<-done
	}()

	slog.Info("Starting server", "addr", config.ListenAddr, "version", params.VersionWithCommit(gitCommit, gitDate))
	return router.Listen(config.ListenAddr)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
