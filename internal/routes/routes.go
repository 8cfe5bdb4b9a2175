package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arnold/devgrowth-api/internal/handlers"
	"github.com/arnold/devgrowth-api/internal/middleware"
	"github.com/arnold/devgrowth-api/internal/services"
)

type Deps struct {
	DailyLogs *services.DailyLogService
	Goals     *services.GoalService
	JWTSecret string
	Logger    *slog.Logger
	Gatherer  prometheus.Gatherer
}

// NewApp builds the Fiber app with the full route table.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "devgrowth-api",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(d.Logger))

	Setup(app, d)
	return app
}

func Setup(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	logs := handlers.NewDailyLogHandler(d.DailyLogs)
	goals := handlers.NewGoalHandler(d.Goals)

	api := app.Group("/api", middleware.Protected(d.JWTSecret))

	dailyLogs := api.Group("/daily-logs")
	dailyLogs.Get("/", logs.GetDailyLogs)
	dailyLogs.Post("/", logs.CreateDailyLog)
	dailyLogs.Get("/tags", logs.GetTags)
	dailyLogs.Post("/link-preview", goals.PreviewLinks)

	api.Get("/weekly-goals", goals.GetWeeklyGoals)
}
