package routers

import (
	"strings"

	adminController "learnhub/controllers/admin"
	authController "learnhub/controllers/auth"
	controllers "learnhub/controllers/course"
	"learnhub/logger"
	"learnhub/metrics"
	"learnhub/middleware"
	"learnhub/routers/adminRoutes"
	"learnhub/routers/userRoutes"
	"learnhub/services"
	"learnhub/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// bodyLimit leaves room for section videos in one multipart request.
const bodyLimit = 512 * 1024 * 1024

// Deps is everything the HTTP layer needs; main builds it once.
type Deps struct {
	Log         *logger.Logger
	Metrics     *metrics.Metrics
	JWT         *middleware.JWT
	Uploads     storage.Uploader
	Auth        *services.AuthService
	Courses     *services.CourseService
	Enrollments *services.EnrollmentService
	Admin       *services.AdminService

	CORSOrigins   string
	AccessLogging bool
}

func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(d.Log),
		BodyLimit:    bodyLimit,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	if d.AccessLogging {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	if d.Metrics != nil {
		app.Use(d.Metrics.Middleware())
		app.Get("/metrics", d.Metrics.Handler())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})

	courseCtrl := controllers.New(d.Courses, d.Enrollments, d.Uploads, d.Log)

	// Local uploads are plain files; other backends are streamed through the controller.
	if local, ok := d.Uploads.(*storage.Local); ok {
		app.Static(strings.TrimSuffix(storage.PublicPrefix, "/"), local.Dir())
	} else {
		app.Get(storage.PublicPrefix+":filename", courseCtrl.ServeUpload)
	}

	auth := d.JWT.Middleware()
	userRoutes.SetupUserRoutes(app, auth, authController.New(d.Auth, d.Log), courseCtrl)
	adminRoutes.SetupAdminRoutes(app, auth, adminController.New(d.Admin, d.Log))

	return app
}
