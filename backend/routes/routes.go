package routes

import (
	"edulearn/backend/config"
	"edulearn/backend/controllers"
	"edulearn/backend/middleware"
	"edulearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const healthMessage = "All Systems are running"

// NewApp builds the Fiber app with its middleware chain and every route.
// reg receives the HTTP metrics and is served on /metrics.
func NewApp(db *gorm.DB, cfg *config.Config, logger *utils.Logger, reg *prometheus.Registry) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "edulearn",
		ErrorHandler: utils.ErrorHandler(logger),
	})

	// Order matters: panics recovered below the metrics and logging layers
	// still reach them as errors.
	app.Use(middleware.LoggingMiddleware(logger))
	app.Use(middleware.NewMetrics(reg).Handler())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	app.Get("/", health)
	app.Get("/health", health)

	SetupRoutes(app, db, cfg)
	return app
}

func health(c *fiber.Ctx) error {
	return c.SendString(healthMessage)
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	protect := middleware.Protect(cfg)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", protect, userController.GetProfile)

	// Admin routes
	teacherController := controllers.NewTeacherController(db, cfg)
	admin := app.Group("/api/admin")
	admin.Post("/teacher/create", teacherController.CreateTeacher)
	admin.Get("/teacher/getAll", teacherController.GetAllTeachers)
	admin.Get("/teacher/:id", teacherController.GetTeacherByID)
	admin.Put("/teacher/:id", teacherController.UpdateTeacher)
	admin.Delete("/:id", teacherController.DeleteTeacher)

	// Course routes
	coursesController := controllers.NewCoursesController(db, cfg)
	courses := app.Group("/api/courses")
	courses.Post("/", protect, coursesController.CreateCourse)
	courses.Post("/create", protect, coursesController.CreateCourse)
	courses.Get("/:courseId", coursesController.GetCourse)
	courses.Patch("/:courseId", coursesController.UpdateCourse)
	courses.Delete("/:courseId", coursesController.DeleteCourse)
	courses.Post("/:courseId/send-for-review", coursesController.SendForReview)
	courses.Post("/:courseId/objectives", coursesController.AddCourseObjectives)
	courses.Patch("/:courseId/objectives/:objectiveIndex", coursesController.UpdateCourseObjective)

	accessibilityController := controllers.NewAccessibilityController(db, cfg)
	courses.Patch("/:courseId/accessibility", accessibilityController.UpdateAccessibilitySettings)

	// Parts and modules
	partsController := controllers.NewPartsController(db, cfg)
	courses.Post("/:courseId/parts", partsController.AddCoursePart)
	courses.Post("/:courseId/createPart", partsController.AddCoursePart)
	courses.Patch("/:courseId/parts/:partId", partsController.UpdateCoursePart)

	modules := courses.Group("/:courseId/parts/:partId/modules")
	modules.Post("/", partsController.AddModuleToPart)
	modules.Post("/chapter", partsController.AddChapterModule)
	modules.Post("/exam", partsController.AddExamModule)
	modules.Post("/assignment", partsController.AddAssignmentModule)
	modules.Post("/attachment", partsController.AddAttachmentModule)
	modules.Patch("/:moduleId", partsController.UpdateModuleInPart)

	// Module content
	contentController := controllers.NewModuleContentController(db, cfg)
	modules.Post("/:moduleId/lessons", contentController.AddLessonToModule)
	modules.Patch("/:moduleId/lessons/:lessonId", contentController.UpdateLessonInModule)
	modules.Post("/:moduleId/questions", contentController.AddQuestionsToModule)
	modules.Patch("/:moduleId/questions/:questionId", contentController.UpdateQuestionInModule)
	modules.Post("/:moduleId/attachments", contentController.AddAttachmentsToModule)
	modules.Patch("/:moduleId/attachments/:attachmentId", contentController.UpdateAttachmentInModule)
}
