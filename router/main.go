package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/course-platform-api/config"
	"github.com/sahilchouksey/course-platform-api/database"
	"github.com/sahilchouksey/course-platform-api/handlers"
	admin_handlers "github.com/sahilchouksey/course-platform-api/handlers/admin"
	auth_handlers "github.com/sahilchouksey/course-platform-api/handlers/auth"
	course_handlers "github.com/sahilchouksey/course-platform-api/handlers/course"
	enrollment_handlers "github.com/sahilchouksey/course-platform-api/handlers/enrollment"
	notification_handlers "github.com/sahilchouksey/course-platform-api/handlers/notification"
	search_handlers "github.com/sahilchouksey/course-platform-api/handlers/search"
	video_handlers "github.com/sahilchouksey/course-platform-api/handlers/video"
	"github.com/sahilchouksey/course-platform-api/model"
	"github.com/sahilchouksey/course-platform-api/services"
	"github.com/sahilchouksey/course-platform-api/utils/auth"
	"github.com/sahilchouksey/course-platform-api/utils/cache"
	"github.com/sahilchouksey/course-platform-api/utils/middleware"
)

func SetupRoutes(app *fiber.App, store *database.GORMStore, getEnv *config.EnviornmentVariable) {
	if getEnv.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}
	if getEnv.JWT_ADMIN_SECRET == "" {
		log.Fatal("JWT_ADMIN_SECRET environment variable is not set")
	}

	jwtIssuer := getEnv.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "course-platform-api"
	}

	// One JWT manager per principal space. The secrets differ, so a token
	// issued for one space never validates on the other.
	accountJWT := auth.NewJWTManager(auth.JWTConfig{
		Secret:    getEnv.JWT_SECRET,
		Expiry:    24 * time.Hour,
		Issuer:    jwtIssuer,
		Principal: auth.PrincipalAccount,
	})
	adminJWT := auth.NewJWTManager(auth.JWTConfig{
		Secret:    getEnv.JWT_ADMIN_SECRET,
		Expiry:    24 * time.Hour,
		Issuer:    jwtIssuer,
		Principal: auth.PrincipalAdmin,
	})

	db := store.DB()

	// Redis cache for verification / reset codes
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Media storage
	mediaStore, err := services.NewS3MediaStore(services.S3MediaConfig{
		AccessKey: getEnv.MEDIA_ACCESS_KEY,
		SecretKey: getEnv.MEDIA_SECRET_KEY,
		Bucket:    getEnv.MEDIA_BUCKET,
		Region:    getEnv.MEDIA_REGION,
		Endpoint:  getEnv.MEDIA_ENDPOINT,
		CDNURL:    getEnv.MEDIA_CDN_URL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	// Services
	emailService := services.NewEmailService(getEnv)
	verificationService := services.NewVerificationService(redisCache)
	notificationService := services.NewNotificationService(db)
	catalogService := services.NewCatalogService(db, mediaStore, notificationService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(accountJWT, adminJWT, db)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, accountJWT, emailService, verificationService)
	courseHandler := course_handlers.NewCourseHandler(db, catalogService, mediaStore)
	videoHandler := video_handlers.NewVideoHandler(db, catalogService, mediaStore)
	enrollmentHandler := enrollment_handlers.NewEnrollmentHandler(db, notificationService)
	notificationHandler := notification_handlers.NewNotificationHandler(notificationService)
	searchHandler := search_handlers.NewSearchHandler(db)
	adminHandler := admin_handlers.NewAdminHandler(db, adminJWT, catalogService)

	// Security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins: allowedOrigins,
	})

	// The code endpoints get their own rate limit
	codeLimiter := middleware.CodeRequestLimiter(5, 15*time.Minute)

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// Auth routes (public)
	authGroup := app.Group("/auth")
	authGroup.Post("/registration", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/check-duplicate", authHandler.CheckDuplicate)
	authGroup.Post("/send-email", codeLimiter, authHandler.SendVerificationEmail)
	authGroup.Post("/verify-code", authHandler.VerifyCode)
	authGroup.Post("/send-reset-code", codeLimiter, authHandler.SendResetCode)
	authGroup.Post("/verify-reset-code", authHandler.VerifyResetCode)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Protected auth routes
	authGroup.Get("/user", authMiddleware.RequireAccount(), authHandler.CurrentUser)
	app.Get("/user/details", authMiddleware.RequireAccount(), authHandler.GetDetails)
	app.Put("/user/details", authMiddleware.RequireAccount(), authHandler.UpdateDetails)

	// Course routes
	courses := app.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)
	courses.Get("/instructor", authMiddleware.RequireAccount(), authMiddleware.RequireRole(model.RoleInstructor), courseHandler.ListInstructorCourses)
	courses.Get("/:id", courseHandler.GetCourse)
	courses.Post("/", authMiddleware.RequireAccount(), authMiddleware.RequireRole(model.RoleInstructor), courseHandler.CreateCourse)
	courses.Put("/:id", authMiddleware.RequireAccountOrAdmin(), courseHandler.UpdateCourse)
	courses.Delete("/:id", authMiddleware.RequireAccountOrAdmin(), courseHandler.DeleteCourse)

	// Video routes
	app.Post("/videos/upload/:courseId", authMiddleware.RequireAccount(), authMiddleware.RequireRole(model.RoleInstructor), videoHandler.UploadVideo)
	app.Get("/videos", videoHandler.ListVideos)
	app.Put("/videos/:id", authMiddleware.RequireAccountOrAdmin(), videoHandler.UpdateVideo)
	app.Delete("/videos/:id", authMiddleware.RequireAccountOrAdmin(), videoHandler.DeleteVideo)
	app.Get("/courseVideo/course/:courseId", authMiddleware.RequireAccountOrAdmin(), videoHandler.ListCourseVideos)

	// Enrollment routes (students)
	enrollment := app.Group("/enrollment", authMiddleware.RequireAccount(), authMiddleware.RequireRole(model.RoleStudent))
	enrollment.Post("/enroll", enrollmentHandler.Enroll)
	enrollment.Get("/check-enrollment/:courseId", enrollmentHandler.CheckEnrollment)
	enrollment.Get("/enrolled", enrollmentHandler.ListEnrolled)

	// Notification routes
	notifications := app.Group("/notifications", authMiddleware.RequireAccount())
	notifications.Get("/", notificationHandler.List)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)
	notifications.Delete("/:id", notificationHandler.Delete)
	notifications.Delete("/", notificationHandler.DeleteAll)

	// Search (public)
	app.Get("/search", searchHandler.SearchCourses)

	// Admin routes
	adminGroup := app.Group("/admin")
	adminGroup.Post("/login", adminHandler.Login)

	// Everything below requires the admin token
	adminProtected := adminGroup.Use(authMiddleware.RequireAdmin())
	adminProtected.Get("/courses", adminHandler.ListCourses)
	adminProtected.Get("/courses/pending", adminHandler.ListPendingCourses)
	adminProtected.Get("/courses/:id", adminHandler.GetCourse)
	adminProtected.Put("/courses/:id/status", adminHandler.SetCourseStatus)
	adminProtected.Put("/videos/:id/approve", adminHandler.ApproveVideo)
	adminProtected.Put("/videos/:id/reject", adminHandler.RejectVideo)
	adminProtected.Get("/videos", adminHandler.ListVideos)
	adminProtected.Get("/users", adminHandler.ListUsers)
	adminProtected.Get("/users/:id", adminHandler.GetUser)
	adminProtected.Post("/users", adminHandler.CreateUser)
	adminProtected.Put("/users/:id/details", adminHandler.UpdateUserDetails)
	adminProtected.Delete("/users/:id", adminHandler.DeleteUser)
	adminProtected.Get("/enrollments", adminHandler.ListEnrollments)
}
