package userRoutes

import (
	authController "learnhub/controllers/auth"
	controllers "learnhub/controllers/course"
	authValidator "learnhub/validators/auth"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes mounts the account, catalogue and learning routes under /api/user.
func SetupUserRoutes(app fiber.Router, auth fiber.Handler, authCtrl *authController.AuthController, courseCtrl *controllers.CourseController) {
	userGroup := app.Group("/api/user")

	userGroup.Post("/register", authValidator.Register(), authCtrl.Register)
	userGroup.Post("/login", authValidator.Login(), authCtrl.Login)
	userGroup.Get("/courses", courseCtrl.GetAllCourses)

	// Course authoring
	userGroup.Post("/addcourse", auth, courseValidator.CreateCourse(), courseCtrl.AddCourse)
	userGroup.Get("/getusercourses", auth, courseCtrl.GetUserCourses)
	userGroup.Delete("/deletecourse/:courseid", auth, courseValidator.CourseID(), courseCtrl.DeleteCourse)

	// Enrollment & progress
	userGroup.Post("/enroll/:courseid", auth, courseValidator.EnrollCourse(), courseCtrl.EnrollInCourse)
	userGroup.Get("/coursecontent/:courseid", auth, courseValidator.CourseID(), courseCtrl.GetCourseContent)
	userGroup.Post("/completemodule", auth, courseValidator.CompleteModule(), courseCtrl.CompleteModule)
	userGroup.Get("/enrolledcourses", auth, courseCtrl.GetEnrolledCourses)
	userGroup.Get("/payments", auth, courseCtrl.GetPayments)
}
