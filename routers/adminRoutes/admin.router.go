package adminRoutes

import (
	adminController "learnhub/controllers/admin"
	adminValidator "learnhub/validators/admin"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes mounts /api/admin. Any valid token is accepted; there is no role check.
func SetupAdminRoutes(app fiber.Router, auth fiber.Handler, adminCtrl *adminController.AdminController) {
	adminGroup := app.Group("/api/admin", auth)

	adminGroup.Get("/getallusers", adminCtrl.GetAllUsers)
	adminGroup.Get("/getallcourses", adminCtrl.GetAllCourses)
	adminGroup.Delete("/deleteuser/:userid", adminValidator.UserID(), adminCtrl.DeleteUser)
	adminGroup.Delete("/deletecourse/:courseid", courseValidator.CourseID(), adminCtrl.DeleteCourse)
	adminGroup.Get("/dashboard/stats", adminCtrl.DashboardStats)
}
