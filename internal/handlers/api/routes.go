package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kattend/internal/middlewares/authgate"
	"github.com/khanghh/kattend/model"
)

type Routes struct {
	Auth         *AuthHandler
	LoginHistory *LoginHistoryHandler
	Attendance   *AttendanceHandler
	AccessGate   fiber.Handler
	LoginLimiter fiber.Handler // optional
}

// Register mounts the API under router, usually the /api group.
func Register(router fiber.Router, routes Routes) {
	var (
		protect     = routes.AccessGate
		managerOnly = authgate.RequireRoles(model.RoleManager)
		loginChain  = []fiber.Handler{routes.Auth.PostLogin}
	)
	if routes.LoginLimiter != nil {
		loginChain = append([]fiber.Handler{routes.LoginLimiter}, loginChain...)
	}

	authRouter := router.Group("/auth")
	authRouter.Post("/register", routes.Auth.PostRegister)
	authRouter.Post("/login", loginChain...)
	authRouter.Get("/me", protect, routes.Auth.GetMe)
	authRouter.Put("/profile", protect, routes.Auth.PutProfile)
	authRouter.Get("/my-login-history", protect, routes.LoginHistory.GetMyLoginHistory)
	authRouter.Get("/login-history", protect, managerOnly, routes.LoginHistory.GetLoginHistory)

	attendanceRouter := router.Group("/attendance", protect)
	attendanceRouter.Post("/check-in", routes.Attendance.PostCheckIn)
	attendanceRouter.Post("/check-out", routes.Attendance.PostCheckOut)
	attendanceRouter.Get("/today", routes.Attendance.GetToday)
	attendanceRouter.Get("/my-history", routes.Attendance.GetMyHistory)
	attendanceRouter.Get("/summary", managerOnly, routes.Attendance.GetSummary)
}
