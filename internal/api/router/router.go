package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"internship-tracker/backend/config"
	"internship-tracker/backend/internal/api/handler"
	"internship-tracker/backend/internal/api/middleware"
	"internship-tracker/backend/internal/model"
	"internship-tracker/backend/pkg/jwt"
	"internship-tracker/backend/pkg/redis"
)

// uploadOverhead room for the multipart envelope and text fields
const uploadOverhead = 1 << 20

// Setup builds the gin engine. rdb may be nil; blacklist and rate limiting
// are then skipped.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	// keep nil *redis.Client out of the interfaces
	var (
		blacklist middleware.TokenBlacklist
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	jsonLimit := middleware.BodyLimit(cfg.Server.MaxBodyBytes)
	uploadLimit := middleware.BodyLimit(cfg.Storage.MaxFileBytes + uploadOverhead)
	otpLimit := middleware.RateLimit(limiter, cfg.Server.RateLimit.OTPRequests, cfg.Server.RateLimit.OTPWindow, logger)

	v1 := r.Group("/api/v1")
	{
		// ── students (identified by roster id or telegram id) ──
		students := v1.Group("")
		students.Use(jsonLimit)
		{
			students.POST("/send-otp", otpLimit, h.Student.SendOTP)
			students.POST("/students/register", otpLimit, h.Student.Register)
			students.GET("/offer-letter/status", h.Submission.OfferLetterStatus)
			students.GET("/report/status", h.Submission.ReportStatus)
			students.GET("/report/calendar.ics", h.Submission.ReportCalendar)
		}

		uploads := v1.Group("")
		uploads.Use(uploadLimit)
		{
			uploads.POST("/offer-letter", h.Submission.SubmitOfferLetter)
			uploads.POST("/report", h.Submission.SubmitReport)
		}

		// ── auth ──
		auth := v1.Group("/auth")
		auth.Use(jsonLimit)
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/advisors/register", h.Auth.RegisterAdvisor)
		}

		// ── staff ──
		authorized := v1.Group("")
		authorized.Use(jsonLimit, middleware.JWTAuth(jwtMgr, blacklist, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			staff := middleware.RoleAuth(model.RoleAdvisor, model.RoleAdmin)
			authorized.PUT("/approve-offer-letter", staff, h.Approval.ReviewOfferLetter)
			authorized.PUT("/reports/:id/review", staff, h.Approval.ReviewReport)

			advisors := authorized.Group("/advisors")
			advisors.Use(middleware.RoleAuth(model.RoleAdvisor))
			{
				advisors.GET("/me", h.Advisor.Profile)
				advisors.PUT("/me/settings", h.Advisor.UpdateSettings)
				advisors.GET("/students", h.Advisor.Dashboard)
				advisors.GET("/students/:university_id", h.Advisor.StudentDetail)
			}

			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/:id", h.Department.GetDepartment)
			}
		}

		// ── admin ──
		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(jwtMgr, blacklist, logger), middleware.RoleAuth(model.RoleAdmin))
		{
			imports := admin.Group("")
			imports.Use(uploadLimit)
			{
				imports.POST("/roster/import", h.Admin.ImportRoster)
				imports.POST("/advisors/import", h.Admin.ImportAdvisors)
			}

			manage := admin.Group("")
			manage.Use(jsonLimit)
			{
				manage.GET("/roster", h.Admin.ListRoster)
				manage.GET("/students", h.Admin.ListStudents)
				manage.GET("/advisors", h.Admin.ListAdvisors)
				manage.POST("/assign-advisor", h.Admin.AssignAdvisor)
				manage.POST("/auto-assign", h.Admin.AutoAssign)

				manage.GET("/periods", h.Admin.ListPeriods)
				manage.POST("/periods", h.Admin.CreatePeriod)
				manage.PUT("/periods/:id", h.Admin.UpdatePeriod)

				manage.POST("/departments", h.Department.CreateDepartment)
				manage.PUT("/departments/:id", h.Department.UpdateDepartment)
			}
		}
	}

	return r
}
