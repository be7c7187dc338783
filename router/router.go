package router

import (
	"net/http"

	"github.com/altynbek07/dineqr/controllers"
	"github.com/altynbek07/dineqr/middlewares"
	"github.com/altynbek07/dineqr/models"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// SetupRouter wires the full HTTP surface: public auth and QR access,
// session-backed customer flow, role dashboards and the staff API.
func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	sessions := middlewares.NewSessionManager(db)

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.Metrics())
	r.Use(middlewares.GeneralRateLimiter().Middleware())
	r.Use(sessions.Middleware())
	r.Use(sessions.SessionTimeout())
	r.Use(sessions.ActivityTracker())

	userCtrl := controllers.NewUserController(db, sessions)
	qrCtrl := controllers.NewQRController(db, sessions)
	tableCtrl := controllers.NewTableController(db)
	dashCtrl := controllers.NewDashboardController(db)
	healthCtrl := controllers.NewHealthController(db)
	apiCtrl := controllers.NewAPIController(db)

	// Root redirects to the login page, same as the web frontend expects.
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/accounts/login/")
	})

	r.GET("/health-check/", healthCtrl.HealthCheck)
	r.GET("/rate-limited/", controllers.RateLimited)
	r.GET("/service-worker.js", controllers.ServiceWorker)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/static", "static")

	// Auth endpoints sit behind the per-key windows plus a process-wide
	// burst guard.
	accounts := r.Group("/accounts")
	accounts.Use(middlewares.NewStrictRateLimiter())
	{
		accounts.GET("/login/", controllers.LoginPage)
		accounts.POST("/login/", middlewares.LoginRateLimiter().Middleware(), userCtrl.Login)
		accounts.POST("/logout/", userCtrl.Logout)
		accounts.POST("/register/", middlewares.RegistrationRateLimiter().Middleware(), userCtrl.Register)
		accounts.POST("/register/owner/", middlewares.RegistrationRateLimiter().Middleware(), userCtrl.RegisterOwner)
	}

	r.GET("/accounts/profile/", middlewares.LoginRequired(), userCtrl.Profile)
	r.POST("/accounts/tax-rate/", middlewares.LoginRequired(), userCtrl.UpdateTaxRate)

	// QR access: resolution, subscription gate, session context.
	registrationLimiter := middlewares.RegistrationRateLimiter()
	r.GET("/r/:qr_code", qrCtrl.Access)
	r.GET("/r/:qr_code/register", qrCtrl.CustomerRegisterPage)
	r.POST("/r/:qr_code/register", registrationLimiter.Middleware(), qrCtrl.CustomerRegister)

	// Customer ordering flow: table selection and menu, driven by the
	// restaurant context QR access stored in the session.
	orders := r.Group("/orders")
	orders.Use(middlewares.LoginRequired(), middlewares.OrderRateLimiter().Middleware())
	{
		orders.GET("/tables/", tableCtrl.ListTables)
		orders.POST("/tables/select/", tableCtrl.SelectTable)
	}
	r.GET("/restaurant/menu/", tableCtrl.Menu)

	// Role dashboards.
	r.GET("/kitchen/dashboard/", middlewares.LoginRequired(),
		middlewares.RequireRoles(models.RoleKitchen), dashCtrl.Kitchen)
	r.GET("/cashier/dashboard/", middlewares.LoginRequired(),
		middlewares.RequireRoles(models.RoleCashier), dashCtrl.Cashier)
	r.GET("/customer-care/dashboard/", middlewares.LoginRequired(),
		middlewares.RequireRoles(models.RoleCustomerCare), dashCtrl.CustomerCare)
	r.GET("/admin-panel/dashboard/", middlewares.LoginRequired(),
		middlewares.RequireRoles(models.RoleOwner, models.RoleMainOwner, models.RoleBranchOwner), dashCtrl.AdminPanel)
	r.GET("/system-admin/dashboard/", middlewares.LoginRequired(),
		middlewares.RequireRoles(models.RoleAdministrator), dashCtrl.SystemAdmin)

	// Staff API: JWT auth for the print client and mobile dashboards.
	api := r.Group("/api")
	api.Use(middlewares.APIRateLimiter().Middleware())
	{
		api.POST("/login", apiCtrl.Login)

		authed := api.Group("/")
		authed.Use(middlewares.AuthMiddleware())
		{
			authed.GET("/profile", apiCtrl.Profile)
		}
	}

	return r
}
