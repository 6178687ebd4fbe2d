package api

import (
	"net/http" // HTTP status codes
	"time"     // Rate limit window

	"staffadmin/internal/middleware" // Session, guards, CSRF, logging
	"staffadmin/internal/service"    // Domain operations
	"staffadmin/internal/session"    // Session manager
	"staffadmin/internal/views"      // Page rendering

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Dependencies are the collaborators the routes are built from
type Dependencies struct {
	DB              *gorm.DB              // Database, for health checks
	Redis           redis.UniversalClient // Session store and login throttling
	Service         *service.Service      // Domain operations
	Sessions        *session.Manager      // Login sessions
	Views           *views.Renderer       // Page templates
	SecureCookies   bool                  // Mark cookies Secure (production)
	LoginRateLimit  int                   // Login attempts per window
	LoginRateWindow time.Duration         // Login attempt window
	TrustedProxies  []string              // Proxies allowed to set the client IP
}

// NewRouter registers every route on a new gin engine
func NewRouter(d Dependencies) (*gin.Engine, error) {
	r := gin.New() // Gin router instance
	// Child names are path keys and may contain escaped slashes
	r.UseRawPath = true
	r.UnescapePathValues = true

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}

	deny := ErrorPage(d.Views)
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.SessionMiddleware(d.Sessions, d.Service),
		middleware.CSRFMiddleware(deny),
	)
	r.NoRoute(func(c *gin.Context) { showError(c, d.Views, http.StatusNotFound, msgNotFound) })

	// Public routes
	r.GET("/", HomeHandler(d.Views))                         // Landing page
	r.GET("/healthz", HealthHandler(d.DB, d.Redis))          // Health check
	r.GET("/register", RegisterPageHandler(d.Views))         // Registration form
	r.POST("/register", RegisterHandler(d.Service, d.Views)) // Registration endpoint
	r.GET("/login", LoginPageHandler(d.Views))               // Login form
	r.POST("/login",                                         // Login endpoint, rate limited per client IP
		middleware.LoginRateLimit(d.Redis, d.LoginRateLimit, d.LoginRateWindow, deny),
		LoginHandler(d.Service, d.Sessions, d.Views, d.SecureCookies),
	)

	// Routes for any logged in employee
	user := r.Group("/")
	user.Use(middleware.LoginRequired())
	user.GET("/dashboard", DashboardHandler(d.Service, d.Views))     // Own department and children
	user.POST("/logout", LogoutHandler(d.Sessions, d.SecureCookies)) // Logout endpoint

	// Admin routes (logged in, admin only)
	admin := r.Group("/admin")
	admin.Use(middleware.LoginRequired(), middleware.AdminOnlyMiddleware(deny))

	admin.GET("/departments", ListDepartmentsHandler(d.Service, d.Views))
	admin.GET("/departments/add", AddDepartmentPageHandler(d.Views))
	admin.POST("/departments/add", AddDepartmentHandler(d.Service, d.Views))
	admin.GET("/departments/edit/:id", EditDepartmentPageHandler(d.Service, d.Views))
	admin.POST("/departments/edit/:id", EditDepartmentHandler(d.Service, d.Views))
	admin.POST("/departments/delete/:id", DeleteDepartmentHandler(d.Service, d.Views))

	admin.GET("/children", ListChildrenHandler(d.Service, d.Views))
	admin.GET("/children/add", AddChildPageHandler(d.Service, d.Views))
	admin.POST("/children/add", AddChildHandler(d.Service, d.Views))
	admin.GET("/children/edit/:name", EditChildPageHandler(d.Service, d.Views))
	admin.POST("/children/edit/:name", EditChildHandler(d.Service, d.Views))
	admin.POST("/children/delete/:name", DeleteChildHandler(d.Service, d.Views))

	admin.GET("/employees", ListEmployeesHandler(d.Service, d.Views))
	admin.GET("/employees/assign/:id", AssignDepartmentPageHandler(d.Service, d.Views))
	admin.POST("/employees/assign/:id", AssignDepartmentHandler(d.Service, d.Views))
	admin.POST("/employees/delete/:id", DeleteEmployeeHandler(d.Service, d.Views))

	return r, nil
}
