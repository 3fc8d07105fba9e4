package router

import (
	"github.com/gin-gonic/gin"
	"github.com/glowstudio/backend/internal/domain/identity"
	"github.com/glowstudio/backend/internal/interfaces/http/handler"
	"github.com/glowstudio/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler of the studio API
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Catalog      *handler.CatalogHandler
	Cart         *handler.CartHandler
	Orders       *handler.OrderHandler
	Coupons      *handler.CouponHandler
	Bookings     *handler.BookingHandler
	Academy      *handler.AcademyHandler
	Gallery      *handler.GalleryHandler
	Testimonials *handler.TestimonialHandler
	Settings     *handler.SettingHandler
	Dashboard    *handler.DashboardHandler
	System       *handler.SystemHandler
}

// Guards are the access middleware applied per audience
type Guards struct {
	// Auth requires a valid access token
	Auth gin.HandlerFunc
	// OptionalAuth attaches the caller when a token is sent
	OptionalAuth gin.HandlerFunc
	// AuthRateLimit throttles credential endpoints; nil disables it
	AuthRateLimit gin.HandlerFunc
}

func (g Guards) credentials() []gin.HandlerFunc {
	if g.AuthRateLimit == nil {
		return nil
	}
	return []gin.HandlerFunc{g.AuthRateLimit}
}

// StudioRoutes builds the route groups of the API. Public, customer and
// admin audiences are separate groups so the guard of each is visible in
// one place.
func StudioRoutes(h Handlers, g Guards) []*DomainGroup {
	return []*DomainGroup{
		authRoutes(h, g),
		publicRoutes(h, g),
		customerRoutes(h, g),
		adminRoutes(h, g),
	}
}

func authRoutes(h Handlers, g Guards) *DomainGroup {
	auth := NewDomainGroup("auth", "/auth")
	credentials := auth.Group("credentials", "").Use(g.credentials()...)
	credentials.POST("/register", h.Auth.Register)
	credentials.POST("/login", h.Auth.Login)
	credentials.POST("/refresh", h.Auth.Refresh)
	auth.Group("session", "").Use(g.Auth).POST("/logout", h.Auth.Logout)
	return auth
}

func publicRoutes(h Handlers, g Guards) *DomainGroup {
	public := NewDomainGroup("public", "")

	public.GET("/system/info", h.System.Info)

	public.GET("/categories", h.Catalog.ListCategories).
		GET("/products", h.Catalog.ListProducts).
		GET("/products/:ref", h.Catalog.GetProduct)

	public.POST("/coupons/validate", h.Coupons.Validate)

	public.GET("/packages", h.Bookings.ListPackages).
		GET("/packages/:id", h.Bookings.GetPackage).
		GET("/bookings/availability", h.Bookings.Availability)

	public.GET("/classes", h.Academy.ListClasses).
		GET("/classes/:ref", h.Academy.GetClass)

	public.GET("/gallery", h.Gallery.List).
		GET("/gallery/categories", h.Gallery.Categories).
		GET("/gallery/:id", h.Gallery.Get)

	public.GET("/testimonials", h.Testimonials.ListPublic)
	if g.OptionalAuth != nil {
		public.POST("/testimonials", g.OptionalAuth, h.Testimonials.Submit)
	} else {
		public.POST("/testimonials", h.Testimonials.Submit)
	}

	public.GET("/settings", h.Settings.Public)
	return public
}

func customerRoutes(h Handlers, g Guards) *DomainGroup {
	customer := NewDomainGroup("customer", "").Use(g.Auth)

	customer.GET("/me", h.Auth.Me).
		PUT("/me", h.Auth.UpdateProfile).
		PUT("/me/password", h.Auth.ChangePassword)

	customer.GET("/cart", h.Cart.Get).
		DELETE("/cart", h.Cart.Clear).
		POST("/cart/items", h.Cart.AddItem).
		PUT("/cart/items/:productId", h.Cart.UpdateItem).
		DELETE("/cart/items/:productId", h.Cart.RemoveItem)

	customer.POST("/checkout/preview", h.Orders.Preview).
		POST("/checkout", h.Orders.Checkout)

	customer.GET("/orders", h.Orders.ListMine).
		GET("/orders/:id", h.Orders.GetMine).
		POST("/orders/:id/cancel", h.Orders.CancelMine).
		GET("/orders/:id/invoice", h.Orders.Invoice)

	customer.POST("/bookings", h.Bookings.Create).
		GET("/bookings", h.Bookings.ListMine).
		GET("/bookings/:id", h.Bookings.GetMine).
		POST("/bookings/:id/cancel", h.Bookings.CancelMine)

	customer.POST("/classes/:ref/enroll", h.Academy.Enroll).
		GET("/enrollments", h.Academy.MyEnrollments).
		POST("/enrollments/:id/cancel", h.Academy.CancelEnrollment)
	return customer
}

func adminRoutes(h Handlers, g Guards) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").
		Use(g.Auth, middleware.RequireRole(string(identity.RoleAdmin)))

	admin.GET("/dashboard", h.Dashboard.Summary)

	admin.Group("users", "/users").
		GET("", h.Users.List).
		PUT("/:id/status", h.Users.SetStatus)

	admin.Group("categories", "/categories").
		GET("", h.Catalog.AdminListCategories).
		POST("", h.Catalog.CreateCategory).
		PUT("/:id", h.Catalog.UpdateCategory).
		DELETE("/:id", h.Catalog.DeleteCategory)

	admin.Group("products", "/products").
		GET("", h.Catalog.AdminListProducts).
		POST("", h.Catalog.CreateProduct).
		GET("/:id", h.Catalog.AdminGetProduct).
		PUT("/:id", h.Catalog.UpdateProduct).
		DELETE("/:id", h.Catalog.DeleteProduct).
		POST("/:id/stock", h.Catalog.AdjustStock).
		POST("/:id/activate", h.Catalog.ActivateProduct).
		POST("/:id/deactivate", h.Catalog.DeactivateProduct)

	admin.Group("orders", "/orders").
		GET("", h.Orders.AdminList).
		GET("/:id", h.Orders.AdminGet).
		PUT("/:id/status", h.Orders.UpdateStatus).
		POST("/:id/paid", h.Orders.MarkPaid).
		POST("/:id/refunded", h.Orders.MarkRefunded).
		GET("/:id/invoice", h.Orders.Invoice)

	admin.Group("coupons", "/coupons").
		GET("", h.Coupons.List).
		POST("", h.Coupons.Create).
		GET("/:id", h.Coupons.Get).
		PUT("/:id", h.Coupons.Update).
		DELETE("/:id", h.Coupons.Delete)

	admin.Group("packages", "/packages").
		GET("", h.Bookings.AdminListPackages).
		POST("", h.Bookings.CreatePackage).
		PUT("/:id", h.Bookings.UpdatePackage).
		DELETE("/:id", h.Bookings.DeletePackage)

	admin.Group("bookings", "/bookings").
		GET("", h.Bookings.AdminList).
		GET("/:id", h.Bookings.AdminGet).
		POST("/:id/confirm", h.Bookings.Confirm).
		POST("/:id/reject", h.Bookings.Reject).
		POST("/:id/complete", h.Bookings.Complete).
		POST("/:id/cancel", h.Bookings.Cancel)

	admin.Group("classes", "/classes").
		GET("", h.Academy.AdminListClasses).
		POST("", h.Academy.CreateClass).
		GET("/:id", h.Academy.AdminGetClass).
		PUT("/:id", h.Academy.UpdateClass).
		DELETE("/:id", h.Academy.DeleteClass).
		POST("/:id/cancel", h.Academy.CancelClass).
		POST("/:id/complete", h.Academy.CompleteClass).
		GET("/:id/enrollments", h.Academy.ClassEnrollments)

	admin.Group("gallery", "/gallery").
		GET("", h.Gallery.AdminList).
		POST("", h.Gallery.Upload).
		PUT("/:id", h.Gallery.Update).
		DELETE("/:id", h.Gallery.Delete)

	admin.Group("testimonials", "/testimonials").
		GET("", h.Testimonials.AdminList).
		GET("/:id", h.Testimonials.AdminGet).
		POST("/:id/approve", h.Testimonials.Approve).
		POST("/:id/reject", h.Testimonials.Reject).
		PUT("/:id/featured", h.Testimonials.SetFeatured).
		DELETE("/:id", h.Testimonials.Delete)

	admin.Group("settings", "/settings").
		GET("", h.Settings.List).
		PUT("", h.Settings.Upsert).
		GET("/:key", h.Settings.Get).
		DELETE("/:key", h.Settings.Delete)
	return admin
}
