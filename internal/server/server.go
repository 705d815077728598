package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/hondana/bookmarket-backend/internal/ai"
	"github.com/hondana/bookmarket-backend/internal/handler"
	appmw "github.com/hondana/bookmarket-backend/internal/middleware"
	"github.com/hondana/bookmarket-backend/internal/payment"
	"github.com/hondana/bookmarket-backend/internal/repository"
	"github.com/hondana/bookmarket-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	e     *echo.Echo
	repos []interface{ SetDB(*gorm.DB) }
	sha   string
	build string
}

// New wires repositories, services, and handlers over the given DB and
// payment provider. A nil verifier registers the protected routes without
// auth; that mode exists for local development only.
func New(db *gorm.DB, verifier appmw.TokenVerifier, payments payment.Provider, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	listingRepo := repository.NewListingRepository(db)
	bookRepo := repository.NewBookRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	notifSvc := service.NewNotificationService(notifRepo)
	listingSvc := service.NewListingService(listingRepo, bookRepo)
	cartSvc := service.NewCartService(cartRepo, listingRepo)
	checkoutSvc := service.NewCheckoutService(cartRepo, orderRepo, payments, notifSvc)
	convSvc := service.NewConversationService(msgRepo, profileRepo, notifSvc)
	profileSvc := service.NewProfileService(profileRepo)

	listingHandler := handler.NewListingHandler(listingSvc)
	cartHandler := handler.NewCartHandler(cartSvc)
	checkoutHandler := handler.NewCheckoutHandler(checkoutSvc)
	convHandler := handler.NewConversationHandler(convSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	notifHandler := handler.NewNotificationHandler(notifSvc)
	aiHandler := handler.NewAIHandler(ai.NewPriceSuggestClient())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	var authed []echo.MiddlewareFunc
	if verifier != nil {
		authed = append(authed, appmw.NewAuthMiddleware(verifier).RequireAuth)
	} else {
		e.Logger.Warn("no token verifier configured; protected routes are open")
	}

	api := e.Group("/api")
	api.GET("/listings", listingHandler.List)
	api.GET("/listings/:id", listingHandler.Get)
	api.GET("/users/:uid", profileHandler.GetPublic)

	api.POST("/listings", listingHandler.Create, authed...)
	api.DELETE("/listings/:id", listingHandler.Remove, authed...)
	api.GET("/me/listings", listingHandler.ListMine, authed...)
	api.PUT("/me/profile", profileHandler.Upsert, authed...)

	api.GET("/cart", cartHandler.List, authed...)
	api.POST("/cart", cartHandler.Add, authed...)
	api.DELETE("/cart/:id", cartHandler.Remove, authed...)

	api.POST("/checkout", checkoutHandler.Begin, authed...)
	api.POST("/checkout/finalize", checkoutHandler.Finalize, authed...)
	api.GET("/me/orders", checkoutHandler.ListMine, authed...)
	api.GET("/me/sales", checkoutHandler.ListSales, authed...)

	api.GET("/conversations", convHandler.List, authed...)
	api.GET("/conversations/:uid", convHandler.GetThread, authed...)
	api.POST("/messages", convHandler.SendMessage, authed...)

	api.GET("/notifications", notifHandler.List, authed...)
	api.POST("/notifications/read", notifHandler.MarkAllRead, authed...)

	api.POST("/ai/suggest-price", aiHandler.SuggestPrice, authed...)

	return &Server{
		e: e,
		repos: []interface{ SetDB(*gorm.DB) }{
			listingRepo, bookRepo, cartRepo, orderRepo, msgRepo, profileRepo, notifRepo,
		},
		sha:   sha,
		build: buildTime,
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// SetDB injects the database into every repository once the background
// connect finishes; until then repositories answer ErrDBNotReady.
func (s *Server) SetDB(db *gorm.DB) {
	for _, r := range s.repos {
		r.SetDB(db)
	}
}
