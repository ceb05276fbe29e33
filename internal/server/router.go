package server

import (
	"net/http"

	"github.com/kowalczyk-j/cosmetics-analyser/internal/handlers"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/api/auth/signup", handlers.Signup)
	mux.HandleFunc("/api/auth/login", handlers.Login)
	mux.HandleFunc("/api/auth/logout", handlers.Logout)
	mux.HandleFunc("/api/auth/me", handlers.Me)
	mux.HandleFunc("/api/cosmetics", handlers.CosmeticResource)
	mux.HandleFunc("/api/cosmetics/", handlers.CosmeticResource)
	mux.HandleFunc("/api/ingredients", handlers.IngredientResource)
	mux.HandleFunc("/api/ingredients/", handlers.IngredientResource)
	mux.HandleFunc("/api/compositions", handlers.CompositionResource)
	mux.HandleFunc("/api/compositions/", handlers.CompositionResource)
	mux.HandleFunc("/api/reviews", handlers.ReviewResource)
	mux.HandleFunc("/api/reviews/", handlers.ReviewResource)
	mux.Handle("/api/care-plans", handlers.RequireAuthentication(http.HandlerFunc(handlers.CarePlanResource)))
	mux.Handle("/api/care-plans/", handlers.RequireAuthentication(http.HandlerFunc(handlers.CarePlanResource)))
	mux.Handle("/api/favorites", handlers.RequireAuthentication(http.HandlerFunc(handlers.FavoriteResource)))
	mux.Handle("/api/favorites/", handlers.RequireAuthentication(http.HandlerFunc(handlers.FavoriteResource)))
	return mux
}
