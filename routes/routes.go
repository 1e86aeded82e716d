package routes

import (
	"net/http"

	"productcatalog/handlers"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// CORS middleware
func withCORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type Deps struct {
	Users      *handlers.UserHandler
	Products   *handlers.ProductHandler
	Health     *handlers.HealthHandler
	Tokens     handlers.TokenVerifier
	Log        *logrus.Logger
	CORSOrigin string
}

// SetupRoutes builds the API router. Only the product listing sits behind
// the access guard; product writes are public.
func SetupRoutes(d Deps) http.Handler {
	r := mux.NewRouter()
	guard := handlers.RequireAuth(d.Tokens, d.Log)

	// User routes
	r.HandleFunc("/users", d.Users.Signup).Methods(http.MethodPost)
	r.HandleFunc("/login", d.Users.Login).Methods(http.MethodPost)

	// Product routes
	r.Handle("/products", guard(http.HandlerFunc(d.Products.SearchProducts))).Methods(http.MethodGet)
	r.HandleFunc("/products", d.Products.CreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}", d.Products.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", d.Products.UpdateProduct).Methods(http.MethodPut)
	r.HandleFunc("/products/{id}", d.Products.DeleteProduct).Methods(http.MethodDelete)

	if d.Health != nil {
		r.HandleFunc("/healthz", d.Health.Health).Methods(http.MethodGet)
	}

	origin := d.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	var h http.Handler = withCORS(origin, r)
	h = handlers.RecoverWrapper(d.Log)(h)
	h = handlers.RequestLogger(d.Log)(h)
	return h
}
