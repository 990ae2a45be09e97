package main

import (
	"context"
	"log"
	"net/http"
	"time"

	apphttp "libraryapi/internal/http"
	"libraryapi/internal/config"
	"libraryapi/internal/store"
	"libraryapi/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	ctx := context.Background()
	st, err := store.New(ctx, cfg)
	if err != nil {
		log.Fatalf("cannot initialize %s backend: %v", cfg.Backend, err)
	}
	defer st.Close()
	log.Printf("storage backend %s ready", cfg.Backend)

	bookService := usecase.NewBookService(st.Books)
	userService := usecase.NewUserService(st.Users)
	loanService := usecase.NewLoanService(st.Loans)

	bookHandler := apphttp.NewBookHandler(bookService)
	catalogHandler := apphttp.NewCatalogHandler(st.Authors, st.Categories, st.Editorials)
	userHandler := apphttp.NewUserHandler(userService, cfg.JWTSecret)
	loanHandler := apphttp.NewLoanHandler(loanService)

	router := http.NewServeMux()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := st.Ping(pingCtx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("POST /users/register", userHandler.Register)
	router.HandleFunc("POST /users/login", userHandler.Login)

	protected := http.NewServeMux()

	protected.HandleFunc("GET /me", userHandler.Me)
	protected.HandleFunc("GET /users", userHandler.List)
	protected.HandleFunc("GET /users/{id}", userHandler.Get)
	protected.HandleFunc("PUT /users/{id}", userHandler.Update)
	protected.HandleFunc("DELETE /users/{id}", userHandler.Delete)

	protected.HandleFunc("POST /books", bookHandler.Create)
	protected.HandleFunc("GET /books", bookHandler.List)
	protected.HandleFunc("GET /books/{id}", bookHandler.Get)
	protected.HandleFunc("PUT /books/{id}", bookHandler.Update)
	protected.HandleFunc("DELETE /books/{id}", bookHandler.Delete)

	protected.HandleFunc("POST /authors", catalogHandler.CreateAuthor)
	protected.HandleFunc("GET /authors", catalogHandler.ListAuthors)
	protected.HandleFunc("GET /authors/{id}", catalogHandler.GetAuthor)
	protected.HandleFunc("PUT /authors/{id}", catalogHandler.UpdateAuthor)
	protected.HandleFunc("DELETE /authors/{id}", catalogHandler.DeleteAuthor)

	protected.HandleFunc("POST /categories", catalogHandler.CreateCategory)
	protected.HandleFunc("GET /categories", catalogHandler.ListCategories)
	protected.HandleFunc("GET /categories/{id}", catalogHandler.GetCategory)
	protected.HandleFunc("PUT /categories/{id}", catalogHandler.UpdateCategory)
	protected.HandleFunc("DELETE /categories/{id}", catalogHandler.DeleteCategory)

	protected.HandleFunc("POST /editorials", catalogHandler.CreateEditorial)
	protected.HandleFunc("GET /editorials", catalogHandler.ListEditorials)
	protected.HandleFunc("GET /editorials/{id}", catalogHandler.GetEditorial)
	protected.HandleFunc("PUT /editorials/{id}", catalogHandler.UpdateEditorial)
	protected.HandleFunc("DELETE /editorials/{id}", catalogHandler.DeleteEditorial)

	protected.HandleFunc("POST /loans/checkout", loanHandler.Checkout)
	protected.HandleFunc("POST /loans/{id}/return", loanHandler.Return)
	protected.HandleFunc("GET /loans", loanHandler.List)
	protected.HandleFunc("GET /loans/outstanding", loanHandler.ListOutstanding)
	protected.HandleFunc("GET /loans/{id}", loanHandler.Get)

	router.Handle("/", apphttp.AuthMiddleware(cfg.JWTSecret)(protected))

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting server on %s", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
