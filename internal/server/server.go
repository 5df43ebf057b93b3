package server

import (
	"context"
	"log/slog"
	"net/http"

	"hospital-locator/internal/auth"
	"hospital-locator/internal/logging"
	"hospital-locator/internal/models"
	"hospital-locator/internal/search"
)

// Accounts is the part of the account store the pages need.
type Accounts interface {
	CreateAccount(ctx context.Context, username, email, password string) (int64, error)
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
}

type Deps struct {
	Accounts  Accounts
	Sessions  *auth.Manager
	Search    *search.Service
	Ping      func(ctx context.Context) error
	Logger    *slog.Logger
	MapAPIKey string
}

// NewRouter builds the application handler with every route registered.
func NewRouter(deps Deps) (http.Handler, error) {
	pages, err := loadPages()
	if err != nil {
		return nil, err
	}

	page := func(h http.Handler) http.Handler { return deps.Sessions.RequirePage(deps.Accounts, h) }
	api := func(h http.Handler) http.Handler { return deps.Sessions.RequireAPI(deps.Accounts, h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
	})
	mux.Handle("GET /signup", signupPage(pages))
	mux.Handle("POST /signup", signupHandler(deps.Accounts))
	mux.Handle("GET /login", loginPage(pages))
	mux.Handle("POST /login", loginHandler(deps.Accounts, deps.Sessions))
	mux.Handle("GET /logout", page(logoutHandler(deps.Sessions)))
	mux.Handle("GET /search", page(searchPage(pages, deps.MapAPIKey)))
	mux.Handle("POST /api/search_hospitals", api(search.SearchHandler(deps.Search)))
	mux.Handle("GET /api/get_hospitals", api(search.HistoryHandler(deps.Search)))
	mux.Handle("GET /static/", staticHandler())
	mux.Handle("GET /healthz", healthHandler(deps.Ping))

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return logging.Middleware(logger, mux), nil
}
