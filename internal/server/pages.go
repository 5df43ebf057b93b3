package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"hospital-locator/internal/accounts"
	"hospital-locator/internal/auth"
	"hospital-locator/internal/logging"
)

//go:embed web
var web embed.FS

const (
	msgAccountCreated = "Account created successfully. Please log in."
	msgSignupFailed   = "An error occurred while creating your account. Please try again later."
	msgLoggedOut      = "You have been logged out."
	msgLoginFailed    = "Login is temporarily unavailable. Please try again later."
)

type pageData struct {
	Flashes   []flash
	Username  string
	MapAPIKey string
}

type pageSet map[string]*template.Template

func loadPages() (pageSet, error) {
	pages := pageSet{}
	for _, name := range []string{"login.html", "signup.html", "search.html"} {
		tmpl, err := template.ParseFS(web, "web/templates/base.html", "web/templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

func (p pageSet) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	var buf bytes.Buffer
	if err := p[name].ExecuteTemplate(&buf, "base", data); err != nil {
		logging.FromContext(r.Context()).Error("render page", "page", name, "error", err)
		http.Error(w, "Error rendering template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func signupPage(pages pageSet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Info("rendering signup page")
		pages.render(w, r, "signup.html", pageData{Flashes: popFlashes(w, r)})
	}
}

func signupHandler(store Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		username := r.PostFormValue("username")
		email := r.PostFormValue("email")
		password := r.PostFormValue("password")
		logger.Info("signup attempt", "username", username, "email", email)

		_, err := store.CreateAccount(r.Context(), username, email, password)
		switch {
		case err == nil:
			logger.Info("account created", "username", username, "email", email)
			addFlash(w, r, flashSuccess, msgAccountCreated)
			http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
			return
		case errors.Is(err, accounts.ErrDuplicateEmail):
			logger.Warn("signup failed: email already exists", "email", email)
			addFlash(w, r, flashDanger, "Email already exists")
		case errors.Is(err, accounts.ErrDuplicateUsername):
			logger.Warn("signup failed: username already exists", "username", username)
			addFlash(w, r, flashDanger, "Username already exists")
		case errors.Is(err, accounts.ErrMissingField):
			logger.Warn("signup failed: missing field")
			addFlash(w, r, flashDanger, "Username, email and password are required")
		default:
			logger.Error("signup failed", "email", email, "error", err)
			addFlash(w, r, flashDanger, msgSignupFailed)
		}
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
	}
}

func loginPage(pages pageSet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages.render(w, r, "login.html", pageData{Flashes: popFlashes(w, r)})
	}
}

func loginHandler(store Accounts, sessions *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		email := r.PostFormValue("email")
		account, err := store.Authenticate(r.Context(), email, r.PostFormValue("password"))
		if err != nil {
			if errors.Is(err, accounts.ErrInvalidCredentials) {
				logger.Warn("login failed", "email", email)
				addFlash(w, r, flashDanger, "Invalid email or password")
			} else {
				logger.Error("login failed", "email", email, "error", err)
				addFlash(w, r, flashDanger, msgLoginFailed)
			}
			http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
			return
		}

		if err := sessions.Issue(w, account.ID); err != nil {
			logger.Error("failed to issue session", "account_id", account.ID, "error", err)
			addFlash(w, r, flashDanger, msgLoginFailed)
			http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
			return
		}
		logger.Info("user logged in", "username", account.Username)
		http.Redirect(w, r, "/search", http.StatusSeeOther)
	}
}

func logoutHandler(sessions *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if account, ok := auth.AccountFromContext(r.Context()); ok {
			logging.FromContext(r.Context()).Info("user logged out", "username", account.Username)
		}
		sessions.Clear(w)
		addFlash(w, r, flashSuccess, msgLoggedOut)
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
	}
}

func searchPage(pages pageSet, mapAPIKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var username string
		if account, ok := auth.AccountFromContext(r.Context()); ok {
			username = account.Username
		}
		pages.render(w, r, "search.html", pageData{
			Flashes:   popFlashes(w, r),
			Username:  username,
			MapAPIKey: mapAPIKey,
		})
	}
}

func staticHandler() http.Handler {
	static, err := fs.Sub(web, "web/static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(static))
}
