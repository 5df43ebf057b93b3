package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"hospital-locator/internal/logging"
	"hospital-locator/internal/models"
)

type contextKey string

const accountKey = contextKey("account")

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// RequirePage lets only signed-in callers through and redirects everyone
// else to the login page.
func (m *Manager) RequirePage(loader AccountLoader, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := m.Resolve(r, loader)
		if err != nil {
			logging.FromContext(r.Context()).Debug("page access denied", "path", r.URL.Path, "error", err)
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
	})
}

// RequireAPI is RequirePage for JSON endpoints: it answers 401 instead of
// redirecting.
func (m *Manager) RequireAPI(loader AccountLoader, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := m.Resolve(r, loader)
		if err != nil {
			logging.FromContext(r.Context()).Debug("api access denied", "path", r.URL.Path, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": ErrUnauthenticated.Error()})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
	})
}

func WithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(accountKey).(*models.Account)
	return account, ok && account != nil
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	account, ok := AccountFromContext(ctx)
	if !ok {
		return 0, false
	}
	return account.ID, true
}
