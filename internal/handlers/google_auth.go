package handlers

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/taskvault/taskvault-api/internal/config"
	"github.com/taskvault/taskvault-api/internal/dto"
	"github.com/taskvault/taskvault-api/internal/middleware"
	"github.com/taskvault/taskvault-api/internal/services"
	"github.com/taskvault/taskvault-api/internal/utils"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

// GoogleIdentityProvider builds the consent URL and turns an authorization
// code into the Google account behind it.
type GoogleIdentityProvider interface {
	AuthCodeURL(state string) string
	Identify(ctx context.Context, code string) (*dto.GoogleUserInfo, error)
}

type googleProvider struct {
	oauth2Config *oauth2.Config
}

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state)
}

// Identify exchanges the code and fetches the userinfo record
func (p *googleProvider) Identify(ctx context.Context, code string) (*dto.GoogleUserInfo, error) {
	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	service, err := googleOAuth2.NewService(ctx, option.WithTokenSource(p.oauth2Config.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("userinfo client: %w", err)
	}

	userInfo, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}

	verified := false
	if userInfo.VerifiedEmail != nil {
		verified = *userInfo.VerifiedEmail
	}

	return &dto.GoogleUserInfo{
		ID:       userInfo.Id,
		Email:    userInfo.Email,
		Name:     userInfo.Name,
		Verified: verified,
	}, nil
}

// GoogleAuthHandler handles Google OAuth authentication
type GoogleAuthHandler struct {
	auth     *services.AuthService
	provider GoogleIdentityProvider
	logger   *slog.Logger
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance
func NewGoogleAuthHandler(auth *services.AuthService, cfg *config.GoogleOAuthConfig, logger *slog.Logger) *GoogleAuthHandler {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
		},
		Endpoint: google.Endpoint,
	}

	return &GoogleAuthHandler{
		auth:     auth,
		provider: &googleProvider{oauth2Config: oauth2Config},
		logger:   logger,
	}
}

// GoogleLogin initiates Google OAuth login
// @Summary Google OAuth login
// @Description Returns the Google consent URL and sets a short-lived state cookie
// @Tags auth
// @Produce json
// @Success 200 {object} dto.GoogleLoginResponse "Google OAuth URL"
// @Router /auth/google/login [get]
func (h *GoogleAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	// Generate state parameter for CSRF protection
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int(oauthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteJSONResponse(w, http.StatusOK, dto.GoogleLoginResponse{
		AuthURL: h.provider.AuthCodeURL(state),
		State:   state,
	})
}

// GoogleCallback handles Google OAuth callback
// @Summary Google OAuth callback
// @Description Exchanges the authorization code; a verified Google email signs in (or creates) the matching account
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State returned by /auth/google/login"
// @Success 200 {object} dto.TokenResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Missing authorization code"
// @Failure 401 {object} dto.ErrorResponse "State mismatch, bad code or unverified email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/google/callback [get]
func (h *GoogleAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing authorization code", "Authorization code is required")
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		middleware.WriteUnauthorized(w, "Invalid OAuth state")
		return
	}
	// State is single use.
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/auth/google", MaxAge: -1})

	userInfo, err := h.provider.Identify(r.Context(), code)
	if err != nil {
		h.logger.WarnContext(r.Context(), "google sign-in failed",
			"request_id", utils.GetRequestID(r.Context()),
			"error", err,
		)
		middleware.WriteUnauthorized(w, "Invalid authorization code")
		return
	}
	if !userInfo.Verified || userInfo.Email == "" {
		middleware.WriteUnauthorized(w, "Google account email is not verified")
		return
	}

	token, err := h.auth.SignInVerifiedEmail(r.Context(), userInfo.Email)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: services.TokenType})
}
