package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nothowstorygoes/carlocalendar/internal/config"
	"github.com/nothowstorygoes/carlocalendar/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2v2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const nonceTTL = 10 * time.Minute

type googleAuthRedirect struct {
	RedirectUrl string `json:"redirectUrl"`
}

type signInResponse struct {
	Uid         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoUrl    string `json:"photoUrl,omitempty"`
}

// GoogleAuth implements sign-in with Google. Sign-in happens before a user
// row exists, so state nonces live in memory instead of a per-user table.
type GoogleAuth struct {
	userService user.Service
	oauthConfig *oauth2.Config

	mu     sync.Mutex
	nonces map[string]time.Time
}

func NewGoogleAuth(userService user.Service, cfg config.Application) *GoogleAuth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Google.ClientId,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.Host + "/api/auth/google/callback",
		Scopes:       []string{oauth2v2.UserinfoEmailScope, oauth2v2.UserinfoProfileScope},
	}
	return &GoogleAuth{
		userService: userService,
		oauthConfig: oauthConfig,
		nonces:      make(map[string]time.Time),
	}
}

// OAuthLogin returns the Google consent URL. finalUrl is where the callback
// redirects the browser afterwards.
func (g *GoogleAuth) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	stateNonce := uuid.New().String()
	g.storeNonce(stateNonce)
	finalUrl := r.URL.Query().Get("finalUrl")

	log.Tracef("Redirecting to Google auth URL with nonce: %s", stateNonce)
	u := g.oauthConfig.AuthCodeURL(finalUrl + "|" + stateNonce)

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(googleAuthRedirect{RedirectUrl: u}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// OAuthCallback exchanges the authorization code, loads the Google profile,
// and upserts the user.
func (g *GoogleAuth) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")
	state := r.FormValue("state")

	parts := strings.SplitN(state, "|", 2)
	if len(parts) != 2 {
		http.Error(w, "invalid state parameter", http.StatusBadRequest)
		return
	}
	finalUrl, nonce := parts[0], parts[1]
	if !g.consumeNonce(nonce) {
		log.Warnf("rejected Google callback with unknown or expired nonce")
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	signedIn, err := g.exchangeAndSignIn(r.Context(), code)
	if err != nil {
		log.Error(err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	if finalUrl == "" {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(signInResponse{
			Uid:         signedIn.Uid,
			Email:       signedIn.Email,
			DisplayName: signedIn.DisplayName,
			PhotoUrl:    signedIn.PhotoUrl,
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	http.Redirect(w, r, finalUrl+"?success=true&uid="+signedIn.Uid, http.StatusFound)
}

func (g *GoogleAuth) exchangeAndSignIn(ctx context.Context, code string) (user.User, error) {
	token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return user.User{}, fmt.Errorf("unable to exchange code for token: %w", err)
	}

	svc, err := oauth2v2.NewService(ctx, option.WithTokenSource(g.oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return user.User{}, fmt.Errorf("unable to create userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Do()
	if err != nil {
		return user.User{}, fmt.Errorf("unable to fetch Google profile: %w", err)
	}

	signedIn, err := g.userService.SignIn(ctx, user.User{
		Uid:         info.Id,
		Email:       info.Email,
		DisplayName: info.Name,
		PhotoUrl:    info.Picture,
	})
	if err != nil {
		return user.User{}, fmt.Errorf("unable to sign in Google user: %w", err)
	}
	log.Debugf("Google sign-in completed for user %s", signedIn.Uid)
	return signedIn, nil
}

func (g *GoogleAuth) storeNonce(nonce string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	for n, created := range g.nonces {
		if now.Sub(created) > nonceTTL {
			delete(g.nonces, n)
		}
	}
	g.nonces[nonce] = now
}

func (g *GoogleAuth) consumeNonce(nonce string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	created, ok := g.nonces[nonce]
	delete(g.nonces, nonce)
	return ok && time.Since(created) <= nonceTTL
}
