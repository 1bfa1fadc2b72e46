package adsclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	googleadsdomain "github.com/vfg2006/conversion-audit/infrastructure/integrator/googleads/domain"
	"github.com/vfg2006/conversion-audit/internal/config"
)

// Renova o token um pouco antes da expiração informada pelo servidor
const tokenExpiryBuffer = time.Minute

// TokenManager obtém e mantém em cache o access token OAuth da API do Google Ads
type TokenManager struct {
	cfg         config.GoogleAds
	httpClient  *http.Client
	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
	now         func() time.Time
}

// NewTokenManager cria uma nova instância do gerenciador de tokens
func NewTokenManager(cfg config.GoogleAds, httpClient *http.Client) *TokenManager {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &TokenManager{
		cfg:        cfg,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Token retorna um access token válido, renovando-o se necessário
func (tm *TokenManager) Token(ctx context.Context) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.accessToken != "" && tm.now().Before(tm.expiresAt) {
		return tm.accessToken, nil
	}

	if err := tm.refresh(ctx); err != nil {
		return "", err
	}

	return tm.accessToken, nil
}

// Invalidate descarta o token em cache. A próxima chamada a Token obtém um novo.
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.accessToken = ""
	tm.expiresAt = time.Time{}
}

func (tm *TokenManager) refresh(ctx context.Context) error {
	if tm.cfg.RefreshToken == "" {
		return errors.New("google ads: refresh token não configurado")
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", tm.cfg.ClientID)
	form.Set("client_secret", tm.cfg.ClientSecret)
	form.Set("refresh_token", tm.cfg.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "google ads: erro ao criar requisição de token")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	logrus.Debug("Renovando access token do Google Ads")

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "google ads: erro ao renovar access token")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "google ads: erro ao ler resposta de token")
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("google ads: falha ao renovar access token. Status: %d, Corpo: %s", resp.StatusCode, string(body))
	}

	var token googleadsdomain.TokenResponse
	if err := jsoniter.Unmarshal(body, &token); err != nil {
		return errors.Wrap(err, "google ads: erro ao decodificar resposta de token")
	}
	if token.AccessToken == "" {
		return errors.New("google ads: resposta de token sem access_token")
	}

	tm.accessToken = token.AccessToken
	tm.expiresAt = tm.now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenExpiryBuffer)

	logrus.WithField("expires_at", tm.expiresAt.Format(time.RFC3339)).Info("Access token do Google Ads renovado")

	return nil
}
