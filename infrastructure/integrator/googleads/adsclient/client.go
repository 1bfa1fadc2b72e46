package adsclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
	"github.com/vfg2006/conversion-audit/internal/config"
	"golang.org/x/time/rate"

	googleadsdomain "github.com/vfg2006/conversion-audit/infrastructure/integrator/googleads/domain"
)

// Tempo que o circuito permanece aberto antes de liberar uma nova tentativa
const breakerOpenTimeout = 30 * time.Second

type Client interface {
	// SearchStream executa uma consulta GAQL na conta configurada
	SearchStream(ctx context.Context, query string) ([]googleadsdomain.SearchStreamBatch, error)
}

type AdsClient struct {
	cfg          config.GoogleAds
	httpClient   *http.Client
	TokenManager *TokenManager
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker
}

func NewClient(cfg config.GoogleAds, tokenManager *TokenManager) *AdsClient {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	maxFailures := uint32(5)
	if cfg.BreakerMaxFailures > 0 {
		maxFailures = uint32(cfg.BreakerMaxFailures)
	}

	return &AdsClient{
		cfg:          cfg,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		TokenManager: tokenManager,
		limiter:      rate.NewLimiter(limit, 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "google-ads",
			Timeout: breakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			IsSuccessful: breakerSuccess,
		}),
	}
}

// breakerSuccess não conta consultas inválidas como falha do serviço
func breakerSuccess(err error) bool {
	if err == nil {
		return true
	}

	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.IsClientError()
}

// customerID remove os hífens do formato exibido na interface (123-456-7890)
func customerID(id string) string {
	return strings.ReplaceAll(id, "-", "")
}
