package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vfg2006/conversion-audit/internal/api/handler/router"
	"github.com/vfg2006/conversion-audit/internal/usecases/auditing"
	"github.com/vfg2006/conversion-audit/pkg/metrics"
	"github.com/vfg2006/conversion-audit/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Metrics(gatherer prometheus.Gatherer) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: metrics.Handler(gatherer),
		},
	}
}

func Audit(scheduler AuditScheduler, auditor auditing.Auditor) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/audit/status",
			Method:      http.MethodGet,
			Handler:     GetAuditStatus(scheduler),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/audit/run",
			Method:      http.MethodPost,
			Handler:     RunAudit(scheduler),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/audit/preview",
			Method:      http.MethodGet,
			Handler:     PreviewAudit(auditor),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
