package adsclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	googleadsdomain "github.com/vfg2006/conversion-audit/infrastructure/integrator/googleads/domain"
)

func (c *AdsClient) SearchStream(ctx context.Context, query string) ([]googleadsdomain.SearchStreamBatch, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "google ads: limite de requisições")
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.searchStream(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	return result.([]googleadsdomain.SearchStreamBatch), nil
}

func (c *AdsClient) searchStream(ctx context.Context, query string) ([]googleadsdomain.SearchStreamBatch, error) {
	token, err := c.TokenManager.Token(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := jsoniter.Marshal(googleadsdomain.SearchStreamRequest{Query: query})
	if err != nil {
		return nil, errors.Wrap(err, "google ads: erro ao serializar consulta")
	}

	url := fmt.Sprintf("%s/customers/%s/googleAds:searchStream", c.cfg.URL, customerID(c.cfg.CustomerID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "google ads: erro ao criar requisição")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("developer-token", c.cfg.DeveloperToken)
	if c.cfg.LoginCustomerID != "" {
		req.Header.Set("login-customer-id", customerID(c.cfg.LoginCustomerID))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "google ads: erro ao fazer a requisição")
	}
	defer resp.Body.Close()

	body, err := c.HandleResponse(resp)
	if err != nil {
		return nil, err
	}

	var batches []googleadsdomain.SearchStreamBatch
	if err := jsoniter.Unmarshal(body, &batches); err != nil {
		return nil, errors.Wrap(err, "google ads: erro ao decodificar resposta")
	}

	return batches, nil
}

// HandleResponse lê o corpo e converte respostas de erro. Em 401 o token em cache é descartado.
func (c *AdsClient) HandleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "google ads: erro ao ler resposta")
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	errorResp := ParseErrorResponse(body)
	if resp.StatusCode == http.StatusUnauthorized || (errorResp != nil && errorResp.IsUnauthenticated()) {
		logrus.Warn("Access token do Google Ads recusado, descartando token em cache")
		c.TokenManager.Invalidate()
	}

	return nil, &StatusError{StatusCode: resp.StatusCode, Response: errorResp, Body: string(body)}
}

// StatusError é uma resposta da API com status diferente de 200
type StatusError struct {
	StatusCode int
	Response   *googleadsdomain.ErrorResponse
	Body       string
}

func (e *StatusError) Error() string {
	if e.Response != nil {
		return fmt.Sprintf("google ads: erro na resposta da API. Status: %d, Erro: %s", e.StatusCode, e.Response)
	}

	return fmt.Sprintf("google ads: erro na resposta da API. Status: %d, Corpo: %s", e.StatusCode, e.Body)
}

// IsClientError indica erro da própria consulta (4xx), exceto 401 e 429, que
// dependem do estado do token ou da cota e não da consulta
func (e *StatusError) IsClientError() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusTooManyRequests:
		return false
	}

	return e.StatusCode >= 400 && e.StatusCode < 500
}

// ParseErrorResponse aceita o erro como objeto ou como o primeiro item de uma lista,
// formato usado pelo searchStream
func ParseErrorResponse(body []byte) *googleadsdomain.ErrorResponse {
	var single googleadsdomain.ErrorResponse
	if err := jsoniter.Unmarshal(body, &single); err == nil && single.Error.Code != 0 {
		return &single
	}

	var list []googleadsdomain.ErrorResponse
	if err := jsoniter.Unmarshal(body, &list); err == nil && len(list) > 0 && list[0].Error.Code != 0 {
		return &list[0]
	}

	return nil
}
