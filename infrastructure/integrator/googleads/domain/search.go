package googleadsdomain

// SearchStreamRequest é o corpo enviado ao endpoint googleAds:searchStream
type SearchStreamRequest struct {
	Query string `json:"query"`
}

// SearchStreamBatch é um dos lotes retornados pelo searchStream. Cada resultado
// é um objeto aninhado por recurso com os campos em camelCase.
type SearchStreamBatch struct {
	Results   []map[string]any `json:"results"`
	FieldMask string           `json:"fieldMask"`
	RequestID string           `json:"requestId"`
}

// TokenResponse representa a resposta do servidor OAuth ao renovar o token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
}
