package googleadsdomain

import "fmt"

// ErrorResponse representa a estrutura de erro da API do Google Ads
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API do Google Ads
type ErrorDetails struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
	Details []any  `json:"details,omitempty"`
}

// IsUnauthenticated verifica se o erro é de token inválido ou expirado
func (e *ErrorResponse) IsUnauthenticated() bool {
	return e.Error.Code == 401 || e.Error.Status == "UNAUTHENTICATED"
}

func (e *ErrorResponse) String() string {
	return fmt.Sprintf("%d %s: %s", e.Error.Code, e.Error.Status, e.Error.Message)
}
