package domain

// Notification é uma mensagem enviada ao final de uma execução. Apenas um dos
// corpos é preenchido: HTML para o relatório, texto para o aviso de erro.
type Notification struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}
