package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int                    `json:"code" example:"422"`
	Category string                 `json:"category" example:"INSUFFICIENT_STOCK"`
	Message  string                 `json:"message" example:"Estoque insuficiente do produto 1 no armazém 1. Disponível: 10, solicitado: 11."`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// MessageResponse é usada nas confirmações sem corpo de entidade (cancelamento, exclusão).
type MessageResponse struct {
	Message string `json:"message"`
}
