package dto

import "github.com/shopspring/decimal"

// SePayWebhookRequest cuerpo que envía SePay en cada movimiento de la cuenta.
type SePayWebhookRequest struct {
	ID              int64           `json:"id"`
	Gateway         string          `json:"gateway"`
	TransactionDate string          `json:"transactionDate"`
	AccountNumber   string          `json:"accountNumber"`
	Code            *string         `json:"code"`
	Content         string          `json:"content"`
	TransferType    string          `json:"transferType"`
	TransferAmount  decimal.Decimal `json:"transferAmount"`
	Accumulated     decimal.Decimal `json:"accumulated"`
	SubAccount      *string         `json:"subAccount"`
	ReferenceCode   string          `json:"referenceCode"`
	Description     string          `json:"description"`
}

// WebhookResult resultado de procesar la notificación.
type WebhookResult struct {
	Outcome string `json:"outcome"`
	OrderID string `json:"orderId,omitempty"`
}
