package http

import "github.com/shopspring/decimal"

type ListOrdersQuery struct {
	Status string `form:"status"`
	UserID string `form:"user_id"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type InitializePaymentRequest struct {
	Email       string          `json:"email" binding:"required,email"`
	Amount      decimal.Decimal `json:"amount"`
	CallbackURL string          `json:"callbackUrl"`
}

type InitializePaymentResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type NotificationsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}
