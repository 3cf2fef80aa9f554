package dto

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type SetAPIKeyRequest struct {
	ApiKey string `json:"api_key" validate:"required"`
}
