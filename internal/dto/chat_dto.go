package dto

import "time"

type SendChatRequest struct {
	Message string `json:"message" validate:"required"`
	// Optional product row whose image the message is about.
	RowIndex *int `json:"row_index,omitempty" validate:"omitempty,min=0"`
}

type ChatMessageDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SendChatResponse struct {
	Sent  *ChatMessageDTO `json:"sent"`
	Reply *ChatMessageDTO `json:"reply"`
}

type GetChatHistoryResponse struct {
	Messages []ChatMessageDTO `json:"messages"`
}

type GenerateImageRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type GenerateImageResponse struct {
	ImageURL string `json:"image_url"`
}
