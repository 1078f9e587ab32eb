package dto

import (
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/google/uuid"
)

type ThanksRequest struct {
	DonorID uuid.UUID `json:"donor_id" validate:"required"`
	Message string    `json:"message" validate:"required,max=500"`
}

type VoteRequest struct {
	DonorID uuid.UUID `json:"donor_id" validate:"required"`
	Vote    string    `json:"vote" validate:"required,oneof=up down"`
	Comment string    `json:"comment" validate:"max=500"`
}

type VoteSummary struct {
	DonorID uuid.UUID         `json:"donor_id"`
	Tally   store.VoteTally   `json:"tally"`
	Mine    *models.DonorVote `json:"mine,omitempty"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatReply struct {
	Question *models.ChatMessage `json:"question"`
	Answer   *models.ChatMessage `json:"answer"`
	Gated    bool                `json:"gated"`
}
