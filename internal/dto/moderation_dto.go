package dto

import (
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/google/uuid"
)

type BlockRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Reason string    `json:"reason" validate:"required,max=1000"`
}

type UnblockUserRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

type SubmitUnblockRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

// BlockRecordResponse is a block record with the user's unblock requests.
type BlockRecordResponse struct {
	models.BlockRecord
	UnblockRequests []models.UnblockRequest `json:"unblock_requests"`
}

type CreateReportRequest struct {
	ReportedID uuid.UUID `json:"reported_id" validate:"required"`
	Reason     string    `json:"reason" validate:"required,max=500"`
}

type ActionReportRequest struct {
	Status    string `json:"status" validate:"required,oneof=reviewed actioned dismissed"`
	AdminNote string `json:"admin_note" validate:"max=1000"`
}

type WarnRequest struct {
	UserID  uuid.UUID `json:"user_id" validate:"required"`
	Message string    `json:"message" validate:"required,max=1000"`
}

type StatsResponse struct {
	Users          int64 `json:"users"`
	Donors         int64 `json:"donors"`
	Admins         int64 `json:"admins"`
	Blocked        int64 `json:"blocked"`
	BlockRecords   int64 `json:"block_records"`
	PendingReports int64 `json:"pending_reports"`
}
