package domain

import (
	"time"

	"numis/console/internal/platform/jsontime"
)

// Action is the kind of change an audit record captures.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionImport    Action = "import"
	ActionAdjustIn  Action = "adjust_in"
	ActionAdjustOut Action = "adjust_out"
)

// CoinRef is the coin summary embedded in an audit record when the coin still exists.
type CoinRef struct {
	ID        int64  `json:"id"`
	Country   string `json:"country"`
	Year      *int   `json:"year"`
	FaceValue string `json:"face_value"`
}

// AuditLog is one immutable audit record produced by the backend.
type AuditLog struct {
	ID            int64         `json:"id"`
	CoinID        *int64        `json:"coin_id"`
	Action        Action        `json:"action"`
	DeltaQuantity *int          `json:"delta_quantity"`
	Before        Object        `json:"before"`
	After         Object        `json:"after"`
	Note          string        `json:"note"`
	ActorUserID   *int64        `json:"actor_user_id"`
	ActorEmail    string        `json:"actor_email"`
	CreatedAt     jsontime.Time `json:"created_at"`
	Coin          *CoinRef      `json:"coin"`
}

// Filter narrows an audit log listing. Zero fields are not sent.
type Filter struct {
	Page       int
	PageSize   int
	Action     Action
	CoinID     int64
	ActorEmail string
	DateFrom   time.Time
	DateTo     time.Time
}

// Page is one page of audit records.
type Page struct {
	Data []AuditLog `json:"data"`
	Meta PageMeta   `json:"meta"`
}

// PageMeta mirrors the backend pagination block.
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
