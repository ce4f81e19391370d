package models

import "time"

// NotificationChannel enumerates outbound delivery channels.
type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "email"
	ChannelWhatsApp NotificationChannel = "whatsapp"
)

// NotificationStatus records the outcome of a dispatch attempt.
type NotificationStatus string

const (
	NotificationStatusSent   NotificationStatus = "sent"
	NotificationStatusFailed NotificationStatus = "failed"
)

// NotificationMessage is a rendered message ready for dispatch.
type NotificationMessage struct {
	Channel   NotificationChannel `json:"channel"`
	Recipient string              `json:"recipient"`
	Subject   string              `json:"subject"`
	Body      string              `json:"body"`
}

// NotificationLog is the persisted record of a dispatch attempt.
type NotificationLog struct {
	ID        string              `db:"id" json:"id"`
	Channel   NotificationChannel `db:"channel" json:"channel"`
	Recipient string              `db:"recipient" json:"recipient"`
	Subject   string              `db:"subject" json:"subject"`
	Status    NotificationStatus  `db:"status" json:"status"`
	Error     *string             `db:"error" json:"error,omitempty"`
	CreatedAt time.Time           `db:"created_at" json:"created_at"`
}
