package models

import "time"

// ConnectionStatus is the handshake state of a member-to-member link.
type ConnectionStatus string

const (
	ConnectionPending   ConnectionStatus = "PENDING"
	ConnectionAccepted  ConnectionStatus = "ACCEPTED"
	ConnectionRejected  ConnectionStatus = "REJECTED"
	ConnectionCancelled ConnectionStatus = "CANCELLED"
	ConnectionExpired   ConnectionStatus = "EXPIRED"
)

// Connection is a directional request from Sender to Receiver; once accepted
// it is treated as a bidirectional link.
type Connection struct {
	ID         int              `json:"id"`
	SenderID   int              `json:"sender_id"`
	ReceiverID int              `json:"receiver_id"`
	Status     ConnectionStatus `json:"status"`
	ExpiresAt  time.Time        `json:"expires_at"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// EffectiveStatus folds expiry into the stored state: a pending request past
// its expiry date reads as expired.
func (c *Connection) EffectiveStatus(now time.Time) ConnectionStatus {
	if c.Status == ConnectionPending && now.After(c.ExpiresAt) {
		return ConnectionExpired
	}
	return c.Status
}

// Incoming reports whether the request points at the viewer.
func (c *Connection) Incoming(viewerID int) bool {
	return c.ReceiverID == viewerID
}
