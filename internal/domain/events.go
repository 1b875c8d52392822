package domain

import "time"

type OrderSubmittedEvent struct {
	SessionID string    `json:"session_id"`
	PartID    string    `json:"part_id"`
	Quantity  int       `json:"quantity"`
	Expedite  bool      `json:"expedite"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderConfirmedEvent struct {
	SessionID  string    `json:"session_id"`
	QuoteID    string    `json:"quote_id"`
	PartName   string    `json:"part_name"`
	Facility   string    `json:"facility"`
	Quantity   int       `json:"quantity"`
	TotalPrice Price     `json:"total_price"`
	Timestamp  time.Time `json:"timestamp"`
}
