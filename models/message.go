package models

import (
	"time"
)

// Message is an inbound direct message; replied flips once a reply is sent
type Message struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Replied   bool      `json:"replied"`
	Reply     string    `json:"reply,omitempty"`
}

type SimulateMessageRequest struct {
	From    string `json:"from" binding:"required,max=64"`
	Message string `json:"message" binding:"required,min=1,max=2000"`
}
