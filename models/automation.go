package models

import "time"

// AutomationConfig lives for the duration of one automation run
type AutomationConfig struct {
	Username        string `json:"username"`
	AutoPost        bool   `json:"autoPost"`
	PostingInterval int    `json:"postingInterval"` // in hours, 1..24
}

// StartAutomationRequest is the body of POST /automation/start
type StartAutomationRequest struct {
	Username        string `json:"username"`
	AutoPost        bool   `json:"autoPost"`
	PostingInterval *int   `json:"postingInterval"`
}

// InstagramStatus is the connection snapshot of the social service
type InstagramStatus struct {
	IsConnected     bool   `json:"isConnected"`
	Username        string `json:"username,omitempty"`
	PostCount       int    `json:"postCount"`
	MessageCount    int    `json:"messageCount"`
	PendingMessages int    `json:"pendingMessages"`
}

// AutomationStatus is the controller snapshot
type AutomationStatus struct {
	IsRunning         bool              `json:"isRunning"`
	Config            *AutomationConfig `json:"config"`
	Instagram         InstagramStatus   `json:"instagram"`
	NextPost          *time.Time        `json:"nextPost"`
	NextScheduledPost *time.Time        `json:"nextScheduledPost"`
}

// ReplyReport summarizes one message-check cycle
type ReplyReport struct {
	Pending int `json:"pending"`
	Replied int `json:"replied"`
	Failed  int `json:"failed"`
}
