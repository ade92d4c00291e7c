package models

import "time"

// Lead is an append-only contact form submission
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateLeadRequest is the public lead form payload
type CreateLeadRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email,max=200"`
	Phone   string `json:"phone" binding:"omitempty,max=100"`
	Message string `json:"message" binding:"omitempty,max=5000"`
	Source  string `json:"source" binding:"omitempty,max=100"`
}

// CreateLeadResponse is returned after a lead is stored
type CreateLeadResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// LeadListResponse is a page of leads, newest first
type LeadListResponse struct {
	Items    []Lead `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

const (
	DefaultLeadPageSize = 20
	MaxLeadPageSize     = 100
)
