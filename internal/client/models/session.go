// Package models defines client-side data models used by the sessionkeeper CLI.
package models

// Session is the locally persisted sign-in state. There is at most one.
type Session struct {
	IDToken      string
	RefreshToken string
}

// Product is the protected demo resource returned by the server.
type Product struct {
	Title        string  `json:"title"`
	CurrentPrice float64 `json:"current_price"`
	Image        string  `json:"image"`
}
