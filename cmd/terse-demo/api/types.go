// Package api holds the data and persistence behind the terse-demo server.
package api

import "time"

// User is a sample directory entry. Field order is the JSON member order.
type User struct {
	ID           int     `json:"id"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	EmailAddress string  `json:"emailAddress"`
	IsActive     bool    `json:"isActive"`
	Address      Address `json:"address"`
}

// Address is the postal address of a User.
type Address struct {
	StreetName string `json:"streetName"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Order is a sample order with nested line items.
type Order struct {
	OrderNumber string     `json:"orderNumber"`
	CustomerID  int        `json:"customerId"`
	CreatedAt   string     `json:"createdAt"`
	LineItems   []LineItem `json:"lineItems"`
	TotalAmount string     `json:"totalAmount"`
}

// LineItem is one product in an Order.
type LineItem struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
}

// EventView is the JSON form of a recorded metrics event.
type EventView struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Endpoint        string    `json:"endpoint"`
	Decision        string    `json:"decision"`
	OriginalBytes   int       `json:"originalBytes"`
	CompressedBytes int       `json:"compressedBytes"`
	SavedBytes      int       `json:"savedBytes"`
	Objects         int       `json:"objects"`
	Elements        int       `json:"elements"`
	Keys            int       `json:"keys"`
	Version         int       `json:"version,omitempty"`
	Pattern         string    `json:"pattern,omitempty"`
	ShapeHash       string    `json:"shapeHash,omitempty"`
}

// EndpointSummary aggregates the events of one endpoint.
type EndpointSummary struct {
	Endpoint        string  `json:"endpoint"`
	Requests        int     `json:"requests"`
	Encoded         int     `json:"encoded"`
	OriginalBytes   int     `json:"originalBytes"`
	CompressedBytes int     `json:"compressedBytes"`
	SavedPercent    float64 `json:"savedPercent"`
}
