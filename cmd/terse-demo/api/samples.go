package api

import (
	"fmt"
	"time"
)

var (
	firstNames = []string{"Ada", "Alan", "Grace", "Edsger", "Barbara", "Donald", "Frances", "Ken"}
	lastNames  = []string{"Lovelace", "Turing", "Hopper", "Dijkstra", "Liskov", "Knuth", "Allen", "Thompson"}
	cities     = []string{"London", "Wilmslow", "Arlington", "Nuenen", "Boston", "Stanford", "Peru", "Berkeley"}
	products   = []string{"Keyboard", "Monitor", "Cable", "Notebook", "Headset"}
)

// MaxSampleSize caps the number of generated records per request.
const MaxSampleSize = 1000

// SampleUsers returns n deterministic users.
func SampleUsers(n int) []User {
	n = clampSize(n)
	users := make([]User, n)
	for i := range users {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames))%len(lastNames)]
		users[i] = User{
			ID:           i + 1,
			FirstName:    first,
			LastName:     last,
			EmailAddress: fmt.Sprintf("%s.%s%d@example.com", first, last, i+1),
			IsActive:     i%3 != 0,
			Address: Address{
				StreetName: fmt.Sprintf("%d Main Street", 10+i),
				City:       cities[i%len(cities)],
				PostalCode: fmt.Sprintf("%05d", 10000+i*7),
				Country:    "GB",
			},
		}
	}
	return users
}

// SampleOrders returns n deterministic orders with one to three line items
// each.
func SampleOrders(n int) []Order {
	n = clampSize(n)
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	orders := make([]Order, n)
	for i := range orders {
		items := make([]LineItem, 1+i%3)
		var cents int
		for j := range items {
			price := 499 + 250*((i+j)%5)
			qty := 1 + (i+j)%4
			items[j] = LineItem{
				ProductName: products[(i+j)%len(products)],
				Quantity:    qty,
				UnitPrice:   formatCents(price),
			}
			cents += price * qty
		}
		orders[i] = Order{
			OrderNumber: fmt.Sprintf("ORD-%06d", i+1),
			CustomerID:  1 + i%50,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
			LineItems:   items,
			TotalAmount: formatCents(cents),
		}
	}
	return orders
}

func clampSize(n int) int {
	return min(max(n, 0), MaxSampleSize)
}

func formatCents(c int) string {
	return fmt.Sprintf("%d.%02d", c/100, c%100)
}
