// Package models defines the persisted entity shapes of the whitening store.
// Each struct maps to one document collection; the collection name is the
// lowercased entity name.
package models

import (
	"reflect"
	"strings"
)

// Collection names, one table per entity kind.
const (
	ProductCollection    = "whiteningproduct"
	OrderCollection      = "order"
	SubscriberCollection = "subscriber"
)

// Product is a teeth-whitening product (strips, kits).
type Product struct {
	Title          string   `json:"title" dynamodbav:"title" validate:"required"`
	Subtitle       string   `json:"subtitle,omitempty" dynamodbav:"subtitle,omitempty"`
	Description    string   `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Price          float64  `json:"price" dynamodbav:"price" validate:"gte=0"`
	CompareAtPrice *float64 `json:"compare_at_price,omitempty" dynamodbav:"compare_at_price,omitempty" validate:"omitempty,gte=0"`
	Image          string   `json:"image,omitempty" dynamodbav:"image,omitempty" validate:"omitempty,url"`
	Gallery        []string `json:"gallery" dynamodbav:"gallery,omitempty"`
	Badges         []string `json:"badges" dynamodbav:"badges,omitempty"`
	InStock        bool     `json:"in_stock" dynamodbav:"in_stock"`
}

// OrderItem is one line of an order. Title and unit price are copied from the
// product at order time, not re-derived; product_id is not checked for existence.
// UnitPrice is a pointer so an omitted field fails `required` instead of
// decoding to a valid 0; Quantity distinguishes absent (defaults to 1, see
// ApplyDefaults) from an explicit 0, which is rejected.
type OrderItem struct {
	ProductID string   `json:"product_id" dynamodbav:"product_id" validate:"required"`
	Title     string   `json:"title" dynamodbav:"title" validate:"required"`
	UnitPrice *float64 `json:"unit_price" dynamodbav:"unit_price" validate:"required,gte=0"`
	Quantity  *int     `json:"quantity" dynamodbav:"quantity" validate:"omitempty,min=1"`
}

// Order is a placed checkout order. Subtotal, shipping and total are all
// caller-supplied; the only cross-field rule (total >= subtotal) is enforced
// by the handler before persistence. Subtotal and total are pointers so their
// presence is validated, not just their range.
type Order struct {
	Email          string      `json:"email" dynamodbav:"email" validate:"required,email"`
	FullName       string      `json:"full_name" dynamodbav:"full_name" validate:"required"`
	AddressLine1   string      `json:"address_line1" dynamodbav:"address_line1" validate:"required"`
	AddressLine2   string      `json:"address_line2,omitempty" dynamodbav:"address_line2,omitempty"`
	City           string      `json:"city" dynamodbav:"city" validate:"required"`
	Region         string      `json:"region,omitempty" dynamodbav:"region,omitempty"`
	PostalCode     string      `json:"postal_code" dynamodbav:"postal_code" validate:"required"`
	Country        string      `json:"country" dynamodbav:"country" validate:"required"`
	Items          []OrderItem `json:"items" dynamodbav:"items" validate:"required,min=1,dive"`
	Subtotal       *float64    `json:"subtotal" dynamodbav:"subtotal" validate:"required,gte=0"`
	Shipping       float64     `json:"shipping" dynamodbav:"shipping" validate:"gte=0"`
	Total          *float64    `json:"total" dynamodbav:"total" validate:"required,gte=0"`
	MarketingOptIn bool        `json:"marketing_opt_in" dynamodbav:"marketing_opt_in"`
}

// ApplyDefaults fills schema defaults for fields the payload omitted:
// item quantity defaults to 1. An explicit quantity is never touched; zero is
// already rejected by validation.
func (o *Order) ApplyDefaults() {
	for i := range o.Items {
		if o.Items[i].Quantity == nil {
			one := 1
			o.Items[i].Quantity = &one
		}
	}
}

// Subscriber is an email capture (newsletter/discounts). Duplicates are allowed.
type Subscriber struct {
	Email  string `json:"email" dynamodbav:"email" validate:"required,email"`
	Source string `json:"source,omitempty" dynamodbav:"source,omitempty"` // where the signup happened (e.g. hero, footer)
}

// FieldNames returns the entity's JSON field names in declaration order.
// Used by the /schema route to expose shape metadata without touching the store.
func FieldNames(entity interface{}) []string {
	t := reflect.TypeOf(entity)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		names = append(names, tag)
	}
	return names
}

// DefaultProduct is the product seeded into an empty catalog so the storefront
// always has something to render.
func DefaultProduct() Product {
	compareAt := 39.0
	return Product{
		Title:    "Pro Whitening Strips",
		Subtitle: "Powerful, enamel-safe whitening in 14 days",
		Description: "Clinically proven to remove years of stains with zero sensitivity. " +
			"Mint-fresh strips that mold to your smile.",
		Price:          29.0,
		CompareAtPrice: &compareAt,
		Image:          "https://images.unsplash.com/photo-1605497787939-b4d9f29c67a2?w=1200&q=80&auto=format&fit=crop",
		Gallery: []string{
			"https://images.unsplash.com/photo-1588776814546-1ffcf47267a5?w=1200&q=80&auto=format&fit=crop",
			"https://images.unsplash.com/photo-1598096969067-3ebbefdf2901?w=1200&q=80&auto=format&fit=crop",
		},
		Badges:  []string{"Enamel-safe", "No sensitivity", "Vegan"},
		InStock: true,
	}
}
