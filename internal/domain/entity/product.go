package entity

import "time"

type Product struct {
	ID          string   `json:"id" firestore:"id"`
	Title       string   `json:"title" firestore:"title"`
	Description string   `json:"description" firestore:"description"`
	Price       float64  `json:"price" firestore:"price"`
	Image       string   `json:"image" firestore:"image"`
	Categories  []string `json:"categories" firestore:"categories"`
	Sizes       []string `json:"sizes,omitempty" firestore:"sizes,omitempty"`
	Colors      []string `json:"colors,omitempty" firestore:"colors,omitempty"`

	// Stock is the available quantity. It never goes below zero; decrements
	// are clamped at the repository layer.
	Stock int `json:"stock" firestore:"stock"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
