package models

// Model is a vehicle model offered by the dealership.
type Model struct {
	ID    int
	Name  string
	Brand string
}
