package models

// Provider is a dispatching entity that supplies ride requests.
type Provider struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Unit is a vehicle/operator entity that performs rides.
type Unit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
