package domain

// Office is a dentist office record as delivered by the external registry.
// The whole collection is overwritten on every successful registry sync,
// so the struct mirrors the registry document field for field.
type Office struct {
	ID           int               `json:"id" bson:"id"`
	Name         string            `json:"name" bson:"name"`
	Owner        string            `json:"owner" bson:"owner"`
	Dentists     int               `json:"dentists" bson:"dentists"`
	Address      string            `json:"address" bson:"address"`
	City         string            `json:"city" bson:"city"`
	Coordinate   Coordinate        `json:"coordinate" bson:"coordinate"`
	OpeningHours map[string]string `json:"openinghours" bson:"openinghours"`
}

type Coordinate struct {
	Longitude float64 `json:"longitude" bson:"longitude"`
	Latitude  float64 `json:"latitude" bson:"latitude"`
}

// Reservation is a booked appointment written by the external booking
// subsystem. The office id is stored as a string and the time as
// "YYYY-MM-DD HH:MM". Reservations are read-only facts here; one
// reservation occupies one dentist for its half hour.
type Reservation struct {
	DentistID string `json:"dentistid" bson:"dentistid"`
	Time      string `json:"time" bson:"time"`
}

// Query is an inbound request message from the broker.
type Query struct {
	Method string `json:"method"`
	ID     int    `json:"id,omitempty"`
	Date   string `json:"date,omitempty"`
}

// Weekdays lists the days an office can be open, in calendar order.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
