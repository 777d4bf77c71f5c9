package model

// Reservation is a booking of one restaurant table for a time slot on a
// given date. Records are immutable once written.
//
// Fields:
//  ID            – random UUID assigned at creation.
//  TableNumber   – Table.Number of the reserved table.
//  ClientName    – name the booking is made under.
//  PhoneNumber   – contact phone.
//  Date          – calendar date, "YYYY-MM-DD".
//  SlotTimeStart – time of day the slot begins, "HH:MM".
//  SlotTimeEnd   – time of day the slot ends, "HH:MM" (exclusive).
type Reservation struct {
	ID            string `json:"id"`
	TableNumber   int    `json:"tableNumber"`
	ClientName    string `json:"clientName"`
	PhoneNumber   string `json:"phoneNumber"`
	Date          string `json:"date"`
	SlotTimeStart string `json:"slotTimeStart"`
	SlotTimeEnd   string `json:"slotTimeEnd"`
}
