package entity

import "time"

type Customer struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Email       string `json:"email" db:"email"`
	PhoneNumber string `json:"phone_number" db:"phone_number"`
}

type Taxi struct {
	ID           int64  `json:"id" db:"id"`
	Registration string `json:"registration" db:"registration"`
	Seats        int    `json:"seats" db:"seats"`
}

type TaxiBooking struct {
	ID         int64     `json:"id" db:"id"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	TaxiID     int64     `json:"taxi_id" db:"taxi_id"`
	Date       time.Time `json:"date" db:"booking_date"`
}
