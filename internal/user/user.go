package user

import "time"

// User is a registered recipient of broadcasts. Contact fields may be empty
// for legacy rows; callers decide what an empty destination means.
type User struct {
	ID             int       `json:"userId"`
	Email          string    `json:"email"`
	WhatsAppNumber string    `json:"whatsappNumber"`
	DOB            time.Time `json:"dob"`
	Password       string    `json:"password,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}
