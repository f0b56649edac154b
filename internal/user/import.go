package user

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
)

const dobLayout = "2006-01-02"

// ImportRecord is one entry of a user import file.
type ImportRecord struct {
	Email          string `json:"email" validate:"required,email"`
	WhatsAppNumber string `json:"whatsappNumber" validate:"required"`
	DOB            string `json:"dob" validate:"required,datetime=2006-01-02"`
	Password       string `json:"password" validate:"required"`
}

var validate = validator.New()

// DecodeImport reads a JSON array of import records.
func DecodeImport(r io.Reader) ([]ImportRecord, error) {
	var records []ImportRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode import file: %w", err)
	}
	return records, nil
}

// ToUser validates the record and converts it into a User ready for Register.
func (rec ImportRecord) ToUser() (User, error) {
	if err := validate.Struct(rec); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	dob, err := time.Parse(dobLayout, rec.DOB)
	if err != nil {
		return User{}, fmt.Errorf("%w: dob: %v", ErrInvalidInput, err)
	}

	return User{
		Email:          rec.Email,
		WhatsAppNumber: rec.WhatsAppNumber,
		DOB:            dob,
		Password:       rec.Password,
	}, nil
}
