package model

import (
	"encoding/json"
	"errors"
	"time"
)

// Equipment is a catalog record. Field names on the wire match the
// documents the catalog was originally populated with.
type Equipment struct {
	ID           string    `json:"id"`
	LIN          []string  `json:"lin"`
	Nomenclature string    `json:"nomenclature"`
	PartialNSN   string    `json:"partialNsn"`
	AnotherName  string    `json:"anotherName"`
	Size         string    `json:"size"`
	Image        *string   `json:"image"`
	CreatedAt    time.Time `json:"createdAt"`
}

// EquipmentInput is a submitted record before normalization.
type EquipmentInput struct {
	LIN          LINInput `json:"lin"`
	Nomenclature string   `json:"nomenclature"`
	PartialNSN   string   `json:"partialNsn"`
	AnotherName  string   `json:"anotherName"`
	Size         string   `json:"size"`
	Image        *string  `json:"image"`
}

// LINInput holds the raw LIN field. Clients send either a single delimited
// string ("DA150J/B14729") or an already split list.
type LINInput []string

// UnmarshalJSON accepts a string or a list of strings.
func (l *LINInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = LINInput{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.New("lin must be a string or a list of strings")
	}
	*l = list
	return nil
}
