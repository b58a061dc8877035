package model

import (
	"strings"
	"time"
)

// PartialNSNLength is the number of digits in a partial NSN.
const PartialNSNLength = 4

func isLINSeparator(r rune) bool { return r == '/' || r == ',' }

// SplitLIN splits raw LIN values on "/" or ",", trims each piece and drops
// empty ones. Order is preserved.
func SplitLIN(raw ...string) []string {
	var out []string
	for _, s := range raw {
		for _, part := range strings.FieldsFunc(s, isLINSeparator) {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// NormalizePartialNSN strips every non-digit and keeps the first four
// digits. Input with fewer than four digits is rejected rather than padded,
// so "12" never silently becomes "0012".
func NormalizePartialNSN(raw string) (string, error) {
	digits := make([]byte, 0, PartialNSNLength)
	for i := 0; i < len(raw) && len(digits) < PartialNSNLength; i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) < PartialNSNLength {
		return "", ErrInvalidCode
	}
	return string(digits), nil
}

// NormalizeEquipment validates a submitted record and returns it in the
// form it is persisted in. It has no side effects.
func NormalizeEquipment(in EquipmentInput, now time.Time) (*Equipment, error) {
	lin := SplitLIN(in.LIN...)
	nomenclature := strings.TrimSpace(in.Nomenclature)
	if len(lin) == 0 || nomenclature == "" || strings.TrimSpace(in.PartialNSN) == "" {
		return nil, ErrMissingField
	}

	nsn, err := NormalizePartialNSN(in.PartialNSN)
	if err != nil {
		return nil, err
	}

	var image *string
	if in.Image != nil {
		if v := strings.TrimSpace(*in.Image); v != "" {
			image = &v
		}
	}

	return &Equipment{
		LIN:          lin,
		Nomenclature: nomenclature,
		PartialNSN:   nsn,
		AnotherName:  strings.TrimSpace(in.AnotherName),
		Size:         strings.TrimSpace(in.Size),
		Image:        image,
		CreatedAt:    now.UTC(),
	}, nil
}
