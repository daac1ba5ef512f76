package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

func cleanPhone(phone string) string {
	r := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	return r.Replace(strings.TrimSpace(phone))
}

// ValidatePhone checks if a phone number looks like an international or national number
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(cleanPhone(phone))
}

var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone parses phone in the given default region and returns it in E.164.
func NormalizePhone(phone, region string) (string, error) {
	cleaned := cleanPhone(phone)
	if !phonePattern.MatchString(cleaned) {
		return "", ErrInvalidPhone
	}
	num, err := phonenumbers.Parse(cleaned, region)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// PhoneNormalizer binds NormalizePhone to a region.
func PhoneNormalizer(region string) func(string) (string, error) {
	return func(phone string) (string, error) {
		return NormalizePhone(phone, region)
	}
}
