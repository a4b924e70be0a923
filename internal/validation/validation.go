// Package validation implements the payment-method input rules: VPA syntax,
// card number (Luhn), network detection, expiry and CVV checks. All
// functions are pure; persistence and HTTP concerns live elsewhere.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Error codes attached to validation failures. The payment service maps
// these onto the HTTP error body unchanged.
const (
	CodeInvalidVPA  = "INVALID_VPA"
	CodeInvalidCard = "INVALID_CARD"
	CodeExpiredCard = "EXPIRED_CARD"
)

// Error is a validation failure with its wire-level code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// CardDetails is the raw card input under validation.
type CardDetails struct {
	Number      string
	ExpiryMonth string
	ExpiryYear  string
	CVV         string
	HolderName  string
}

// CardInfo is the derived, storable portion of a validated card: the
// detected network and the last four digits. The full number and CVV are
// discarded after validation.
type CardInfo struct {
	Network string
	Last4   string
}

var (
	vpaPattern    = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9]+$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
)

// ValidateVPA checks a UPI Virtual Payment Address (user@bank form).
func ValidateVPA(vpa string) *Error {
	if vpa == "" {
		return &Error{Code: CodeInvalidVPA, Message: "VPA is required"}
	}
	if !vpaPattern.MatchString(vpa) {
		return &Error{Code: CodeInvalidVPA, Message: "Invalid VPA format. VPA must be in format: username@bank"}
	}
	return nil
}

// stripSeparators removes the spaces and dashes users type into card fields.
func stripSeparators(number string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)
}

// ValidateCardNumber checks digits, length (13-19) and the Luhn checksum.
func ValidateCardNumber(number string) *Error {
	if number == "" {
		return &Error{Code: CodeInvalidCard, Message: "Card number is required"}
	}

	cleaned := stripSeparators(number)
	if !digitsPattern.MatchString(cleaned) {
		return &Error{Code: CodeInvalidCard, Message: "Card number must contain only digits"}
	}
	if len(cleaned) < 13 || len(cleaned) > 19 {
		return &Error{Code: CodeInvalidCard, Message: "Card number must be between 13 and 19 digits"}
	}

	// Luhn: double every second digit from the right, subtract 9 when the
	// doubled digit exceeds 9, and require the sum to be divisible by 10.
	sum := 0
	double := false
	for i := len(cleaned) - 1; i >= 0; i-- {
		digit := int(cleaned[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	if sum%10 != 0 {
		return &Error{Code: CodeInvalidCard, Message: "Invalid card number"}
	}
	return nil
}

// DetectCardNetwork classifies a card number by its leading digits. The
// result is informational only and never blocks validity.
func DetectCardNetwork(number string) string {
	cleaned := stripSeparators(number)
	if cleaned == "" {
		return "unknown"
	}

	if cleaned[0] == '4' {
		return "visa"
	}
	if len(cleaned) < 2 {
		return "unknown"
	}

	firstTwo := cleaned[:2]
	firstTwoNum, err := strconv.Atoi(firstTwo)
	if err != nil {
		return "unknown"
	}
	switch {
	case firstTwoNum >= 51 && firstTwoNum <= 55:
		return "mastercard"
	case firstTwo == "34" || firstTwo == "37":
		return "amex"
	case firstTwo == "60" || firstTwo == "65" || (firstTwoNum >= 81 && firstTwoNum <= 89):
		return "rupay"
	}
	return "unknown"
}

// ValidateExpiry checks a month/year pair at month granularity against
// "now". Two-digit years are interpreted as 20YY.
func ValidateExpiry(month, year string, now time.Time) *Error {
	if month == "" || year == "" {
		return &Error{Code: CodeExpiredCard, Message: "Expiry month and year are required"}
	}

	monthNum, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return &Error{Code: CodeExpiredCard, Message: "Invalid expiry month"}
	}

	yearNum, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return &Error{Code: CodeExpiredCard, Message: "Invalid expiry year"}
	}
	if yearNum < 100 {
		yearNum += 2000
	}

	currentYear, currentMonth := now.Year(), int(now.Month())
	if yearNum < currentYear || (yearNum == currentYear && monthNum < currentMonth) {
		return &Error{Code: CodeExpiredCard, Message: "Card has expired"}
	}
	return nil
}

// ValidateCVV checks the CVV digits. Both 3- and 4-digit CVVs pass for
// every network; the amex-specific length is not strictly enforced,
// matching the behavior the checkout flow was built against.
func ValidateCVV(cvv, network string) *Error {
	if cvv == "" {
		return &Error{Code: CodeInvalidCard, Message: "CVV is required"}
	}

	cleaned := strings.ReplaceAll(cvv, " ", "")
	if !digitsPattern.MatchString(cleaned) {
		return &Error{Code: CodeInvalidCard, Message: "CVV must contain only digits"}
	}

	expected := 3
	if network == "amex" {
		expected = 4
	}
	if len(cleaned) != expected && len(cleaned) != 3 && len(cleaned) != 4 {
		return &Error{Code: CodeInvalidCard, Message: "Invalid CVV length"}
	}
	return nil
}

// CardLast4 returns the last four digits of a card number.
func CardLast4(number string) string {
	cleaned := stripSeparators(number)
	if len(cleaned) < 4 {
		return cleaned
	}
	return cleaned[len(cleaned)-4:]
}

// ValidateCard runs the full card check in order (number, network detection,
// expiry, CVV, holder name), short-circuiting on the first failure.
func ValidateCard(card CardDetails, now time.Time) (CardInfo, *Error) {
	if err := ValidateCardNumber(card.Number); err != nil {
		return CardInfo{}, err
	}

	network := DetectCardNetwork(card.Number)

	if err := ValidateExpiry(card.ExpiryMonth, card.ExpiryYear, now); err != nil {
		return CardInfo{}, err
	}
	if err := ValidateCVV(card.CVV, network); err != nil {
		return CardInfo{}, err
	}
	if strings.TrimSpace(card.HolderName) == "" {
		return CardInfo{}, &Error{Code: CodeInvalidCard, Message: "Card holder name is required"}
	}

	return CardInfo{Network: network, Last4: CardLast4(card.Number)}, nil
}
