// Package validate implements the field rules applied to booking input
// before the writer is called.  Failures are field-scoped and carry a
// localized message in Arabic or English; the caller picks the language
// from the request.  The booking writer itself trusts this layer for
// format rules and re-checks only layout bounds and availability.
package validate

import (
	"regexp"
	"strings"

	"github.com/omarhegazy/event-ticketing/internal/model"
)

// MaxSeatsPerBooking bounds how many seats one booking may claim.  It
// keeps the seat picker manageable, it is not a business rule.
const MaxSeatsPerBooking = 10

// Supported message languages.
const (
	LangEN = "en"
	LangAR = "ar"
)

var (
	// Egyptian mobile numbers: literally "01" then nine digits, after
	// stripping whitespace.  "+20..." forms are rejected on purpose.
	phoneRe = regexp.MustCompile(`^01[0-9]{9}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	wsRe    = regexp.MustCompile(`\s+`)
)

// FieldError describes one failed rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// messages maps error code -> language -> user-facing text.
var messages = map[string]map[string]string{
	"name_too_short": {
		LangEN: "Please enter your full name (at least 2 characters).",
		LangAR: "من فضلك أدخل اسمك الكامل (حرفان على الأقل).",
	},
	"phone_invalid": {
		LangEN: "Phone number must be 11 digits starting with 01.",
		LangAR: "رقم الهاتف يجب أن يكون 11 رقمًا ويبدأ بـ 01.",
	},
	"email_invalid": {
		LangEN: "Please enter a valid email address.",
		LangAR: "من فضلك أدخل بريدًا إلكترونيًا صحيحًا.",
	},
	"quantity_invalid": {
		LangEN: "Requested quantity is out of range.",
		LangAR: "عدد التذاكر المطلوب غير صالح.",
	},
	"seats_mismatch": {
		LangEN: "Selected seats must match the requested quantity.",
		LangAR: "عدد المقاعد المختارة يجب أن يساوي عدد التذاكر المطلوب.",
	},
	"seats_duplicate": {
		LangEN: "The same seat was selected more than once.",
		LangAR: "تم اختيار نفس المقعد أكثر من مرة.",
	},
	"payment_method_invalid": {
		LangEN: "Unknown payment method.",
		LangAR: "طريقة الدفع غير معروفة.",
	},
}

// NormalizeLang maps an arbitrary language tag to one of the supported
// languages, defaulting to Arabic (the site's primary audience).
func NormalizeLang(lang string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(lang)), "en") {
		return LangEN
	}
	return LangAR
}

func fieldError(field, code, lang string) FieldError {
	msg := messages[code][lang]
	if msg == "" {
		msg = messages[code][LangEN]
	}
	return FieldError{Field: field, Code: code, Message: msg}
}

// NormalizePhone strips all whitespace from a phone number.  Validation
// runs on the normalized form, and the normalized form is what gets
// stored.
func NormalizePhone(phone string) string {
	return wsRe.ReplaceAllString(phone, "")
}

// PaymentMethods lists the accepted off-band payment channels.
var PaymentMethods = map[string]bool{
	"vodafone_cash": true,
	"instapay":      true,
	"bank_transfer": true,
}

// BookingRequest is the pre-validation shape of a create-booking call.
type BookingRequest struct {
	Name          string
	Phone         string
	Email         string
	Quantity      int
	Seats         []model.SeatRef
	PaymentMethod string
}

// BookingInput validates a booking request against all field rules and
// the available-seat count.  It returns the full list of field errors so
// the client can surface every problem at once; an empty slice means the
// request may proceed to the writer.
func BookingInput(req BookingRequest, remaining int, lang string) []FieldError {
	lang = NormalizeLang(lang)
	errs := make([]FieldError, 0)

	if len(strings.TrimSpace(req.Name)) < 2 {
		errs = append(errs, fieldError("name", "name_too_short", lang))
	}
	if !phoneRe.MatchString(NormalizePhone(req.Phone)) {
		errs = append(errs, fieldError("phone", "phone_invalid", lang))
	}
	if req.Email != "" && !emailRe.MatchString(req.Email) {
		errs = append(errs, fieldError("email", "email_invalid", lang))
	}
	if req.Quantity < 1 || req.Quantity > ClampQuantity(req.Quantity, remaining) {
		errs = append(errs, fieldError("quantity", "quantity_invalid", lang))
	}
	if len(req.Seats) != req.Quantity {
		errs = append(errs, fieldError("seats", "seats_mismatch", lang))
	}
	seen := make(map[model.SeatRef]struct{}, len(req.Seats))
	for _, s := range req.Seats {
		if _, dup := seen[s]; dup {
			errs = append(errs, fieldError("seats", "seats_duplicate", lang))
			break
		}
		seen[s] = struct{}{}
	}
	if !PaymentMethods[req.PaymentMethod] {
		errs = append(errs, fieldError("payment_method", "payment_method_invalid", lang))
	}
	return errs
}

// ClampQuantity bounds a requested ticket quantity to
// [1, min(remaining, MaxSeatsPerBooking)].  A non-positive remaining
// yields 0: nothing can be requested.
func ClampQuantity(requested, remaining int) int {
	max := remaining
	if max > MaxSeatsPerBooking {
		max = MaxSeatsPerBooking
	}
	if max < 0 {
		max = 0
	}
	if requested > max {
		return max
	}
	if requested < 1 && max > 0 {
		return 1
	}
	if requested < 0 {
		return 0
	}
	return requested
}
