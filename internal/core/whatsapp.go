package core

import (
	"fmt"
	"net/url"
	"strings"
)

// WhatsApp message template identifiers.
const (
	WhatsAppWelcome             = "welcome"
	WhatsAppBookingConfirmation = "booking_confirmation"
	WhatsAppCheckIn             = "check_in"
	WhatsAppCheckOut            = "check_out"
	WhatsAppPayment             = "payment"
)

// WhatsAppLink builds a wa.me URL carrying the message. The phone number is
// stripped to digits and prefixed with the 91 country code when missing.
// Nothing is sent; the caller opens the link.
func WhatsAppLink(phone, message string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()
	if !strings.HasPrefix(number, "91") {
		number = "91" + number
	}
	u := url.URL{
		Scheme:   "https",
		Host:     "wa.me",
		Path:     "/" + number,
		RawQuery: "text=" + url.QueryEscape(message),
	}
	return u.String()
}

// WhatsAppMessageLink renders a named template with the supplied data and
// wraps it in a wa.me link. Unknown template names fall back to
// data["message"].
func WhatsAppMessageLink(phone, template string, data map[string]string) string {
	var message string
	switch template {
	case WhatsAppWelcome:
		message = fmt.Sprintf("Welcome to DonorStay Guest House, %s! 🙏\n\nYour Donor ID: %s\nFree Rooms Available: %s\n\nThank you for your generous donation.",
			data["name"], data["donorId"], data["freeRooms"])
	case WhatsAppBookingConfirmation:
		message = fmt.Sprintf("Booking Confirmed! 🎉\n\nGuest: %s\nRoom: %s\nCheck-in: %s at %s\nGuests: %s\n\nWe look forward to hosting you!",
			data["name"], data["roomNumber"], data["checkInDate"], data["checkInTime"], data["guests"])
	case WhatsAppCheckIn:
		message = fmt.Sprintf("Check-in Confirmed ✅\n\nWelcome, %s!\nRoom: %s\nDate: %s\nTime: %s\n\nEnjoy your stay!",
			data["name"], data["roomNumber"], data["date"], data["time"])
	case WhatsAppCheckOut:
		message = fmt.Sprintf("Check-out Completed 👋\n\nThank you for staying with us, %s!\nBill Amount: ₹%s\n\nWe hope to see you again soon!",
			data["name"], data["amount"])
	case WhatsAppPayment:
		message = fmt.Sprintf("Payment Received 💰\n\nDear %s,\nAmount: ₹%s\nPayment Mode: %s\nRemaining: ₹%s\n\nThank you!",
			data["name"], data["amount"], data["method"], data["remaining"])
	default:
		message = data["message"]
	}
	return WhatsAppLink(phone, message)
}
