package views

import (
	"errors"

	"github.com/kendall-kelly/tailoring-orders-portal/services"
)

// User-facing messages
const (
	MsgLoadFailed     = "Failed to fetch orders"
	MsgDeleteFailed   = "Failed to delete order"
	MsgUpdateFailed   = "Failed to update order"
	MsgNetworkError   = "Network error. Please try again."
	MsgOrderDeleted   = "Order deleted successfully"
	MsgOrderUpdated   = "Order updated successfully"
	MsgInvalidForm    = "Please fill in all required fields"
	MsgNotEditable    = "Only pending orders can be changed"
	MsgOrderNotFound  = "Order not found"
	MsgSessionExpired = "Your session has expired. Please sign in again."
)

// userMessage turns an order service error into the text shown to the
// user: the server's message when it sent one, a fixed fallback otherwise.
func userMessage(err error, fallback string) string {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	var transportErr *services.TransportError
	if errors.As(err, &transportErr) {
		return MsgNetworkError
	}
	if errors.Is(err, services.ErrMissingToken) {
		return MsgSessionExpired
	}
	return fallback
}
