package upstream

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// CodeSeatLock is the upstream conflict code for seats claimed by a
// concurrent booking between page load and submission.
const CodeSeatLock = "SEATLOCK"

// APIError is a structured rejection from the upstream API.
type APIError struct {
	// HTTPStatus is the transport-level status of the response.
	HTTPStatus int
	// Status is the logical status carried inside the envelope; it can
	// disagree with HTTPStatus on a 2xx response.
	Status  int
	Code    string
	Message string
	Data    json.RawMessage
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream rejected request: %s (http %d, code %s)", e.Message, e.HTTPStatus, e.Code)
	}
	return fmt.Sprintf("upstream rejected request: %s (http %d)", e.Message, e.HTTPStatus)
}

// IsSeatLock reports whether the error is a seat conflict (HTTP 409 with
// code SEATLOCK).
func (e *APIError) IsSeatLock() bool {
	return e.HTTPStatus == http.StatusConflict && e.Code == CodeSeatLock
}

// ConflictedSeatIDs decodes the seat ids carried by a SEATLOCK error.
func (e *APIError) ConflictedSeatIDs() []int64 {
	var ids []int64
	if len(e.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Data, &ids); err != nil {
		return nil
	}
	return ids
}

// UserMessage maps the rejection onto the fixed user-facing copy per status
// code. Unknown statuses surface the server's own message when present.
func (e *APIError) UserMessage() string {
	switch e.HTTPStatus {
	case http.StatusBadRequest:
		return "Thông tin đặt vé không hợp lệ"
	case http.StatusForbidden:
		return "Bạn không có quyền thực hiện thao tác này"
	case http.StatusNotFound:
		return "Không tìm thấy chuyến tàu hoặc chỗ ngồi"
	case http.StatusInternalServerError:
		return "Lỗi hệ thống, vui lòng thử lại sau"
	default:
		if e.Message != "" {
			return e.Message
		}
		return "Đặt vé thất bại, vui lòng thử lại"
	}
}
