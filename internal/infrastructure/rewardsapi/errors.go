package rewardsapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"community-rewards/internal/domain/reward"
)

// APIError 上流APIの非2xxレスポンス
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

// Error "<code> <status text>: <message>" の形式で返す
func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Status, e.Message)
}

// HTTPStatus 上流のHTTPステータスを返す
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// Is 404と422はErrRewardNotFoundとして扱う
func (e *APIError) Is(target error) bool {
	if target == reward.ErrRewardNotFound {
		return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

type errorBody struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

// newAPIError レスポンスボディからメッセージを取り出す
// message → detail → 生のボディ → ステータステキストの順に採用する
func newAPIError(statusCode int, body []byte) *APIError {
	statusText := http.StatusText(statusCode)
	msg := strings.TrimSpace(string(body))

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case eb.Message != "":
			msg = eb.Message
		case len(eb.Detail) > 0 && string(eb.Detail) != "null":
			var s string
			if err := json.Unmarshal(eb.Detail, &s); err == nil {
				msg = s
			} else {
				msg = string(eb.Detail)
			}
		}
	}
	if msg == "" {
		msg = statusText
	}

	return &APIError{
		StatusCode: statusCode,
		Status:     statusText,
		Message:    msg,
	}
}
