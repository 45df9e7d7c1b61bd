package model

import "time"

// NoticeLevel is the kind of user-visible notification
type NoticeLevel string

// Notice levels
const (
	NoticeLoading NoticeLevel = "loading"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a fire-and-forget message for the operator. Notices are keyed by
// session so a newer one replaces the previous one.
type Notice struct {
	SessionID string      `json:"sessionId"`
	Level     NoticeLevel `json:"level"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"createdAt"`
}
