package models

import "time"

// Email represents a normalized parsed email message
type Email struct {
	UID          uint32
	SenderName   string
	SenderAddr   string
	Subject      string
	MessageID    string
	BodyText     string
	Attachments  []Attachment
	IsReply      bool
	InternalDate time.Time
	TraceID      string
}

// Attachment is one attached file, decoded
type Attachment struct {
	Filename string
	Data     []byte
}
