package mailparse

import (
	"bytes"
	"strings"
	"testing"

	"github.com/emersion/go-imap"
)

func TestDecodeHeader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "Plain ASCII",
			input:    "Hello World",
			expected: "Hello World",
			wantErr:  false,
		},
		{
			name:     "UTF-8 encoded",
			input:    "=?UTF-8?Q?Devoir_n=C2=B03_:_r=C3=A9cursivit=C3=A9?=",
			expected: "Devoir n°3 : récursivité",
			wantErr:  false,
		},
		{
			name:     "ISO-8859-1 encoded",
			input:    "=?ISO-8859-1?Q?Caf=E9?=",
			expected: "Café",
			wantErr:  false,
		},
		{
			name:     "Base64 encoded",
			input:    "=?UTF-8?B?SGVsbG8gV29ybGQ=?=",
			expected: "Hello World",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeHeader(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeHeader() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("DecodeHeader() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExtractEmailAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple email",
			input:    "student@university.edu",
			expected: "student@university.edu",
		},
		{
			name:     "Email with name",
			input:    "Ada Lovelace <ada@university.edu>",
			expected: "ada@university.edu",
		},
		{
			name:     "Email with quotes",
			input:    `"Ada Lovelace" <ada@university.edu>`,
			expected: "ada@university.edu",
		},
		{
			name:     "No email",
			input:    "Just some text",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractEmailAddress(tt.input)
			if got != tt.expected {
				t.Errorf("extractEmailAddress() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func messageFromRaw(raw string) *imap.Message {
	section := &imap.BodySectionName{}
	return &imap.Message{
		Uid: 42,
		Body: map[*imap.BodySectionName]imap.Literal{
			section: bytes.NewBufferString(raw),
		},
	}
}

func TestParseWithAttachment(t *testing.T) {
	raw := "From: \"Ada Lovelace\" <ada@university.edu>\r\n" +
		"To: grader@university.edu\r\n" +
		"Subject: Session 3 homework\r\n" +
		"Message-Id: <msg-123@university.edu>\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=\"BOUNDARY\"\r\n" +
		"\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Write a function that reverses a string.\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/x-python\r\n" +
		"Content-Disposition: attachment; filename=\"solution.py\"\r\n" +
		"\r\n" +
		"def reverse(s):\r\n    return s[::-1]\r\n" +
		"--BOUNDARY--\r\n"

	email, err := Parse(messageFromRaw(raw))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if email.UID != 42 {
		t.Errorf("Expected UID 42, got %d", email.UID)
	}
	if email.SenderName != "Ada Lovelace" {
		t.Errorf("Expected sender name 'Ada Lovelace', got '%s'", email.SenderName)
	}
	if email.SenderAddr != "ada@university.edu" {
		t.Errorf("Expected sender address 'ada@university.edu', got '%s'", email.SenderAddr)
	}
	if email.Subject != "Session 3 homework" {
		t.Errorf("Expected subject 'Session 3 homework', got '%s'", email.Subject)
	}
	if email.MessageID != "msg-123@university.edu" {
		t.Errorf("Expected message ID 'msg-123@university.edu', got '%s'", email.MessageID)
	}
	if email.IsReply {
		t.Error("Expected IsReply to be false")
	}
	if !strings.Contains(email.BodyText, "reverses a string") {
		t.Errorf("Expected body text to contain the question, got '%s'", email.BodyText)
	}

	if len(email.Attachments) != 1 {
		t.Fatalf("Expected 1 attachment, got %d", len(email.Attachments))
	}
	if email.Attachments[0].Filename != "solution.py" {
		t.Errorf("Expected attachment 'solution.py', got '%s'", email.Attachments[0].Filename)
	}
	if !strings.Contains(string(email.Attachments[0].Data), "def reverse") {
		t.Errorf("Expected attachment content, got '%s'", string(email.Attachments[0].Data))
	}
	if email.TraceID == "" {
		t.Error("Expected a trace ID to be assigned")
	}
}

func TestParseReplyDetection(t *testing.T) {
	raw := "From: ada@university.edu\r\n" +
		"To: grader@university.edu\r\n" +
		"Subject: Re: Session 3 homework\r\n" +
		"In-Reply-To: <msg-1@university.edu>\r\n" +
		"References: <msg-1@university.edu>\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Thanks for the feedback!\r\n"

	email, err := Parse(messageFromRaw(raw))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if !email.IsReply {
		t.Error("Expected IsReply to be true for message with threading headers")
	}
}

func TestParseNoBody(t *testing.T) {
	msg := &imap.Message{Uid: 1}
	if _, err := Parse(msg); err == nil {
		t.Error("Parse() expected error for message without body section")
	}
}
