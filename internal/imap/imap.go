package imap

import (
	"errors"
	"time"

	"github.com/emersion/go-imap"
)

// ErrConnection indicates the mail service is unreachable.
var ErrConnection = errors.New("imap connection error")

// ErrAuth indicates the supplied credentials were rejected.
var ErrAuth = errors.New("imap authentication error")

type Client interface {
	Connect(server string) error
	Login(user, password string) error
	SelectMailbox(name string) error
	ListUnseenUIDs(since time.Duration) ([]uint32, error)
	FetchMessage(uid uint32) (*imap.Message, error)
	MarkSeen(uid uint32) error
	Close() error
}
