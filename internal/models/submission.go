package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Submission is one homework email's extracted question/answer pair.
// Immutable once extracted.
type Submission struct {
	SenderName   string
	SenderAddr   string
	Subject      string
	ReceivedAt   time.Time
	QuestionText string
	AnswerText   string
}

// GradeResult is the LLM-produced score and feedback for a submission
type GradeResult struct {
	Score    float64
	Feedback string
}

// GradeRecord is the persisted tuple of sender metadata and grade.
// One per processed email, append-only.
type GradeRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	MessageID   string             `bson:"message_id"`
	SenderName  string             `bson:"sender_name"`
	SenderEmail string             `bson:"sender_email"`
	Subject     string             `bson:"subject"`
	Date        string             `bson:"date"`
	Time        string             `bson:"time"`
	Grade       float64            `bson:"grade"`
	Feedback    string             `bson:"feedback"`
	GradedAt    time.Time          `bson:"graded_at"`
}

// NewGradeRecord builds the persisted record from a submission and its grade
func NewGradeRecord(messageID string, sub *Submission, result *GradeResult) GradeRecord {
	return GradeRecord{
		MessageID:   messageID,
		SenderName:  sub.SenderName,
		SenderEmail: sub.SenderAddr,
		Subject:     sub.Subject,
		Date:        sub.ReceivedAt.Format("2006-01-02"),
		Time:        sub.ReceivedAt.Format("15:04:05"),
		Grade:       result.Score,
		Feedback:    result.Feedback,
		GradedAt:    time.Now().UTC(),
	}
}
