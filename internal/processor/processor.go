package processor

import (
	"context"
	"errors"
	"time"

	"homework-grader/internal/extract"
	imapclient "homework-grader/internal/imap"
	"homework-grader/internal/logging"
	"homework-grader/internal/mailparse"
	"homework-grader/internal/metrics"
	"homework-grader/internal/models"
	"homework-grader/internal/store"

	"github.com/sirupsen/logrus"
)

// Grader produces a score and feedback for an extracted submission
type Grader interface {
	Grade(ctx context.Context, sub *models.Submission) (*models.GradeResult, error)
}

// DedupFilter remembers which message IDs were already processed
type DedupFilter interface {
	IsNew(ctx context.Context, messageID string) (bool, error)
	Forget(ctx context.Context, messageID string) error
}

type Processor struct {
	imapClient imapclient.Client
	extractor  *extract.Extractor
	grader     Grader
	records    store.RecordStore
	dedup      DedupFilter
	cfg        *models.Config
}

// NewProcessor creates a Processor wiring the mailbox client to the
// extractor, grader, record store and dedup filter.
func NewProcessor(imapClient imapclient.Client, extractor *extract.Extractor, grader Grader, records store.RecordStore, dedup DedupFilter, cfg *models.Config) *Processor {
	return &Processor{
		imapClient: imapClient,
		extractor:  extractor,
		grader:     grader,
		records:    records,
		dedup:      dedup,
		cfg:        cfg,
	}
}

// ProcessEmail runs the complete grading workflow for one email:
// fetch → parse → filter → dedup → extract → grade → store → mark seen.
// Emails that cannot be graded (replies, unknown senders, extraction
// failures, duplicates) are consumed without a record. Transient failures
// (grading API, storage) leave the email unseen so the next poll retries it.
func (p *Processor) ProcessEmail(ctx context.Context, uid uint32) error {
	msg, err := p.imapClient.FetchMessage(uid)
	if err != nil {
		metrics.RecordProcessed("failed")
		return err
	}

	email, err := mailparse.Parse(msg)
	if err != nil {
		logging.Log.WithField("trace_id", "unknown").Errorf("Error parsing email UID %d: %v", uid, err)
		metrics.RecordProcessed("failed")
		return err
	}

	locallog := logging.Log.WithFields(logrus.Fields{
		"trace_id": email.TraceID,
		"sender":   email.SenderAddr,
	})

	if reason := p.skipReason(email); reason != "" {
		locallog.Infof("Skipping email UID %d: %s", uid, reason)
		p.consume(uid, locallog)
		metrics.RecordProcessed("skipped")
		return nil
	}

	fresh, err := p.isFresh(ctx, email)
	if err != nil {
		// Grading twice beats silently dropping a submission
		locallog.Warnf("Dedup check failed, treating message as new: %v", err)
		fresh = true
	}
	if !fresh {
		locallog.Infof("Message %s already graded, skipping", email.MessageID)
		p.consume(uid, locallog)
		metrics.RecordProcessed("skipped")
		return nil
	}

	submission, err := p.extractor.Extract(email)
	if err != nil {
		if errors.Is(err, extract.ErrExtraction) {
			// Malformed submissions never improve on retry
			locallog.Warnf("Extraction failed for email UID %d: %v", uid, err)
			p.consume(uid, locallog)
		} else {
			p.forget(ctx, email, locallog)
		}
		metrics.RecordProcessed("failed")
		return err
	}

	start := time.Now()
	result, err := p.grader.Grade(ctx, submission)
	metrics.RecordGraderLatency(time.Since(start))
	if err != nil {
		p.forget(ctx, email, locallog)
		metrics.RecordProcessed("failed")
		return err
	}

	record := models.NewGradeRecord(email.MessageID, submission, result)
	if err := p.records.Insert(ctx, record); err != nil {
		p.forget(ctx, email, locallog)
		metrics.RecordProcessed("failed")
		return err
	}
	metrics.GradesStored.Inc()

	locallog.Infof("Graded submission from %s: %g", email.SenderAddr, result.Score)
	p.consume(uid, locallog)
	metrics.RecordProcessed("graded")
	return nil
}

// skipReason applies the configured filters; an empty string means the
// email should be graded.
func (p *Processor) skipReason(email *models.Email) string {
	if email.IsReply {
		return "reply or forward"
	}
	if len(p.cfg.AllowedSenders) > 0 && !p.senderAllowed(email.SenderAddr) {
		return "sender not in allowed list"
	}
	if p.cfg.TargetSubject != "" && email.Subject != p.cfg.TargetSubject {
		return "subject does not match target"
	}
	return ""
}

func (p *Processor) senderAllowed(addr string) bool {
	for _, allowed := range p.cfg.AllowedSenders {
		if allowed == addr {
			return true
		}
	}
	return false
}

// isFresh consults the dedup filter. Emails without a Message-ID cannot be
// deduplicated and are always treated as new.
func (p *Processor) isFresh(ctx context.Context, email *models.Email) (bool, error) {
	if email.MessageID == "" {
		return true, nil
	}
	return p.dedup.IsNew(ctx, email.MessageID)
}

// forget releases the dedup marker so the next poll retries the email
func (p *Processor) forget(ctx context.Context, email *models.Email, locallog *logrus.Entry) {
	if email.MessageID == "" {
		return
	}
	if err := p.dedup.Forget(ctx, email.MessageID); err != nil {
		locallog.Warnf("Error releasing dedup marker for %s: %v", email.MessageID, err)
	}
}

// consume marks the email as seen so it is not listed again
func (p *Processor) consume(uid uint32, locallog *logrus.Entry) {
	if err := p.imapClient.MarkSeen(uid); err != nil {
		locallog.Errorf("Error marking message UID %d as seen: %v", uid, err)
	}
}
