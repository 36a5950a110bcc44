package extract

import (
	"errors"
	"fmt"
	"strings"

	"homework-grader/internal/models"
)

// ErrExtraction indicates no question/answer content could be isolated from an email.
var ErrExtraction = errors.New("no extractable content")

type Extractor struct {
	delimiter  string
	extensions []string
}

// NewExtractor creates an Extractor with the given body delimiter and the
// attachment extensions recognized as submitted code.
func NewExtractor(cfg models.ExtractConfig) *Extractor {
	exts := make([]string, 0, len(cfg.Extensions))
	for _, e := range cfg.Extensions {
		exts = append(exts, strings.ToLower(e))
	}
	return &Extractor{
		delimiter:  strings.ToLower(strings.TrimSpace(cfg.Delimiter)),
		extensions: exts,
	}
}

// Extract isolates the exercise question and the submitted answer from a
// parsed email. Attachments with a recognized source extension win over the
// body heuristic: their concatenated contents become the answer and the body
// becomes the question. Without attachments the body is split on the
// delimiter line.
func (e *Extractor) Extract(email *models.Email) (*models.Submission, error) {
	question, answer := e.fromAttachments(email)
	if answer == "" {
		question, answer = e.fromBody(email.BodyText)
	}

	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return nil, fmt.Errorf("%w in email %q", ErrExtraction, email.Subject)
	}

	return &models.Submission{
		SenderName:   email.SenderName,
		SenderAddr:   email.SenderAddr,
		Subject:      email.Subject,
		ReceivedAt:   email.InternalDate,
		QuestionText: strings.TrimSpace(question),
		AnswerText:   strings.TrimSpace(answer),
	}, nil
}

// fromAttachments concatenates all recognized source attachments, each
// prefixed with a filename banner so multi-file submissions stay readable.
func (e *Extractor) fromAttachments(email *models.Email) (string, string) {
	var parts []string
	for _, att := range email.Attachments {
		if !e.recognized(att.Filename) {
			continue
		}
		content := strings.TrimSpace(string(att.Data))
		if content == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("// === %s ===\n%s", att.Filename, content))
	}
	if len(parts) == 0 {
		return "", ""
	}
	return email.BodyText, strings.Join(parts, "\n\n")
}

// fromBody splits the body on the delimiter line: question above, answer below.
func (e *Extractor) fromBody(body string) (string, string) {
	if e.delimiter == "" {
		return "", ""
	}

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if strings.ToLower(strings.TrimSpace(line)) == e.delimiter {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return "", ""
}

func (e *Extractor) recognized(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range e.extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
