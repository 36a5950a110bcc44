package main

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"homework-grader/internal/config"
	"homework-grader/internal/dedup"
	"homework-grader/internal/extract"
	"homework-grader/internal/grader"
	imapclient "homework-grader/internal/imap"
	"homework-grader/internal/logging"
	"homework-grader/internal/metrics"
	"homework-grader/internal/models"
	"homework-grader/internal/processor"
	"homework-grader/internal/store"

	"github.com/redis/go-redis/v9"
)

var imapFailureCount atomic.Int32

func configPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "config.yaml"
}

const failureSleepDuration = 30 * time.Minute

// Submissions older than this are considered stale and left alone
const emailFreshnessWindow = 7 * 24 * time.Hour

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		logging.Log.Fatalf("Error reading configuration file: %v", err)
	}

	logging.Log.Infof("Starting homework grading process, refresh every %s", cfg.Email.RefreshTime)

	ctx := context.Background()

	records, err := store.NewMongoStore(ctx, cfg.Mongo)
	if err != nil {
		logging.Log.Fatalf("Error connecting to grade store: %v", err)
	}
	defer func() {
		_ = records.Close(ctx)
	}()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	dedupFilter := dedup.NewFilter(rdb, cfg.Redis.DedupTTL)

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(cfg.MetricsAddr); err != nil {
				logging.Log.Errorf("Metrics listener error: %v", err)
			}
		}()
	}

	extractor := extract.NewExtractor(cfg.Extract)
	gradingClient := grader.NewClient(cfg.Grader)

	for {
		fetchAndProcessEmails(ctx, cfg, extractor, gradingClient, records, dedupFilter)
		time.Sleep(cfg.Email.RefreshTime)
	}
}

// fetchAndProcessEmails connects to the IMAP server, retrieves unseen emails, and processes them
func fetchAndProcessEmails(ctx context.Context, cfg *models.Config, extractor *extract.Extractor, gradingClient *grader.Client, records store.RecordStore, dedupFilter *dedup.Filter) {
	client := imapclient.NewStandardClient()

	// Connect
	if err := client.Connect(cfg.Email.Imap); err != nil {
		handleIMAPFailure(err)
		return
	}
	defer func(client *imapclient.StandardClient) {
		_ = client.Close()
	}(client)

	// Reset failure count on successful connection
	imapFailureCount.Store(0)

	// Login
	if err := client.Login(cfg.Email.Login, cfg.Email.Password); err != nil {
		logging.Log.Errorf("Login error: %v", err)
		return
	}

	// Select mailbox
	if err := client.SelectMailbox(cfg.Email.MailBox); err != nil {
		logging.Log.Errorf("Folder selection error: %v", err)
		return
	}

	// List unseen emails within the freshness window
	uids, err := client.ListUnseenUIDs(emailFreshnessWindow)
	if err != nil {
		logging.Log.Errorf("Error searching for recent emails: %v", err)
		return
	}

	if len(uids) == 0 {
		return
	}

	proc := processor.NewProcessor(client, extractor, gradingClient, records, dedupFilter, cfg)

	// Process all unseen emails; a failed email never aborts the run
	for _, uid := range uids {
		if err := proc.ProcessEmail(ctx, uid); err != nil {
			logging.Log.Errorf("Error processing email UID %d: %v", uid, err)
		}
	}
}

// handleIMAPFailure increments the failure count and implements an exponential backoff strategy
func handleIMAPFailure(err error) {
	failures := imapFailureCount.Add(1)
	logging.Log.Errorf("IMAP connection error: %v", err)

	if failures >= 5 {
		base := 5 * time.Minute
		maxSteps := int32(10)

		n := failures - 5
		if n > maxSteps {
			n = maxSteps
		}

		backoff := base * time.Duration(1<<n)
		if backoff > failureSleepDuration {
			backoff = failureSleepDuration
		}

		logging.Log.Warnf("IMAP failed %d times, waiting %s before next attempt", failures, backoff)
		time.Sleep(backoff)
	}
}
