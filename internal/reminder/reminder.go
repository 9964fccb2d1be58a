// Package reminder notifies staff about loans that are close to their
// return date. It polls the inventory API and forwards a digest to a
// webhook (chat channel, ticketing system, whatever is configured).
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ortobank/ortobank/internal/model"
)

// Config holds the reminder job's connection settings.
type Config struct {
	// APIURL is the inventory server's base URL, e.g. http://localhost:8080.
	APIURL string
	// APIKey authenticates the job against the machine endpoints.
	APIKey string
	// WebhookURL receives the digest as {"text": "..."}.
	WebhookURL string
	// WithinDays bounds how far ahead to look for expiring loans.
	WithinDays int
}

// Notifier fetches expiring loans and posts reminder digests.
type Notifier struct {
	client *resty.Client
	cfg    Config
}

// New builds a Notifier from the given configuration.
func New(cfg Config) *Notifier {
	if cfg.WithinDays < 1 {
		cfg.WithinDays = 7
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.APIURL, "/")).
		SetHeader("X-Api-Key", cfg.APIKey).
		SetTimeout(15 * time.Second)

	return &Notifier{client: client, cfg: cfg}
}

// Run performs one reminder pass: fetch expiring loans, group them by the
// responsible staff member, and post a digest to the webhook. A pass with
// nothing expiring posts nothing.
func (n *Notifier) Run(ctx context.Context) error {
	loans, err := n.fetchExpiring(ctx)
	if err != nil {
		return fmt.Errorf("fetching expiring loans: %w", err)
	}

	if len(loans) == 0 {
		slog.Info("no loans expiring", "within_days", n.cfg.WithinDays)
		return nil
	}

	digest := Digest(loans, n.cfg.WithinDays)
	if err := n.postWebhook(ctx, digest); err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}

	slog.Info("reminder sent", "loans", len(loans))
	return nil
}

func (n *Notifier) fetchExpiring(ctx context.Context) ([]model.Loan, error) {
	var loans []model.Loan
	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParam("within_days", fmt.Sprint(n.cfg.WithinDays)).
		SetResult(&loans).
		Get("/api/jobs/loans/expiring")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %s", resp.Status())
	}
	return loans, nil
}

func (n *Notifier) postWebhook(ctx context.Context, text string) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		Post(n.cfg.WebhookURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected status %s", resp.Status())
	}
	return nil
}

// Digest renders the expiring loans as a plain-text message, grouped by the
// responsible staff member so each person sees their own follow-ups together.
func Digest(loans []model.Loan, withinDays int) string {
	byResponsible := make(map[string][]model.Loan)
	for _, loan := range loans {
		name := loan.ResponsibleName
		if name == "" {
			name = fmt.Sprintf("user #%d", loan.ResponsibleID)
		}
		byResponsible[name] = append(byResponsible[name], loan)
	}

	names := make([]string, 0, len(byResponsible))
	for name := range byResponsible {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "Loans due within %d days:\n", withinDays)
	for _, name := range names {
		fmt.Fprintf(&b, "%s:\n", name)
		for _, loan := range byResponsible[name] {
			fmt.Fprintf(&b, "- item %d, %s (due %s)\n",
				loan.ItemSerialCode, loan.ApplicantName, loan.ReturnDate.Format("2006-01-02"))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
