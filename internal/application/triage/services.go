package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/automaton-triage/internal/domain/ai"
	"github.com/bryanwahyu/automaton-triage/internal/domain/code"
	"github.com/bryanwahyu/automaton-triage/internal/domain/records"
	"github.com/bryanwahyu/automaton-triage/internal/domain/sentry"
	"github.com/bryanwahyu/automaton-triage/internal/domain/tickets"
	domain "github.com/bryanwahyu/automaton-triage/internal/domain/triage"
	"github.com/bryanwahyu/automaton-triage/internal/logging"
)

// Service implements the analysis use-cases.
// Service is designed to be used concurrently and is thread-safe:
// all state lives in the injected ports.
type Service struct {
	AI      ai.Client
	Tickets tickets.Client
	Code    code.Source        // optional, nil when GitHub is not configured
	Records records.Repository // optional, nil when persistence is disabled
	Archive records.Archive    // optional, nil when no object store
	Clock   Clock
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Pipeline statuses reported to callers.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
)

//
// ==== USE CASES ====
//

// AnalyzeCommand carries one analysis request.
type AnalyzeCommand struct {
	TicketKey     string
	SentryOrg     string
	SentryIssueID string
	RawIssueText  string
}

// AnalysisReport is the analysis section of the caller-facing report.
type AnalysisReport struct {
	RootCause  string `json:"root_cause"`
	File       string `json:"file"`
	Fix        string `json:"fix"`
	Confidence string `json:"confidence"`
}

// AnalyzeResult is the terminal report of one pipeline run.
type AnalyzeResult struct {
	Status    string                `json:"status"`
	IssueKey  string                `json:"issue_key"`
	Sentry    *sentry.IssueRef      `json:"sentry,omitempty"`
	Triage    domain.Result         `json:"triage"`
	Analysis  AnalysisReport        `json:"analysis"`
	Jira      tickets.UpdateOutcome `json:"jira"`
	Message   string                `json:"message,omitempty"`
	Timestamp string                `json:"timestamp"`
}

// Analyze runs the whole pipeline for one ticket: locate the Sentry
// reference, parse the issue text, fetch code context, triage, diagnose,
// then write the comment and priority back to the ticket.
//
// Nothing inside degrades the request to an error except AI quota
// exhaustion, which aborts before any ticket write so a retry later does
// not double-comment.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (AnalyzeResult, error) {
	now := s.Clock.Now()

	probe := cmd.RawIssueText
	if cmd.SentryOrg != "" && cmd.SentryIssueID != "" {
		probe = fmt.Sprintf("Sentry Issue: https://%s.sentry.io/issues/%s/\n\n%s",
			cmd.SentryOrg, cmd.SentryIssueID, probe)
	}

	var ref *sentry.IssueRef
	if r, ok := sentry.ExtractIssueRef(probe); ok {
		ref = &r
	} else if cmd.SentryOrg != "" && cmd.SentryIssueID != "" {
		// Short-code ids (PROJ-1Q) never match the extractor but are
		// trustworthy when the caller states them outright.
		ref = &sentry.IssueRef{
			Org:     cmd.SentryOrg,
			IssueID: cmd.SentryIssueID,
			URL:     fmt.Sprintf("https://%s.sentry.io/issues/%s/", cmd.SentryOrg, cmd.SentryIssueID),
		}
	}

	issue := sentry.ParseIssueText(cmd.RawIssueText)
	if issue.URL == "" && ref != nil {
		issue.URL = ref.URL
	}

	var snippets []code.Snippet
	if s.Code != nil {
		if files := sentry.StackFiles(issue.Stacktrace); len(files) > 0 {
			var err error
			snippets, err = s.Code.Fetch(ctx, files)
			if err != nil {
				logging.Warn("code context unavailable", "ticket", cmd.TicketKey, "error", err)
				snippets = nil
			}
		}
	}

	res, err := s.AI.Triage(ctx, issue)
	if err != nil {
		if errors.Is(err, ai.ErrQuotaExceeded) {
			return AnalyzeResult{}, err
		}
		logging.Warn("triage fell back", "ticket", cmd.TicketKey, "error", err)
		res = domain.FallbackResult()
	}

	an, err := s.AI.Diagnose(ctx, issue, snippets)
	if err != nil {
		if errors.Is(err, ai.ErrQuotaExceeded) {
			return AnalyzeResult{}, err
		}
		logging.Warn("analysis fell back", "ticket", cmd.TicketKey, "error", err)
		an = domain.FallbackAnalysis(issue.Culprit)
	}

	comment := domain.RenderComment(issue, res, an, now)

	// Two independent mutations; one failing never blocks the other.
	outcome := tickets.UpdateOutcome{
		Comment:  tickets.OutcomeOf(s.Tickets.AddComment(ctx, cmd.TicketKey, comment)),
		Priority: tickets.OutcomeOf(s.Tickets.SetPriority(ctx, cmd.TicketKey, res.Priority)),
	}

	result := AnalyzeResult{
		Status:   StatusSuccess,
		IssueKey: cmd.TicketKey,
		Sentry:   ref,
		Triage:   res,
		Analysis: AnalysisReport{
			RootCause:  an.RootCause,
			File:       an.AffectedFile,
			Fix:        an.FixSuggestion,
			Confidence: string(an.Confidence),
		},
		Jira:      outcome,
		Message:   "Analysis complete",
		Timestamp: now.UTC().Format(time.RFC3339),
	}
	if ref == nil {
		result.Status = StatusPartial
		result.Message = "No Sentry URL found; analysis ran without an issue reference"
	}

	s.record(ctx, result, now)

	return result, nil
}

// ListRecords returns one page of analysis history.
func (s *Service) ListRecords(ctx context.Context, page, pageSize int) ([]*records.Record, error) {
	return s.Records.Paginate(ctx, page, pageSize)
}

// LatestRecord returns the most recent record for a ticket key.
func (s *Service) LatestRecord(ctx context.Context, ticketKey string) (*records.Record, error) {
	return s.Records.LatestByTicket(ctx, ticketKey)
}

// record persists and archives the report. Both writes are best-effort:
// failures are logged and never surface to the caller.
func (s *Service) record(ctx context.Context, res AnalyzeResult, now time.Time) {
	if s.Records == nil && s.Archive == nil {
		return
	}

	report, err := json.Marshal(res)
	if err != nil {
		logging.Error("marshal analysis report", "ticket", res.IssueKey, "error", err)
		return
	}

	rec := &records.Record{
		ID:             records.RecordID(uuid.New().String()),
		TicketKey:      res.IssueKey,
		Priority:       string(res.Triage.Priority),
		IsUrgent:       res.Triage.IsUrgent,
		CommentStatus:  res.Jira.Comment.Status,
		PriorityStatus: res.Jira.Priority.Status,
		ReportJSON:     string(report),
		CreatedAt:      now,
	}
	if res.Sentry != nil {
		rec.SentryOrg = res.Sentry.Org
		rec.SentryIssueID = res.Sentry.IssueID
	}

	if s.Archive != nil {
		key := fmt.Sprintf("%s/%s.json", rec.TicketKey, rec.ID)
		url, err := s.Archive.Put(ctx, key, report, "application/json")
		if err != nil {
			logging.Warn("report archive failed", "ticket", rec.TicketKey, "error", err)
		} else {
			rec.ArchiveURL = url
		}
	}

	if s.Records != nil {
		if err := s.Records.Save(ctx, rec); err != nil {
			logging.Warn("record save failed", "ticket", rec.TicketKey, "error", err)
		}
	}
}
