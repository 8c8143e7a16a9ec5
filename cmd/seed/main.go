package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/automaton-triage/internal/config"
	"github.com/bryanwahyu/automaton-triage/internal/domain/tickets"
	"github.com/bryanwahyu/automaton-triage/internal/domain/triage"
	jiraclient "github.com/bryanwahyu/automaton-triage/internal/infra/tickets/jira"
)

// rootCmd creates a Jira issue that references a Sentry issue, the same
// shape the Sentry integration produces, so the analyze flow can be
// exercised end to end against a real project.
var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed creates a Jira issue linked to a Sentry issue",
	Long: `Seed creates a Jira issue whose description embeds a Sentry issue URL,
matching what the Sentry-Jira integration writes. Use it to set up a
ticket for testing the /analyze endpoint.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().String("config", "config.yaml", "path to config file")
	rootCmd.Flags().String("project", "", "Jira project key (e.g. MAFB)")
	rootCmd.Flags().String("org", "", "Sentry organization slug")
	rootCmd.Flags().String("issue-id", "", "Sentry issue id")
	rootCmd.Flags().String("summary", "Sentry-Jira triage integration test", "issue summary, prefixed with [Sentry]")
	rootCmd.Flags().StringSlice("labels", []string{"sentry", "auto-triage"}, "labels for the new issue")
	rootCmd.Flags().String("priority", "", "initial priority (Low, Medium, High, Highest)")
	rootCmd.Flags().String("type", "Task", "issue type")
}

func run(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	project, err := cmd.Flags().GetString("project")
	if err != nil {
		return err
	}
	org, err := cmd.Flags().GetString("org")
	if err != nil {
		return err
	}
	issueID, err := cmd.Flags().GetString("issue-id")
	if err != nil {
		return err
	}
	summary, err := cmd.Flags().GetString("summary")
	if err != nil {
		return err
	}
	labels, err := cmd.Flags().GetStringSlice("labels")
	if err != nil {
		return err
	}
	priorityName, err := cmd.Flags().GetString("priority")
	if err != nil {
		return err
	}
	issueType, err := cmd.Flags().GetString("type")
	if err != nil {
		return err
	}

	if project == "" {
		return fmt.Errorf("project flag is required")
	}
	if org == "" {
		return fmt.Errorf("org flag is required")
	}
	if issueID == "" {
		return fmt.Errorf("issue-id flag is required")
	}

	var priority triage.Priority
	if priorityName != "" {
		p, ok := triage.ParsePriority(priorityName)
		if !ok {
			return fmt.Errorf("invalid priority: %s (allowed: Low, Medium, High, Highest)", priorityName)
		}
		priority = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config load error: %w", err)
	}
	if cfg.Jira.BaseURL == "" || cfg.Jira.Email == "" || cfg.Jira.APIToken == "" {
		return fmt.Errorf("jira.baseUrl, jira.email and jira.apiToken must be configured")
	}

	client, err := jiraclient.NewClient(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIToken, cfg.JiraTimeout())
	if err != nil {
		return fmt.Errorf("jira client error: %w", err)
	}

	description := strings.Join([]string{
		"Test issue for the triage workflow.",
		fmt.Sprintf("Sentry Issue: https://%s.sentry.io/issues/%s/", org, issueID),
		fmt.Sprintf("Created: %s\nSource: %s seeder", time.Now().Format("2006-01-02"), config.ServiceName),
	}, "\n\n")

	fmt.Printf("Creating Jira issue in project '%s'\n", project)

	key, err := client.CreateIssue(cmd.Context(), tickets.CreateIssueRequest{
		Project:     project,
		Summary:     "[Sentry] " + summary,
		Description: description,
		Type:        issueType,
		Labels:      labels,
		Priority:    priority,
	})
	if err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}

	fmt.Printf("Created Jira issue %s\n", key)
	fmt.Printf("Browse: %s\n", client.BrowseURL(key))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
