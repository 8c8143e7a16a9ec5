package sentry

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	maxStackLines = 15
	maxStackFiles = 5
)

// Field patterns for the markdown snapshot format written by the sync bot.
var (
	shortIDRe     = regexp.MustCompile(`# Issue ([A-Z0-9-]+)`)
	titleRe       = regexp.MustCompile(`\*\*Description\*\*: (.+)`)
	culpritRe     = regexp.MustCompile(`\*\*Culprit\*\*: (.+)`)
	platformRe    = regexp.MustCompile(`\*\*Platform\*\*: (.+)`)
	occurrencesRe = regexp.MustCompile(`\*\*Occurrences\*\*: (\d+)`)
	usersRe       = regexp.MustCompile(`\*\*Users Impacted\*\*: (\d+)`)
	firstSeenRe   = regexp.MustCompile(`\*\*First Seen\*\*: (.+)`)
	lastSeenRe    = regexp.MustCompile(`\*\*Last Seen\*\*: (.+)`)
	statusRe      = regexp.MustCompile(`\*\*Status\*\*: (.+)`)
	errorBlockRe  = regexp.MustCompile("(?s)### Error\n+```\n(.+?)\n```")
	stackBlockRe  = regexp.MustCompile("(?s)\\*\\*Full Stacktrace:\\*\\*\n.*?```\n(.+?)```")
	linkFieldRe   = regexp.MustCompile(`\*\*URL\*\*: (https://\S+)`)

	stackFileRe = regexp.MustCompile(`(?:from |in )?(?:app|src|lib)/[\w/]+\.\w+`)
)

// ParseIssueText recovers an Issue from the markdown snapshot. Missing fields
// get neutral defaults; the parser never fails.
func ParseIssueText(raw string) Issue {
	return Issue{
		ShortID:       extract(shortIDRe, raw, "UNKNOWN"),
		Title:         extract(titleRe, raw, "Unknown error"),
		Culprit:       extract(culpritRe, raw, "Unknown"),
		Platform:      extract(platformRe, raw, "unknown"),
		Occurrences:   extractInt(occurrencesRe, raw),
		UsersImpacted: extractInt(usersRe, raw),
		FirstSeen:     extract(firstSeenRe, raw, ""),
		LastSeen:      extract(lastSeenRe, raw, ""),
		Status:        extract(statusRe, raw, "unknown"),
		ErrorMessage:  extract(errorBlockRe, raw, ""),
		Stacktrace:    applicationStack(raw),
		URL:           extract(linkFieldRe, raw, ""),
	}
}

// applicationStack pulls the fenced stacktrace block and keeps the frames
// that reference application code (app/, src/, lib/), capped at
// maxStackLines. When no frame matches it keeps the head of the trace.
func applicationStack(raw string) string {
	m := stackBlockRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(m[1]), "\n")
	var app []string
	for _, line := range lines {
		if strings.Contains(line, "app/") || strings.Contains(line, "src/") || strings.Contains(line, "lib/") {
			app = append(app, line)
			if len(app) == maxStackLines {
				break
			}
		}
	}
	if len(app) > 0 {
		return strings.Join(app, "\n")
	}
	if len(lines) > maxStackLines {
		lines = lines[:maxStackLines]
	}
	return strings.Join(lines, "\n")
}

// StackFiles lists application file paths referenced by a stacktrace,
// deduplicated in order of appearance, capped at maxStackFiles.
func StackFiles(stacktrace string) []string {
	matches := stackFileRe.FindAllString(stacktrace, -1)
	seen := make(map[string]struct{}, len(matches))
	var files []string
	for _, m := range matches {
		f := strings.TrimPrefix(strings.TrimPrefix(m, "from "), "in ")
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		files = append(files, f)
		if len(files) == maxStackFiles {
			break
		}
	}
	return files
}

func extract(re *regexp.Regexp, s, fallback string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return fallback
}

func extractInt(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
