package formula

import (
	"fmt"
	"regexp"
	"strings"
)

// SecretPattern represents a pattern that suggests a credential was written
// into a formula instead of being read from the environment.
type SecretPattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Description string
}

var secretPatterns = []SecretPattern{
	{
		Name:        "GitHub Token",
		Pattern:     regexp.MustCompile(`\b(gh[pousr]_[A-Za-z0-9]{36,}|github_pat_[A-Za-z0-9_]{22,})\b`),
		Description: "GitHub token literal",
	},
	{
		Name:        "Token In URL",
		Pattern:     regexp.MustCompile(`https://[^/\s"'@]+@(api\.)?github\.com/`),
		Description: "credentials embedded in a GitHub URL",
	},
	{
		Name:        "Token Field",
		Pattern:     regexp.MustCompile(`(?i)\b(token|auth[_-]?token|access[_-]?token)\s*=\s*['"][A-Za-z0-9_-]{15,}['"]`),
		Description: "token assigned to a field",
	},
}

// SecretFinding is one suspicious line in a formula.
type SecretFinding struct {
	PatternName string
	Description string
	Line        int
	Preview     string // redacted
}

// DetectSecrets scans formula source for hardcoded credentials.
func DetectSecrets(content string) []SecretFinding {
	var findings []SecretFinding
	for lineNum, line := range strings.Split(content, "\n") {
		for _, p := range secretPatterns {
			if loc := p.Pattern.FindStringIndex(line); loc != nil {
				findings = append(findings, SecretFinding{
					PatternName: p.Name,
					Description: p.Description,
					Line:        lineNum + 1,
					Preview:     redact(line, loc),
				})
			}
		}
	}
	return findings
}

func redact(line string, loc []int) string {
	return strings.TrimSpace(line[:loc[0]] + "[REDACTED]" + line[loc[1]:])
}

// FormatSecretWarning renders findings for the terminal. It returns "" when
// there are none.
func FormatSecretWarning(findings []SecretFinding) string {
	if len(findings) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Potential credentials found in formula:\n")
	for _, f := range findings {
		fmt.Fprintf(&sb, "  line %d: %s\n    %s\n", f.Line, f.Description, f.Preview)
	}
	sb.WriteString("Private downloads read the token from HOMEBREW_GITHUB_API_TOKEN; remove it from the formula.\n")
	return sb.String()
}
