// Package prompt assembles the instruction text sent to the model.
package prompt

import "strings"

// System is the fixed system-role instruction. It carries the formatting
// guidelines for conventional commit messages.
const System = `You are an expert software developer helping to write clear, concise, and informative commit messages.
Analyze the git diff changes and generate a commit message that follows conventional commit format.

Guidelines:
- Use conventional commit format: <type>(<scope>): <description>
- Common types: feat, fix, docs, style, refactor, test, chore
- Keep the description under 50 characters
- Provide a detailed body explaining WHAT changed and WHY (if needed)
- Focus on the actual changes, not the process
- Be specific about what was added, removed, or modified

Example format:
feat(auth): add user login functionality

- Implement JWT token generation
- Add login endpoint at /api/auth/login
- Include input validation for credentials`

// Build wraps a diff bundle in the per-run user instruction. Recent commit
// subjects, when present, are appended as a style reference. Build is pure
// and accepts any input, including the empty string.
func Build(diffs string, recentCommits []string) string {
	var b strings.Builder

	b.WriteString("Please analyze the following git changes and generate an appropriate commit message:\n\n")
	b.WriteString(diffs)
	b.WriteString("\n")

	if len(recentCommits) > 0 {
		b.WriteString("\nRecent repository commits (style reference only, do not copy):\n")
		for _, c := range recentCommits {
			b.WriteString("- " + c + "\n")
		}
	}

	b.WriteString("\nRemember to follow the conventional commit format and focus on the actual changes made.\n")
	return b.String()
}
