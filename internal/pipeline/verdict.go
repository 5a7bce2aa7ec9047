package pipeline

import "strings"

// ParseVerdict reads the critic's first line. A case-insensitive "PASS" prefix
// passes; anything else, including an empty reply, fails.
func ParseVerdict(reply string) Verdict {
	first, _, _ := strings.Cut(strings.TrimSpace(reply), "\n")
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(first)), "PASS") {
		return VerdictPass
	}
	return VerdictFail
}
