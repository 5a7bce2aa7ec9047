package prompts

import (
	"fmt"
	"strings"
)

// BuildPeerPrompt wraps the original post with the peer-response request
func BuildPeerPrompt(post string) string {
	return PeerInstruction + "\n\n" + post
}

// BuildCombinePrompt labels the original post and both drafts and asks for one
// merged, polished reply
func BuildCombinePrompt(post, draftA, draftB string) string {
	var prompt strings.Builder

	prompt.WriteString(CombineInstruction + "\n\n")
	writeSection(&prompt, OriginalPostLabel, post)
	prompt.WriteString("\n\n")
	writeSection(&prompt, PeerResponseALabel, draftA)
	prompt.WriteString("\n\n")
	writeSection(&prompt, PeerResponseBLabel, draftB)
	prompt.WriteString("\n")

	return prompt.String()
}

// BuildCriticPrompt embeds the word-count bounds and the fixed review criteria
// ahead of the text under review
func BuildCriticPrompt(text string, minWords, maxWords int) string {
	var prompt strings.Builder

	prompt.WriteString(ReviewerRole + " " + CriteriaIntro + "\n")
	prompt.WriteString(fmt.Sprintf(WordCountCriterion, minWords, maxWords) + "\n")
	prompt.WriteString(ToneCriterion + "\n")
	prompt.WriteString(CitationCriterion + "\n")
	prompt.WriteString(TakeawayCriterion + "\n")
	prompt.WriteString(VerdictInstruction + "\n\n")
	writeSection(&prompt, TextLabel, text)

	return prompt.String()
}

// BuildRevisePrompt hands the reviewer feedback and the text back for one revision
func BuildRevisePrompt(text, feedback string) string {
	var prompt strings.Builder

	prompt.WriteString(ReviseInstruction + "\n\n")
	writeSection(&prompt, ReviewerNotesLabel, feedback)
	prompt.WriteString("\n\n")
	writeSection(&prompt, TextToReviseLabel, text)

	return prompt.String()
}

func writeSection(prompt *strings.Builder, label, body string) {
	prompt.WriteString(label)
	prompt.WriteString("\n")
	prompt.WriteString(body)
}
