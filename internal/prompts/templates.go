package prompts

// Instruction templates used by the draft, combine, critique and revise stages.
const (
	// PeerInstruction frames the original post for an independent draft
	PeerInstruction = "Please provide a peer response to the following:"

	// CombineInstruction asks the combining model to merge both drafts
	CombineInstruction = "Please combine what I have pasted and rewrite in a polished way:"

	// ReviewerRole sets up the critic before the review criteria
	ReviewerRole = "You are a strict reviewer for a graduate discussion reply."

	// CriteriaIntro precedes the numbered review criteria
	CriteriaIntro = "Check the text against 4 criteria:"

	// VerdictInstruction tells the critic how to shape its reply. The first
	// line is read back as the verdict.
	VerdictInstruction = "Respond with a short verdict line: PASS or FAIL, then a single paragraph of fixes if FAIL."

	// ReviseInstruction asks the revising model to apply the reviewer notes
	ReviseInstruction = "Revise the following to satisfy the reviewer's notes. Keep it concise and polished."

	// PingPrompt is the trivial prompt used by the connectivity check
	PingPrompt = "Ping"
)

// Review criteria. The word-count criterion is formatted with the configured bounds.
const (
	WordCountCriterion = "1) Word count between %d-%d"
	ToneCriterion      = "2) Collegial, constructive tone"
	CitationCriterion  = "3) No fabricated citations; only reference what the user provided"
	TakeawayCriterion  = "4) Clear takeaway + one practical suggestion"
)

// Section labels
const (
	OriginalPostLabel  = "ORIGINAL POST:"
	PeerResponseALabel = "PEER RESPONSE A (ChatGPT):"
	PeerResponseBLabel = "PEER RESPONSE B (Claude):"
	TextLabel          = "TEXT:"
	ReviewerNotesLabel = "REVIEWER NOTES:"
	TextToReviseLabel  = "TEXT TO REVISE:"
)
