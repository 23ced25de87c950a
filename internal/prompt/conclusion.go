package prompt

import (
	"github.com/collab-arena/arena/internal/debate"
	"github.com/collab-arena/arena/internal/llm"
)

// conclusionDirective is the system instruction for the one-shot
// synthesis of a full transcript.
const conclusionDirective = `You have witnessed an intense debate between 16 AI agents about the user's proposal. Produce a FINAL CONCLUSION that synthesizes the strongest arguments, rebuttals and points of consensus from the debate.

Identify where there was real agreement (not politeness), the most important unresolved disagreements, and the key questions that emerged. Produce an actionable technical document grounded in the debate.`

// conclusionSchema is the structured-output instruction appended after
// the transcript.
const conclusionSchema = `You MUST respond EXCLUSIVELY with a single valid JSON object (no text before or after, no markdown code fences) with exactly this structure:

{
  "strategySummary": "Complete description of the agreed system/plan (5-8 sentences, with all key technical details)",
  "profitabilityModel": "Detailed business or benefit model: metrics, projections, key assumptions",
  "riskAssessment": [
    {"risk": "detailed risk description", "severity": "low|medium|high|critical", "mitigation": "concrete mitigation strategy"}
  ],
  "constraints": ["technical assumption or condition 1", "technical assumption or condition 2"],
  "implementationSteps": ["Detailed step 1 with technologies/tools", "Step 2..."],
  "openQuestions": ["Pending technical question 1", "Pending technical question 2"]
}

Produce at least 5 risks, 7 detailed implementation steps and 3 open questions. Steps must be actionable with specific technologies. Respond in the same language as the user's original proposal.`

// BuildConclusionMessages produces the one-shot conclusion prompt: a
// synthesis system directive and a single user turn carrying the entire
// transcript, uncompressed, followed by the structured-output
// instruction.
func BuildConclusionMessages(history []debate.Message) []llm.ChatMessage {
	return []llm.ChatMessage{
		{Role: llm.RoleSystem, Content: conclusionDirective},
		{Role: llm.RoleUser, Content: RenderTranscript(history) + "\n\n" + conclusionSchema},
	}
}
