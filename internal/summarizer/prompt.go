package summarizer

import "fmt"

const systemPrompt = `You are an expert meeting analyst. You read a speaker-labeled transcript of a recorded meeting and extract what was decided, what has to happen next, and which knowledge was shared. Your answers MUST be grounded in the transcript alone: no outside knowledge, no invented names, no invented dates. If information is missing, leave the field empty instead of guessing.`

const userPromptTemplate = `Analyze the following meeting transcript.

TRANSCRIPT:
"""
%s
"""

Return ONLY a JSON object with these keys:
  summary (2-4 sentence overview of the meeting),
  decision (list of decisions that were explicitly made),
  actions (list of action items, each naming an owner if one was stated),
  explicit (list of explicit knowledge stated as fact in the meeting),
  tacit (list of tacit knowledge: assumptions, habits, unwritten context),
  reasoning (one short paragraph explaining how you derived the above),
  suggestions (list of follow-up suggestions for the team).

Do not wrap the JSON in markdown fences or add any text before or after it.`

// BuildPrompt assembles the two-message summarization request: a system
// instruction fixing the analyst role and a user message embedding the
// transcript with the requested breakdown.
func BuildPrompt(transcript string) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf(userPromptTemplate, transcript)},
	}
}
