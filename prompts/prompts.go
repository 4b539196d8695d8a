// Package prompts renders the system instructions handed to the generation
// chain and the canned lines the pipeline speaks without a model: greetings,
// farewells, clarification and retry prompts, per language.
//
// The prompt is a structured specification rendered through a template; the
// behavioral contract (language lock, brevity, no AI self-disclosure, FAQ
// paraphrase-only) lives in the rendered text and is asserted by tests rather
// than scattered through call sites as string concatenation.
package prompts

import (
	"strings"
	"text/template"

	"github.com/vaani-ai/vaani/language"
)

// Spec is the structured input to the conversation system prompt.
type Spec struct {
	Language        language.Language
	CampaignContext string
	FAQContext      string
	FirstTurn       bool
}

var languageInstructions = map[language.Language]string{
	language.English: `You MUST respond in English. Use natural, conversational language.
- Be warm, friendly, and professional
- Use short sentences (max 2-3 per response)
- Avoid technical jargon
- Sound like a helpful friend, not a robot`,
	language.Tamil: `You MUST respond in Tamil script (தமிழ்). Use conversational Tamil.
- Be polite and respectful (use appropriate honorifics)
- Keep responses short and clear
- Use simple, everyday Tamil words
- சிறிய வாக்கியங்களைப் பயன்படுத்துங்கள்`,
	language.Tanglish: `You MUST respond in Tanglish (Tamil words written in English letters).
- Mix Tamil and English naturally, as people speak in Chennai
- Be casual and friendly
- Example: "Seri, naan help pannuren. Unga question enna?"
- Keep it conversational and warm`,
}

var conversationTmpl = template.Must(template.New("conversation").Parse(
	`You are a friendly, helpful marketing assistant on a customer call.

{{.LanguageInstruction}}

CONVERSATION RULES:
1. Be concise - maximum 2-3 short sentences per response
2. Sound natural and conversational, NEVER robotic
3. Use small confirmations like "Sure!", "Got it!", "Of course!"
4. Show genuine interest in helping the customer
5. If you don't know something, politely say so and offer to help differently
6. End responses with a question when appropriate to keep conversation flowing
{{if .FirstTurn}}7. This is the first exchange - open warmly and keep it light
{{end}}
FORBIDDEN PHRASES (never use these):
- "I am an AI"
- "As a language model"
- "I don't have feelings"
- "Is there anything else I can help you with?"
- Any robotic or formal corporate language
{{if .CampaignContext}}
CAMPAIGN CONTEXT:
{{.CampaignContext}}
{{end}}{{if .FAQContext}}
{{.FAQContext}}

Use this FAQ information only if it is relevant to the question. Paraphrase
the answers naturally - do not read them verbatim.
{{end}}`))

type tmplData struct {
	LanguageInstruction string
	CampaignContext     string
	FAQContext          string
	FirstTurn           bool
}

// System renders the conversation system prompt described by spec.
// Unknown languages take the English instruction block.
func System(spec Spec) string {
	instruction, ok := languageInstructions[spec.Language]
	if !ok {
		instruction = languageInstructions[language.English]
	}
	var b strings.Builder
	// The template has no failure mode beyond a broken build: inputs are
	// plain strings.
	_ = conversationTmpl.Execute(&b, tmplData{
		LanguageInstruction: instruction,
		CampaignContext:     spec.CampaignContext,
		FAQContext:          spec.FAQContext,
		FirstTurn:           spec.FirstTurn,
	})
	return b.String()
}

// byLanguage picks a canned line, defaulting to English.
func byLanguage(m map[language.Language]string, lang language.Language) string {
	if s, ok := m[lang]; ok {
		return s
	}
	return m[language.English]
}

var greetings = map[language.Language]string{
	language.English:  "Hi there! Thanks for taking my call. I'm reaching out from %s. How are you doing today?",
	language.Tamil:    "வணக்கம்! %s இலிருந்து அழைக்கிறேன். எப்படி இருக்கீங்க?",
	language.Tanglish: "Hi! %s la irundhu call pannuren. Eppadi irukkeenga?",
}

// Greeting returns the opening line for a call, with the campaign name
// substituted in.
func Greeting(campaignName string, lang language.Language) string {
	return strings.Replace(byLanguage(greetings, lang), "%s", campaignName, 1)
}

var farewells = map[language.Language]string{
	language.English:  "It was lovely talking with you! Take care and have a wonderful day!",
	language.Tamil:    "உங்களுடன் பேசுவது மிகவும் நன்றாக இருந்தது! நல்ல நாள் வாழ்த்துக்கள்!",
	language.Tanglish: "Nalla irundhuchu unga kooda pesuna! Have a great day!",
}

// Farewell returns the closing line for a call.
func Farewell(lang language.Language) string {
	return byLanguage(farewells, lang)
}

var clarifications = map[language.Language]string{
	language.English:  "I want to make sure I understand you correctly. Could you tell me a bit more about that?",
	language.Tamil:    "சரியாக புரிந்து கொள்ள விரும்புகிறேன். கொஞ்சம் விளக்கமாக சொல்ல முடியுமா?",
	language.Tanglish: "Correct-a purinjukka virumbureen. Konjam detail-a solla mudiyuma?",
}

// Clarification asks the caller to expand on an unclear statement.
func Clarification(lang language.Language) string {
	return byLanguage(clarifications, lang)
}

var retries = map[language.Language]string{
	language.English:  "I didn't quite catch that. Could you please repeat?",
	language.Tamil:    "மன்னிக்கவும், மீண்டும் சொல்லுங்கள்?",
	language.Tanglish: "Sorry, konjam puriyala. Please repeat pannunga?",
}

// Retry asks the caller to repeat after a failed transcription or turn.
func Retry(lang language.Language) string {
	return byLanguage(retries, lang)
}

var apologies = map[language.Language]string{
	language.English:  "Sorry, small network issue. Say that again?",
	language.Tamil:    "சாரி, network problem. மீண்டும் சொல்லுங்க?",
	language.Tanglish: "Sorry da, network issue. Munnadi sollunga?",
}

// Apology is spoken when every generation provider has failed. Generation
// always degrades to something sayable.
func Apology(lang language.Language) string {
	return byLanguage(apologies, lang)
}
