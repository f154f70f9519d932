package generator

import (
	"fmt"
	"strings"

	"github.com/anastasianlp/georgian-rag/internal/contextassembler"
	"github.com/anastasianlp/georgian-rag/internal/domain"
	"github.com/anastasianlp/georgian-rag/internal/lang"
)

const (
	descriptionLimit = 300
	enrichmentLimit  = 200
)

// languagePreamble hard-codes the target language name, forbids
// code-mixing except for proper nouns, and gives one concrete example.
// The retrieved context stays RU/EN; only the reply switches language.
func languagePreamble(targetLanguage string) string {
	name := lang.LanguageName(targetLanguage)
	upper := strings.ToUpper(name)
	return fmt.Sprintf(`---
SYSTEM: ROLE AND LANGUAGE INSTRUCTIONS

ROLE: You are an expert Georgian tourism guide. Your tone is engaging, helpful, and inspiring.

CONTEXT LANGUAGE: The context below is in its original language (Russian or English) for maximum accuracy.

TASK: Read the context and user's query carefully. Then generate a comprehensive, structured, and helpful response.

---
CRITICAL: LANGUAGE REQUIREMENT

Your ENTIRE response MUST be written in: **%s**

RULES:
- Do NOT mix languages
- Exception: Keep proper nouns, names, titles (e.g., "Svetitskhoveli", "Narikala") in their original script if no common translation exists
- Write ALL headers, descriptions, and explanations in %s

EXAMPLE (if target is French):
CORRECT: "La cathédrale de Svetitskhoveli a été construite au 11ème siècle..."
WRONG: "The Svetitskhoveli cathedral was built in the 11th century..."

---
NOW BEGIN YOUR RESPONSE IN **%s**:
`, upper, name, name)
}

// promptIntent buckets the analyzer's intent into the four prompt bodies.
func promptIntent(intent domain.Intent, hasHistory bool) string {
	if hasHistory {
		return "follow_up"
	}
	switch intent {
	case domain.IntentExploratory, domain.IntentComparative:
		return "recommendation"
	case domain.IntentNavigational:
		return "route_planning"
	default:
		return "info_request"
	}
}

var promptBodies = map[string]string{
	"info_request": `You are an expert Georgian tourism guide. A user asked: "%s"

RELEVANT INFORMATION (%d results):
%s

ADDITIONAL DETAILS:
%s

AVAILABLE VISUALS:
%s

INSTRUCTIONS:
- Provide comprehensive, engaging information (200-300 words)
- Use markdown formatting (headers, lists, emojis)
- Highlight unique cultural aspects
- Be enthusiastic and inspiring
- Reference available photos when relevant
- Include practical tips if applicable

Create an amazing response that makes them want to visit!`,

	"recommendation": `You are an expert Georgian tourism guide helping with recommendations: "%s"

RELEVANT INFORMATION (%d results):
%s

ADDITIONAL DETAILS:
%s

AVAILABLE VISUALS:
%s

INSTRUCTIONS:
- Suggest top 3-5 best options based on their interests
- Explain WHY each recommendation fits their needs
- Provide practical details (location, accessibility, best time)
- Use engaging, persuasive language (200-300 words)
- Include cultural context
- Reference available photos

Help them discover the perfect Georgian experience!`,

	"route_planning": `You are an expert Georgian tourism guide helping plan an itinerary: "%s"

RELEVANT INFORMATION (%d results):
%s

ADDITIONAL DETAILS:
%s

AVAILABLE VISUALS:
%s

INSTRUCTIONS:
- Create a logical, efficient route/plan
- Include travel times and practical logistics
- Suggest optimal visiting times
- Highlight must-see vs optional stops
- Provide insider tips (200-300 words)
- Make it realistic and enjoyable

Design the perfect Georgian adventure!`,

	"follow_up": `You are continuing a conversation about Georgian tourism: "%s"

RELEVANT INFORMATION (%d results):
%s

ADDITIONAL DETAILS:
%s

AVAILABLE VISUALS:
%s

INSTRUCTIONS:
- Provide additional relevant information (150-200 words)
- Build on previous conversation context
- Include new details not mentioned before
- Keep enthusiastic, helpful tone
- Reference available photos

Continue helping them explore Georgia!`,
}

// BuildPrompt produces the full two-part prompt: language preamble plus
// the intent-selected English body with results, enrichment, and images
// interpolated.
func BuildPrompt(ctx contextassembler.Context) string {
	intent := promptIntent(ctx.QueryInfo.Intent, ctx.ConversationHistory != "")
	body, ok := promptBodies[intent]
	if !ok {
		body = promptBodies["info_request"]
	}

	filled := fmt.Sprintf(body,
		ctx.QueryInfo.OriginalQuery,
		ctx.TotalResults,
		formatResults(ctx),
		formatEnrichment(ctx),
		formatImages(ctx),
	)

	var sb strings.Builder
	sb.WriteString(languagePreamble(ctx.QueryInfo.TargetLanguage))
	sb.WriteString("\n\n")
	if ctx.ConversationHistory != "" {
		sb.WriteString("PREVIOUS CONVERSATION:\n")
		sb.WriteString(ctx.ConversationHistory)
		sb.WriteString("\n\n")
	}
	sb.WriteString(filled)
	return sb.String()
}

func formatResults(ctx contextassembler.Context) string {
	if len(ctx.Results) == 0 {
		return "No results found."
	}
	var sb strings.Builder
	limit := len(ctx.Results)
	if limit > 3 {
		limit = 3
	}
	for _, r := range ctx.Results[:limit] {
		fmt.Fprintf(&sb, "\nName: %s\nDescription: %s\nCategory: %s\nLocation: %s\nRelevance: %.3f\n",
			r.Name, truncateText(r.Description, descriptionLimit), r.Category, r.Location, r.Score)
		if r.ImageURL != "" {
			fmt.Fprintf(&sb, "📸 Photo available: %s\n", r.ImageURL)
		}
	}
	return sb.String()
}

func formatEnrichment(ctx contextassembler.Context) string {
	var sb strings.Builder
	if ctx.Enrichment.WikipediaContent != "" {
		fmt.Fprintf(&sb, "Additional Info: %s\n", truncateText(ctx.Enrichment.WikipediaContent, enrichmentLimit))
	}
	for i, pr := range ctx.Enrichment.PracticalResults {
		if i >= 2 {
			break
		}
		fmt.Fprintf(&sb, "Practical: %s - %s\n", pr.Title, truncateText(pr.Snippet, enrichmentLimit))
	}
	if sb.Len() == 0 {
		return "None."
	}
	return sb.String()
}

func formatImages(ctx contextassembler.Context) string {
	if len(ctx.Images) == 0 {
		return "No photos available"
	}
	var lines []string
	for i, img := range ctx.Images {
		if i >= 5 {
			break
		}
		label := img.Place
		if label == "" {
			label = img.Source
		}
		lines = append(lines, fmt.Sprintf("📸 %s: %s", label, img.URL))
	}
	return "Available photos:\n" + strings.Join(lines, "\n")
}

func truncateText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
