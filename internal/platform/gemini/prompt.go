package gemini

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/ali-aktas/hocalingo-api/internal/generation"
)

// promptData is the data passed to the prompt template.
type promptData struct {
	Category string
	Level    string
	Count    int
}

// defaultPromptTemplate is used when no template path is configured. It asks
// for plain JSON matching the response schema in internal/generation.
const defaultPromptTemplate = `You are building study material for a Turkish speaker learning English.

Generate exactly {{.Count}} English vocabulary items for the category "{{.Category}}" at CEFR level {{.Level}}.

Respond with a JSON array only. Each element must be an object with these fields:
- "text": the English word or phrase
- "translation": its Turkish translation
- "examples": up to two short example sentences in English (optional)
- "pronunciation": a simple phonetic hint for the English word (optional)

Pick words a learner at level {{.Level}} is likely to encounter but may not know yet.
Do not include commentary, markdown fences, or any content outside the JSON array.`

// loadPromptTemplate parses the template at path, or the built-in default
// when path is empty.
func loadPromptTemplate(path string) (*template.Template, error) {
	text := defaultPromptTemplate
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: failed to read prompt template %q: %v",
				generation.ErrInvalidConfig,
				path,
				err,
			)
		}
		text = string(raw)
	}

	tmpl, err := template.New("item_generation").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", generation.ErrInvalidConfig, err)
	}
	return tmpl, nil
}

// buildPrompt renders the prompt template for a validated generation request.
func (g *GeminiGenerator) buildPrompt(req generation.Request) (string, error) {
	data := promptData{
		Category: req.Category,
		Level:    req.Level,
		Count:    req.Count,
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: failed to render prompt template: %v", generation.ErrGenerationFailed, err)
	}
	return buf.String(), nil
}
