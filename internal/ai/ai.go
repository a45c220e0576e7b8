package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Service holds the Gemini client and the default model name. All
// credit-gated AI features (companion chat, meditation scripts, studio
// prompts) and the gallery moderation second pass go through it.
type Service struct {
	Client       *genai.Client
	DefaultModel string
}

// NewService initializes the Gemini client.
func NewService(ctx context.Context, apiKey, defaultModel string) (*Service, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if defaultModel == "" {
		defaultModel = "gemini-1.5-flash"
	}
	return &Service{Client: client, DefaultModel: defaultModel}, nil
}

func (s *Service) Close() error {
	return s.Client.Close()
}

// CompanionReply sends one user message to the model under the given
// companion persona and returns (reply, totalTokens, err).
func (s *Service) CompanionReply(ctx context.Context, persona, userMessage string) (string, int, error) {
	model := s.Client.GenerativeModel(s.DefaultModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(persona + `
			Keep replies warm and conversational, under 200 words.
			You are a wellness companion, not a therapist: if the user
			mentions self-harm or a crisis, gently point them to
			professional help lines.`)},
	}

	res, err := model.GenerateContent(ctx, genai.Text(userMessage))
	if err != nil {
		return "", 0, fmt.Errorf("error sending message: %w", err)
	}

	totalTokens := 0
	if res.UsageMetadata != nil {
		totalTokens = int(res.UsageMetadata.TotalTokenCount)
	}

	reply := firstText(res)
	if reply == "" {
		return "", totalTokens, fmt.Errorf("empty model response")
	}
	return reply, totalTokens, nil
}

// MeditationScript generates a long-form guided meditation around the
// given theme and duration.
func (s *Service) MeditationScript(ctx context.Context, theme string, minutes int) (string, int, error) {
	model := s.Client.GenerativeModel(s.DefaultModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(`
			You write guided meditation scripts. Write in the second
			person, present tense, with [pause] markers between
			sections. No preamble, start directly with the script.`)},
	}

	prompt := fmt.Sprintf("Write a %d minute guided meditation about: %s", minutes, theme)
	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", 0, fmt.Errorf("error generating meditation: %w", err)
	}

	totalTokens := 0
	if res.UsageMetadata != nil {
		totalTokens = int(res.UsageMetadata.TotalTokenCount)
	}

	script := firstText(res)
	if script == "" {
		return "", totalTokens, fmt.Errorf("empty model response")
	}
	return script, totalTokens, nil
}

// FlagContent asks the model whether a gallery post is appropriate for
// a wellness community. Returns true when the post should be held for
// manual review. Used as a second pass after the keyword filter.
func (s *Service) FlagContent(ctx context.Context, text string) (bool, error) {
	model := s.Client.GenerativeModel(s.DefaultModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(`
			You are a content safety reviewer for a wellness community.
			Answer with exactly one word: SAFE or FLAG.
			FLAG anything with harassment, explicit content, spam, or
			medical misinformation.`)},
	}

	res, err := model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return false, fmt.Errorf("moderation call failed: %w", err)
	}

	verdict := strings.TrimSpace(strings.ToUpper(firstText(res)))
	return strings.HasPrefix(verdict, "FLAG"), nil
}

// firstText pulls the first text part out of a Gemini response.
func firstText(res *genai.GenerateContentResponse) string {
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}
	for _, part := range res.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return ""
}
