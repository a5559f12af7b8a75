package recognizer

import (
	"context"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

//go:embed prompts/face_attributes.txt
var faceAttributesPrompt string

const openAIModel = openai.ChatModelGPT4_1Mini

// llmFaces is the JSON shape both vision-LLM analyzers ask for.
type llmFaces struct {
	Faces []struct {
		Emotion string `json:"emotion"`
		Age     int    `json:"age"`
	} `json:"faces"`
}

// toAnalyses converts the LLM response shape to FaceAnalysis values,
// honoring the requested actions. Vision LLMs do not report face regions.
func (r llmFaces) toAnalyses(actions []string) []FaceAnalysis {
	wantEmotion, wantAge := false, false
	for _, a := range actions {
		switch a {
		case ActionEmotion:
			wantEmotion = true
		case ActionAge:
			wantAge = true
		}
	}

	faces := make([]FaceAnalysis, 0, len(r.Faces))
	for _, f := range r.Faces {
		var fa FaceAnalysis
		if wantEmotion {
			fa.Emotion = f.Emotion
		}
		if wantAge {
			fa.Age = f.Age
		}
		faces = append(faces, fa)
	}
	return faces
}

// OpenAIAnalyzer estimates face attributes through an OpenAI vision model.
// It implements Analyzer only; verification always needs the DeepFace
// backend.
type OpenAIAnalyzer struct {
	client *openai.Client
}

func NewOpenAIAnalyzer(apiKey string) *OpenAIAnalyzer {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIAnalyzer{client: &client}
}

func (p *OpenAIAnalyzer) Name() string {
	return openAIModel
}

func (p *OpenAIAnalyzer) Analyze(ctx context.Context, img []byte, actions []string) ([]FaceAnalysis, error) {
	const maxRetries = 3

	// Resize image to max 800px to save costs
	resizedData, err := ResizeImage(img, 800)
	if err != nil {
		return nil, fmt.Errorf("failed to resize image: %w", err)
	}

	imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(resizedData)

	messages := []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(faceAttributesPrompt),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						openai.TextContentPart("Estimate face attributes for this photo."),
						openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
							URL:    imageURL,
							Detail: "low",
						}),
					},
				},
			},
		},
	}

	var lastErr error
	for range maxRetries {
		resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    openAIModel,
			Messages: messages,
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			},
			MaxTokens: openai.Int(300),
		})
		if err != nil {
			return nil, fmt.Errorf("OpenAI API error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, errors.New("no response from OpenAI")
		}

		var result llmFaces
		if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
			lastErr = err
			continue
		}
		return result.toAnalyses(actions), nil
	}

	return nil, fmt.Errorf("failed to parse OpenAI response after %d attempts: %w", maxRetries, lastErr)
}
