package ai

import (
	"AnimalPics/internal/config"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
)

// VisionCaptioner отправляет ссылку на картинку в OpenAI и получает короткую подпись.
type VisionCaptioner struct {
	client *openai.Client
	model  openai.ChatModel
	prompt string
}

func NewVisionCaptioner(client *openai.Client, cfg config.CaptionConfig) *VisionCaptioner {
	model := openai.ChatModel(cfg.Model)
	if model == "" {
		model = openai.ChatModelGPT4o
	}
	return &VisionCaptioner{client: client, model: model, prompt: cfg.Prompt}
}

func (c *VisionCaptioner) Caption(ctx context.Context, label string, imageURL string) (string, error) {
	if strings.TrimSpace(imageURL) == "" {
		return "", errors.New("vision caption: empty image url")
	}
	text := c.prompt
	if label != "" {
		text = fmt.Sprintf("%s The animal is a %s.", c.prompt, strings.ToLower(label))
	}

	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						{
							OfInputText: &responses.ResponseInputTextParam{
								Text: text,
							},
						},
						{
							OfInputImage: &responses.ResponseInputImageParam{
								Detail:   responses.ResponseInputImageDetailLow,
								ImageURL: openai.String(imageURL),
							},
						},
					},
					responses.EasyInputMessageRoleUser,
				),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("vision caption: %w", err)
	}

	out := strings.TrimSpace(resp.OutputText())
	if out == "" {
		return "", errors.New("vision caption: empty response")
	}
	return out, nil
}
