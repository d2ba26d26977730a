package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"mcp-image-foundry/foundry"
	"mcp-image-foundry/mcp"
	"mcp-image-foundry/utils"
)

// Result statuses of the generate_image output contract.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Defaults applied when optional arguments are omitted.
const (
	defaultSize    = "1024x1024"
	defaultQuality = "standard"
	defaultN       = 1
	defaultVideoID = "test"
	defaultPrefix  = "img"
)

// GenerateImageParams is the validated, typed view of raw generate_image
// arguments. Construction either succeeds with every field populated or
// fails with an invalid-params error; no partial instance escapes.
type GenerateImageParams struct {
	Prompt  string
	Size    string
	Quality string
	N       int

	// Artifact association fields; they shape persisted filenames and are
	// never sent to the backend.
	VideoID     string
	SceneNumber int
	TalkNumber  int
	Prefix      string
}

// GeneratedImage is one normalized backend result entry.
type GeneratedImage struct {
	URL           string `json:"url"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// GenerationResult is the stable output contract of generate_image. Callers
// see this shape regardless of which backend failure occurred.
type GenerationResult struct {
	Status       string           `json:"status"`
	Images       []GeneratedImage `json:"images"`
	Created      int64            `json:"created"`
	ErrorMessage string           `json:"error_message,omitempty"`
}

func invalidParams(message string) *mcp.RPCError {
	return &mcp.RPCError{Code: mcp.CodeInvalidParams, Message: "Invalid params: " + message}
}

// parseGenerateImageParams validates raw tool arguments and applies the
// documented defaults. JSON-decoded numbers arrive as float64 and must be
// integral where an integer is expected.
func parseGenerateImageParams(args map[string]interface{}) (GenerateImageParams, *mcp.RPCError) {
	var params GenerateImageParams

	rawPrompt, present := args["prompt"]
	if !present || rawPrompt == nil {
		return params, invalidParams("prompt is required")
	}
	prompt, ok := rawPrompt.(string)
	if !ok || prompt == "" {
		return params, invalidParams("prompt is required")
	}
	params.Prompt = prompt

	size, rpcErr := optionalString(args, "size", defaultSize)
	if rpcErr != nil {
		return params, rpcErr
	}
	params.Size = size

	quality, rpcErr := optionalString(args, "quality", defaultQuality)
	if rpcErr != nil {
		return params, rpcErr
	}
	params.Quality = quality

	n, nOK := intArg(args, "n", defaultN)
	if !nOK || n <= 0 {
		return params, invalidParams("n must be a positive integer")
	}
	params.N = n

	videoID, rpcErr := optionalString(args, "video_id", defaultVideoID)
	if rpcErr != nil {
		return params, rpcErr
	}
	params.VideoID = videoID

	scene, sceneOK := intArg(args, "scene_number", 0)
	if !sceneOK {
		return params, invalidParams("'scene_number' must be an integer")
	}
	params.SceneNumber = scene

	talk, talkOK := intArg(args, "talk_number", 0)
	if !talkOK {
		return params, invalidParams("'talk_number' must be an integer")
	}
	params.TalkNumber = talk

	prefix, rpcErr := optionalString(args, "prefix", defaultPrefix)
	if rpcErr != nil {
		return params, rpcErr
	}
	params.Prefix = prefix

	return params, nil
}

func optionalString(args map[string]interface{}, key, fallback string) (string, *mcp.RPCError) {
	raw, present := args[key]
	if !present || raw == nil {
		return fallback, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", invalidParams(fmt.Sprintf("'%s' must be a string", key))
	}
	return value, nil
}

// intArg reads an integer argument, tolerating the numeric types a JSON
// decoder may produce. The second return is false when the value is present
// but not an integral number.
func intArg(args map[string]interface{}, key string, fallback int) (int, bool) {
	raw, present := args[key]
	if !present || raw == nil {
		return fallback, true
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(parsed), true
	default:
		return 0, false
	}
}

// callGenerateImage handles image generation requests. Validation failures
// fail the tool call; backend failures are normalized into the result.
func (h *Handler) callGenerateImage(ctx context.Context, args map[string]interface{}) (interface{}, *mcp.RPCError) {
	h.logger.Debug("Executing callGenerateImage tool")

	params, rpcErr := parseGenerateImageParams(args)
	if rpcErr != nil {
		h.logger.Warn("Rejected generate_image arguments", "error", rpcErr.Message)
		return nil, rpcErr
	}

	result := h.generate(ctx, params)
	return toolResultEnvelope(result)
}

// generate invokes the backend and normalizes its outcome. Every
// backend-raised fault is caught here; the raw error is logged and only
// the stable contract crosses this boundary.
func (h *Handler) generate(ctx context.Context, params GenerateImageParams) *GenerationResult {
	h.logger.Info("Generating images",
		"prompt_chars", len(params.Prompt),
		"size", params.Size,
		"quality", params.Quality,
		"n", params.N,
	)

	if h.imageClient == nil || h.imageClient.API == nil {
		h.logger.Error("Image backend client not configured")
		return errorResult("image backend client is not configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	resp, err := h.imageClient.API.CreateImage(callCtx, openai.ImageRequest{
		Model:   h.imageClient.Deployment,
		Prompt:  params.Prompt,
		Size:    params.Size,
		Quality: params.Quality,
		N:       params.N,
	})
	if err != nil {
		h.logger.Error("Image generation failed",
			"fault", string(foundry.Classify(err)),
			"size", params.Size,
			"n", params.N,
			"error", err,
		)
		return errorResult(foundry.Summary(err))
	}

	images := make([]GeneratedImage, 0, len(resp.Data))
	for _, item := range resp.Data {
		img := GeneratedImage{URL: item.URL, RevisedPrompt: item.RevisedPrompt}
		if img.URL == "" && item.B64JSON != "" {
			filename := utils.ImageFileName(params.Prefix, params.VideoID, params.SceneNumber, params.TalkNumber)
			savedPath, saveErr := utils.SaveImage(h.config.OutputPath, filename, item.B64JSON)
			if saveErr != nil {
				h.logger.Error("Failed to persist generated image", "error", saveErr)
				return errorResult(fmt.Sprintf("failed to persist generated image: %v", saveErr))
			}
			img.URL = savedPath
		}
		images = append(images, img)
	}

	created := resp.Created
	if created == 0 {
		created = time.Now().Unix()
	}

	h.logger.Debug("Image generation completed", "image_count", len(images))
	return &GenerationResult{
		Status:  StatusSuccess,
		Images:  images,
		Created: created,
	}
}

func errorResult(message string) *GenerationResult {
	return &GenerationResult{
		Status:       StatusError,
		Images:       []GeneratedImage{},
		Created:      time.Now().Unix(),
		ErrorMessage: message,
	}
}
