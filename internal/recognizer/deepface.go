package recognizer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxFrameSize caps the dimensions of frames sent over the wire.
const maxFrameSize = 1024

// DeepFaceClient talks to a DeepFace-compatible REST service. It is the
// only backend that implements both Verifier and Analyzer. One client is
// created at startup and shared by all requests.
type DeepFaceClient struct {
	baseURL    string
	model      string
	threshold  float64
	httpClient *http.Client
}

// NewDeepFaceClient creates a client for the service at baseURL using a
// fixed recognition model and verification distance threshold.
func NewDeepFaceClient(baseURL, model string, threshold float64) *DeepFaceClient {
	return &DeepFaceClient{
		baseURL:   baseURL,
		model:     model,
		threshold: threshold,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *DeepFaceClient) Name() string {
	return "deepface/" + c.model
}

// Model returns the fixed recognition model name.
func (c *DeepFaceClient) Model() string { return c.model }

// encodeFrame normalizes an image and wraps it as a base64 data URI, the
// payload format the DeepFace API accepts for image fields.
func encodeFrame(img []byte) (string, error) {
	resized, err := ResizeImage(img, maxFrameSize)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(resized), nil
}

type verifyRequest struct {
	Img1             string  `json:"img1"`
	Img2             string  `json:"img2"`
	ModelName        string  `json:"model_name"`
	Threshold        float64 `json:"threshold"`
	EnforceDetection bool    `json:"enforce_detection"`
}

type verifyResponse struct {
	Verified bool    `json:"verified"`
	Distance float64 `json:"distance"`
}

// Verify compares a query frame against one reference image. Detection is
// never enforced: the service scores whatever it finds, and a detection
// failure surfaces as an error for the caller to absorb.
func (c *DeepFaceClient) Verify(ctx context.Context, query, reference []byte) (MatchResult, error) {
	img1, err := encodeFrame(query)
	if err != nil {
		return MatchResult{}, fmt.Errorf("encoding query frame: %w", err)
	}
	img2, err := encodeFrame(reference)
	if err != nil {
		return MatchResult{}, fmt.Errorf("encoding reference frame: %w", err)
	}

	var resp verifyResponse
	if err := c.postJSON(ctx, "verify", verifyRequest{
		Img1:             img1,
		Img2:             img2,
		ModelName:        c.model,
		Threshold:        c.threshold,
		EnforceDetection: false,
	}, &resp); err != nil {
		return MatchResult{}, err
	}

	return MatchResult{Verified: resp.Verified, Distance: resp.Distance}, nil
}

type analyzeRequest struct {
	Img              string   `json:"img"`
	Actions          []string `json:"actions"`
	EnforceDetection bool     `json:"enforce_detection"`
}

type analyzeResult struct {
	Age             int         `json:"age"`
	DominantEmotion string      `json:"dominant_emotion"`
	Region          *FaceRegion `json:"region"`
}

// Analyze requests attribute estimation for every face in the frame. The
// service returns either a list of per-face objects or a single object;
// both shapes normalize to a slice.
func (c *DeepFaceClient) Analyze(ctx context.Context, img []byte, actions []string) ([]FaceAnalysis, error) {
	frame, err := encodeFrame(img)
	if err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}

	var resp struct {
		Results json.RawMessage `json:"results"`
	}
	if err := c.postJSON(ctx, "analyze", analyzeRequest{
		Img:              frame,
		Actions:          actions,
		EnforceDetection: false,
	}, &resp); err != nil {
		return nil, err
	}

	return parseAnalyzeResults(resp.Results)
}

// parseAnalyzeResults accepts both response shapes: a JSON array of face
// objects or one bare object.
func parseAnalyzeResults(raw json.RawMessage) ([]FaceAnalysis, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("analyze response has no results")
	}

	var list []analyzeResult
	if err := json.Unmarshal(raw, &list); err != nil {
		var single analyzeResult
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("could not parse analyze results: %w", err)
		}
		list = []analyzeResult{single}
	}

	faces := make([]FaceAnalysis, 0, len(list))
	for _, r := range list {
		faces = append(faces, FaceAnalysis{
			Emotion: r.DominantEmotion,
			Age:     r.Age,
			Region:  r.Region,
		})
	}
	return faces, nil
}

// postJSON performs a POST request with a JSON body against the service
// and unmarshals the JSON response into result.
func (c *DeepFaceClient) postJSON(ctx context.Context, endpoint string, requestBody, result any) error {
	apiURL, err := url.JoinPath(c.baseURL, endpoint)
	if err != nil {
		return fmt.Errorf("could not build API URL: %w", err)
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("could not marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s failed with status %d: %s", endpoint, resp.StatusCode, truncateBody(body))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("could not unmarshal %s response: %w", endpoint, err)
	}
	return nil
}

// truncateBody keeps error messages readable when the service returns a
// long HTML error page.
func truncateBody(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
