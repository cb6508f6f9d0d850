package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/carlmjohnson/versioninfo"

	"github.com/chatwarden/warden/util"
)

// NSFWClassifier calls an NSFW image classifier service (micro-nsfw-img or
// compatible) over HTTP and folds the class probabilities into one score.
type NSFWClassifier struct {
	Client   *http.Client
	Endpoint string
}

var _ Classifier = (*NSFWClassifier)(nil)

// response schema of the classifier service
type nsfwResp struct {
	Drawings float64 `json:"drawings"`
	Hentai   float64 `json:"hentai"`
	Neutral  float64 `json:"neutral"`
	Porn     float64 `json:"porn"`
	Sexy     float64 `json:"sexy"`
}

func NewNSFWClassifier(endpoint string) *NSFWClassifier {
	return &NSFWClassifier{
		Client:   util.RobustHTTPClient(),
		Endpoint: endpoint,
	}
}

func (c *NSFWClassifier) ScoreImage(ctx context.Context, img []byte) (float64, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "avatar")
	if err != nil {
		return 0, err
	}
	if _, err := part.Write(img); err != nil {
		return 0, err
	}
	if err := writer.Close(); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, body)
	if err != nil {
		return 0, err
	}
	req.Header.Add("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", "warden/"+versioninfo.Short())

	res, err := c.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("nsfw classifier request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("nsfw classifier request failed: status=%d", res.StatusCode)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, fmt.Errorf("reading nsfw classifier response: %w", err)
	}
	var scores nsfwResp
	if err := json.Unmarshal(raw, &scores); err != nil {
		return 0, fmt.Errorf("parsing nsfw classifier response: %w", err)
	}
	return maxScore(scores.Porn, scores.Hentai, scores.Sexy), nil
}

func maxScore(vals ...float64) float64 {
	out := 0.0
	for _, v := range vals {
		if v > out {
			out = v
		}
	}
	return out
}
