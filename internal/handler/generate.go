package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// GenerateHandler proxies the bundled text-generation endpoint.  Without an
// API key it answers with a canned payload so the frontend works offline;
// with one it forwards the request to the chat completions API.
type GenerateHandler struct {
	APIKey string
	APIURL string
	Client *http.Client
	Log    zerolog.Logger
}

// NewGenerateHandler reads OPENAI_API_KEY and OPENAI_API_URL from the
// environment.  The URL override exists for tests and self-hosted gateways.
func NewGenerateHandler(log zerolog.Logger) *GenerateHandler {
	url := os.Getenv("OPENAI_API_URL")
	if url == "" {
		url = "https://api.openai.com/v1/chat/completions"
	}
	return &GenerateHandler{
		APIKey: os.Getenv("OPENAI_API_KEY"),
		APIURL: url,
		Client: &http.Client{Timeout: 30 * time.Second},
		Log:    log,
	}
}

type generateReq struct {
	VideoURL     string `json:"videoUrl"`
	MaxQuestions int    `json:"maxQuestions"`
}

type generateQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type generateResp struct {
	Summary     string             `json:"summary"`
	SummaryHTML string             `json:"summary_html"`
	Questions   []generateQuestion `json:"questions"`
}

// Generate handles POST /api/generate.
func (h *GenerateHandler) Generate(c echo.Context) error {
	var req generateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "videoUrl required"})
	}
	if req.VideoURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "videoUrl required"})
	}
	if req.MaxQuestions <= 0 {
		req.MaxQuestions = 5
	}

	if h.APIKey == "" {
		// No key configured: return the safe mock response.
		return c.JSON(http.StatusOK, mockGeneration(req.VideoURL, req.MaxQuestions))
	}

	payload := map[string]any{
		"model": "gpt-4o-mini",
		"messages": []map[string]string{
			{"role": "system", "content": `You output JSON only: {"summary":"...","summary_html":"...","questions":[{"question":"...","answer":"..."}] }`},
			{"role": "user", "content": fmt.Sprintf(
				"You are an assistant that reads a short description or metadata about a video and returns: 1) a 2-3 paragraph summary in plain text, 2) an HTML-safe summary in a single string, and 3) a JSON array of %d question objects with 'question' and concise 'answer' fields. Return JSON only.\n\nVideo reference: %s",
				req.MaxQuestions, req.VideoURL)},
		},
		"temperature": 0.2,
		"max_tokens":  800,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}

	upReq, err := http.NewRequestWithContext(c.Request().Context(), http.MethodPost, h.APIURL, bytes.NewReader(body))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}
	upReq.Header.Set("Content-Type", "application/json")
	upReq.Header.Set("Authorization", "Bearer "+h.APIKey)

	resp, err := h.Client.Do(upReq)
	if err != nil {
		h.Log.Error().Err(err).Msg("generation upstream call failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		h.Log.Error().Int("status", resp.StatusCode).Str("detail", string(detail)).Msg("generation upstream error")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "OpenAI API error", "detail": string(detail)})
	}

	var up struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil || len(up.Choices) == 0 {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}

	assistant := up.Choices[0].Message.Content
	var parsed generateResp
	if err := json.Unmarshal([]byte(assistant), &parsed); err != nil {
		// Assistant replied with plain text; wrap it.
		parsed = generateResp{
			Summary:     assistant,
			SummaryHTML: "<p>" + strings.ReplaceAll(assistant, "\n", "</p><p>") + "</p>",
			Questions:   []generateQuestion{},
		}
	}
	if parsed.Questions == nil {
		parsed.Questions = []generateQuestion{}
	}
	if len(parsed.Questions) > req.MaxQuestions {
		parsed.Questions = parsed.Questions[:req.MaxQuestions]
	}
	return c.JSON(http.StatusOK, parsed)
}

// mockGeneration mirrors the canned response served when no API key is set.
func mockGeneration(videoURL string, maxQuestions int) generateResp {
	summary := fmt.Sprintf("This video (%s) is an introductory lecture on Data Science. It covers core concepts such as data cleaning, exploratory data analysis, and an overview of common tools like Python, R, and visualization libraries. The lecture also briefly introduces machine learning approaches and the roles of statistics and domain knowledge in building models.", videoURL)
	questions := []generateQuestion{
		{Question: "What is the main goal of data cleaning?", Answer: "To remove or correct errors and inconsistencies so data is reliable for analysis."},
		{Question: "Name one common language used in data science.", Answer: "Python"},
		{Question: "What does exploratory data analysis help with?", Answer: "Understanding data distributions and spotting anomalies before modeling."},
	}
	if len(questions) > maxQuestions {
		questions = questions[:maxQuestions]
	}
	return generateResp{
		Summary:     summary,
		SummaryHTML: "<p>" + summary + "</p>",
		Questions:   questions,
	}
}
