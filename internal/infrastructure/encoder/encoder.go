package encoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/cfg"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/usecase"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/jitter"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/logger"
)

// HTTPEncoder — клиент внешнего сервиса векторизации текста,
// совместимого с OpenAI Embeddings API (POST {base_url}/embeddings).
type HTTPEncoder struct {
	httpClient *http.Client
	cfg        *cfg.EncoderCfg
	sem        chan struct{}
	logger     logger.Logger
}

func NewHTTPEncoder(cfg *cfg.EncoderCfg, logger logger.Logger) *HTTPEncoder {
	return &HTTPEncoder{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		sem:        make(chan struct{}, cfg.MaxConcurrent),
		logger:     logger,
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
}

// EncodeTexts выполняет векторизацию текстов с retry-логикой и экспоненциальной задержкой.
// Порядок результатов совпадает с порядком текстов запроса.
func (h *HTTPEncoder) EncodeTexts(ctx context.Context, req *usecase.EncodeReq) ([]usecase.EncodeRes, error) {
	const (
		op         = "HTTPEncoder.EncodeTexts"
		baseJitter = 1 * time.Second
		maxJitter  = 30 * time.Second
	)

	if len(req.Texts) == 0 {
		return []usecase.EncodeRes{}, nil
	}

	// Конкурентность к энкодеру ограничена на весь процесс
	select {
	case h.sem <- struct{}{}:
		defer func() { <-h.sem }()
	case <-ctx.Done():
		return nil, e.Wrap(op, ctx.Err())
	}

	var lastErr error
	for attempt := 0; attempt < h.cfg.MaxRetries; attempt++ {
		vectors, retryable, err := h.encodeBatch(ctx, req)
		if err == nil {
			return vectors, nil
		}
		lastErr = err

		if !retryable || attempt == h.cfg.MaxRetries-1 {
			break
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		h.logger.Warnf("text encoding failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, e.Wrap(e.ErrEncoderUnavailable.Error(), lastErr))
}

// encodeBatch выполняет один HTTP-запрос к энкодеру.
// Второе возвращаемое значение сообщает, имеет ли смысл повтор.
func (h *HTTPEncoder) encodeBatch(ctx context.Context, req *usecase.EncodeReq) ([]usecase.EncodeRes, bool, error) {
	const op = "HTTPEncoder.encodeBatch"

	body, err := json.Marshal(embeddingRequest{
		Model: h.cfg.Model,
		Input: req.Texts,
	})
	if err != nil {
		return nil, false, e.Wrap(op, err)
	}

	url := strings.TrimSuffix(h.cfg.BaseURL, "/") + "/embeddings"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, false, e.Wrap(op, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if h.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)
	}

	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return nil, true, e.Wrap(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, e.Wrap(op, err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%s: encoder returned %d: %s", op, resp.StatusCode, truncate(respBody, 256))
		// 429 и 5xx временные, остальные коды повторять бессмысленно
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, err
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, false, e.Wrap(op, err)
	}

	if len(embResp.Data) != len(req.Texts) {
		return nil, false, fmt.Errorf("%s: expected %d embeddings, got %d", op, len(req.Texts), len(embResp.Data))
	}

	// Результаты раскладываются по index из ответа
	result := make([]usecase.EncodeRes, len(req.Texts))
	for _, item := range embResp.Data {
		if item.Index < 0 || item.Index >= len(result) {
			return nil, false, fmt.Errorf("%s: embedding index %d out of range", op, item.Index)
		}
		result[item.Index] = *usecase.NewEncodeRes(item.Embedding, embResp.Model)
	}

	return result, false, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
