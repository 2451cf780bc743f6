package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/usecase"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/logger"
)

type RecommendationHandler struct {
	recUsecase usecase.RecommendationUC
	logger     logger.Logger
}

func NewRecommendationHandler(recUsecase usecase.RecommendationUC, logger logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{recUsecase: recUsecase, logger: logger}
}

type RecommendationResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Price     int64   `json:"price"` // в копейках
	Category  string  `json:"category,omitempty"`
	ImageKey  *string `json:"image_key,omitempty"`
}

type UpdateProductEmbeddingRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"` // десятичная строка, "599.99"
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// getRecommendations
//
//	@Summary		Персональные рекомендации
//	@Description	Возвращает топ товаров для пользователя, отсортированный по релевантности
//	@Tags			recommendations
//	@Produce		json
//	@Param			user_id		path		string	true	"Идентификатор пользователя"
//	@Param			limit		query		int		false	"Размер выдачи (по умолчанию из конфигурации)"
//	@Param			category	query		string	false	"Фильтр по категории кандидатов"
//	@Param			max_price	query		string	false	"Ценовой потолок, десятичная строка"
//	@Success		200			{array}		RecommendationResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/users/{user_id}/recommendations [get]
func (h *RecommendationHandler) getRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil {
			h.logger.Warnf("%d invalid limit: %s", http.StatusBadRequest, rawLimit)
			WriteError(w, e.ErrLimitMustBePositive)
			return
		}
		limit = parsed
	}

	reqContext, err := buildRecommendationContext(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	recommendations, err := h.recUsecase.GetRecommendations(r.Context(), usecase.NewGetRecommendationsReq(userID, limit, reqContext))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toRecommendationResponses(recommendations))
}

// updateProductEmbedding
//
//	@Summary		Пересчет эмбеддинга товара
//	@Description	Пересчитывает и сохраняет эмбеддинг товара после изменения каталога
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Идентификатор товара (SKU)"
//	@Param			body	body		UpdateProductEmbeddingRequest	true	"Актуальные данные товара"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	ErrorResponse
//	@Router			/products/{id}/embedding [put]
func (h *RecommendationHandler) updateProductEmbedding(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	var body UpdateProductEmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	priceCents, err := parsePriceToCents(body.Price)
	if err != nil {
		h.logger.Warnf("%d invalid price: %s", http.StatusBadRequest, body.Price)
		WriteError(w, err)
		return
	}

	req := &usecase.UpdateProductEmbeddingReq{
		ID:          productID,
		Name:        body.Name,
		Description: body.Description,
		Price:       priceCents,
		Category:    body.Category,
		Tags:        body.Tags,
	}

	if err := h.recUsecase.UpdateProductEmbedding(r.Context(), req); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"Updated": true,
	})
}

// buildRecommendationContext собирает context-мешок запроса из query-параметров.
// max_price принимается в рублях и передается дальше в копейках.
func buildRecommendationContext(r *http.Request) (map[string]string, error) {
	reqContext := make(map[string]string)

	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		reqContext["category"] = category
	}

	if rawMaxPrice := r.URL.Query().Get("max_price"); rawMaxPrice != "" {
		cents, err := parsePriceToCents(rawMaxPrice)
		if err != nil {
			return nil, err
		}
		reqContext["max_price"] = strconv.FormatInt(cents, 10)
	}

	if len(reqContext) == 0 {
		return nil, nil
	}

	return reqContext, nil
}

func toRecommendationResponses(recommendations []domain.Recommendation) []RecommendationResponse {
	result := make([]RecommendationResponse, 0, len(recommendations))
	for _, rec := range recommendations {
		result = append(result, RecommendationResponse{
			ProductID: rec.ProductID,
			Name:      rec.Name,
			Score:     rec.Score,
			Price:     rec.Price,
			Category:  rec.Category,
			ImageKey:  rec.ImageKey,
		})
	}

	return result
}
