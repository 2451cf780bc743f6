package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/usecase"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/logger"
)

type ProductHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewProductHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{catalogUsecase: catalogUsecase, logger: logger}
}

type RecordPurchaseRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	Price     string `json:"price"` // фактически уплаченная цена, десятичная строка
}

type ProductInfoResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Price       int64   `json:"price"` // в копейках
	ImageKey    *string `json:"image_key,omitempty"`
}

type GetProductsResponse struct {
	Products []ProductInfoResponse `json:"products"`
	NotFound []string              `json:"not_found,omitempty"`
}

// registerNewProduct
//
//	@Summary		Регистрация нового товара
//	@Description	Создает новый товар в каталоге с изображениями и эмбеддингом
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id			formData	string					false	"Внешний идентификатор (SKU)"
//	@Param			name		formData	string					true	"Название товара"
//	@Param			description	formData	string					false	"Описание товара"
//	@Param			category	formData	string					true	"Категория"
//	@Param			price		formData	number					true	"Цена"
//	@Param			tags		formData	string					false	"Теги через запятую"
//	@Param			images		formData	file					false	"Изображения товара"
//	@Success		201			{object}	map[string]interface{}	"Успешное создание"
//	@Failure		400			{object}	ErrorResponse			"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) registerNewProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 150 << 20
		maxMemory           = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	prMeta, err := parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	images, err := parseImages(r.MultipartForm.File["images"])
	if err != nil {
		// Товар без изображений допустим
		if !errors.Is(err, e.ErrNoImages) {
			p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
			WriteError(w, err)
			return
		}
	}

	event, err := p.catalogUsecase.RegisterNewProduct(r.Context(), usecase.NewAddNewProductReq(
		prMeta.ID, prMeta.Name, prMeta.Description, prMeta.CategoryName, prMeta.Price, prMeta.Tags, images,
	))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	if event != nil {
		WriteSuccess(w, http.StatusCreated, map[string]interface{}{
			"EventID": event.EventID,
		})
	} else {
		WriteSuccess(w, http.StatusOK, map[string]interface{}{
			"Changed": true,
		})
	}
}

// getProducts
//
//	@Summary		Информация о товарах
//	@Description	Возвращает карточки товаров по списку идентификаторов
//	@Tags			products
//	@Produce		json
//	@Param			ids	query		string	true	"Идентификаторы через запятую"
//	@Success		200	{object}	GetProductsResponse
//	@Failure		400	{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	rawIDs := r.URL.Query().Get("ids")

	ids := make([]string, 0)
	for _, id := range strings.Split(rawIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	res, err := p.catalogUsecase.GetProductsInfo(r.Context(), usecase.NewGetProductsReq(ids))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	response := GetProductsResponse{
		Products: make([]ProductInfoResponse, 0, len(res.Products)),
		NotFound: res.NotFoundProducts,
	}
	for _, product := range res.Products {
		response.Products = append(response.Products, ProductInfoResponse{
			ID:          product.ID,
			Name:        product.Name,
			Description: product.Description,
			Category:    product.CategoryName,
			Price:       product.Price,
			ImageKey:    product.ImageKey,
		})
	}

	WriteSuccess(w, http.StatusOK, response)
}

// recordPurchase
//
//	@Summary		Фиксация покупки
//	@Description	Записывает покупку и пересчитывает эмбеддинг пользователя
//	@Tags			purchases
//	@Accept			json
//	@Produce		json
//	@Param			user_id	path		string					true	"Идентификатор пользователя"
//	@Param			body	body		RecordPurchaseRequest	true	"Данные покупки"
//	@Success		201		{object}	map[string]interface{}
//	@Failure		400		{object}	ErrorResponse
//	@Router			/users/{user_id}/purchases [post]
func (p *ProductHandler) recordPurchase(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var body RecordPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	priceCents, err := parsePriceToCents(body.Price)
	if err != nil {
		p.logger.Warnf("%d invalid price: %s", http.StatusBadRequest, body.Price)
		WriteError(w, err)
		return
	}

	req := usecase.NewRecordPurchaseReq(userID, body.ProductID, body.Quantity, priceCents)
	if err := p.catalogUsecase.RecordPurchase(r.Context(), req); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, map[string]interface{}{
		"Recorded": true,
	})
}
