package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dom/web-ads-backend/internal/api/middleware"
	"github.com/dom/web-ads-backend/internal/domain"
	"github.com/dom/web-ads-backend/internal/service"
)

const defaultPageSize = 20

type AdHandler struct {
	adService *service.AdService
}

func NewAdHandler(adService *service.AdService) *AdHandler {
	return &AdHandler{adService: adService}
}

// AdRequest is the create/update payload. Updates are full replaces, so
// the same shape serves both.
type AdRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	City        string  `json:"city"`
}

func (r AdRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "ad name is required"})
	}
	if r.Price < 0 {
		errs = append(errs, FieldError{Field: "price", Message: "price must be zero or more"})
	}
	if r.Category == "" {
		errs = append(errs, FieldError{Field: "category", Message: "category is required"})
	}
	if r.City == "" {
		errs = append(errs, FieldError{Field: "city", Message: "city is required"})
	}
	return errs
}

type AdResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	ImageURL    string       `json:"imageUrl"`
	Price       float64      `json:"price"`
	Category    string       `json:"category"`
	City        string       `json:"city"`
	PostDate    time.Time    `json:"postDate"`
	Seller      UserResponse `json:"seller"`
}

func newAdResponse(ad *domain.Ad) AdResponse {
	return AdResponse{
		ID:          ad.ID.String(),
		Name:        ad.Name,
		Description: ad.Description,
		ImageURL:    ad.ImageURL,
		Price:       ad.Price,
		Category:    string(ad.Category),
		City:        ad.City,
		PostDate:    ad.PostDate,
		Seller:      newUserResponse(&ad.User),
	}
}

type AdPageResponse struct {
	Content       []AdResponse `json:"content"`
	Page          int          `json:"page"`
	Size          int          `json:"size"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
}

func newAdPageResponse(page *service.AdPage) AdPageResponse {
	content := make([]AdResponse, 0, len(page.Ads))
	for _, ad := range page.Ads {
		content = append(content, newAdResponse(ad))
	}

	totalPages := 0
	if page.Size > 0 {
		totalPages = int(math.Ceil(float64(page.Total) / float64(page.Size)))
	}

	return AdPageResponse{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.Total,
		TotalPages:    totalPages,
	}
}

func (h *AdHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	var req AdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		writeFieldErrors(w, fieldErrors)
		return
	}

	ad, err := h.adService.Create(r.Context(), toAdInput(req), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newAdResponse(ad))
}

func (h *AdHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	input := service.ListAdsInput{
		Category: query.Get("category"),
		Name:     query.Get("name"),
		MineOnly: query.Get("showMineOnly") == "true",
		Page:     parseIntParam(query.Get("page"), 0),
		Size:     parseIntParam(query.Get("size"), defaultPageSize),
	}
	if input.Page < 0 {
		input.Page = 0
	}
	if input.Size <= 0 {
		input.Size = defaultPageSize
	}

	if raw := query.Get("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			input.MinPrice = &v
		}
	}
	if raw := query.Get("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			input.MaxPrice = &v
		}
	}

	var viewerID *uuid.UUID
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		viewerID = &userID
	}

	page, err := h.adService.List(r.Context(), input, viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAdPageResponse(page))
}

func (h *AdHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid ad id"})
		return
	}

	ad, err := h.adService.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAdResponse(ad))
}

func (h *AdHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid ad id"})
		return
	}

	var req AdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		writeFieldErrors(w, fieldErrors)
		return
	}

	ad, err := h.adService.Update(r.Context(), id, toAdInput(req), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAdResponse(ad))
}

func (h *AdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid ad id"})
		return
	}

	if err := h.adService.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func toAdInput(req AdRequest) service.AdInput {
	return service.AdInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Category:    req.Category,
		City:        req.City,
	}
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
