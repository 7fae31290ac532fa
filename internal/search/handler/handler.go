package handler

import (
	"net/http"

	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/filter"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/service"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/transport"
	"github.com/jimmyqian/sovra-ui-sub000/platform/httpkit"
	"github.com/jimmyqian/sovra-ui-sub000/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgFileRequired     = "file is required"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates the handler and registers the sort_key and sort_order rules
// used by the filter DTO.
func New(svc *service.Service, val *validator.Validator) *Handler {
	mustRegister(val, "sort_key", func(s string) bool { return domain.SortKey(s).Valid() })
	mustRegister(val, "sort_order", func(s string) bool { return domain.SortOrder(s).Valid() })
	return &Handler{svc: svc, val: val}
}

func mustRegister(val *validator.Validator, tag string, ok func(string) bool) {
	if err := val.RegisterValidation(tag, validator.StringRule(ok)); err != nil {
		panic("register validation " + tag + ": " + err.Error())
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	search := rg.Group("/search")
	search.GET("", h.GetSession)
	search.POST("", h.Submit)
	search.POST("/more", h.LoadMore)
	search.PUT("/filters", h.SetFilters)
	search.DELETE("/filters", h.ResetFilters)
	search.GET("/history", h.History)
	search.DELETE("/history", h.ClearHistory)

	rg.POST("/conversation", h.Converse)
	rg.GET("/conversation/detail", h.Detail)
	rg.POST("/lightbox/dismiss", h.DismissLightbox)
	rg.POST("/uploads", h.Upload)
}

func (h *Handler) GetSession(c *gin.Context) {
	httpkit.OK(c, toSessionResponse(h.svc.State()))
}

func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	st, err := h.svc.Submit(c.Request.Context(), req.Query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toSessionResponse(st))
}

func (h *Handler) LoadMore(c *gin.Context) {
	st, err := h.svc.LoadMore(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toSessionResponse(st))
}

func (h *Handler) SetFilters(c *gin.Context) {
	var req transport.FiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	h.svc.SetFilters(toFilterUpdate(req, h.svc.State().Filters))
	httpkit.OK(c, toSessionResponse(h.svc.State()))
}

func (h *Handler) ResetFilters(c *gin.Context) {
	h.svc.ResetFilters()
	httpkit.OK(c, toSessionResponse(h.svc.State()))
}

func (h *Handler) History(c *gin.Context) {
	st := h.svc.State()
	httpkit.OK(c, transport.HistoryResponse{
		Recent: nonNil(st.RecentQueries),
		All:    nonNil(h.svc.History()),
	})
}

func (h *Handler) ClearHistory(c *gin.Context) {
	h.svc.ClearHistory()
	c.Status(http.StatusNoContent)
}

func (h *Handler) Converse(c *gin.Context) {
	var req transport.ConverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	turn, err := h.svc.Converse(c.Request.Context(), req.Message)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, turn)
}

func (h *Handler) Detail(c *gin.Context) {
	var req transport.DetailRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	httpkit.OK(c, transport.DetailResponse{
		Name:     req.Name,
		Index:    req.Index,
		Response: h.svc.Detail(req.Name, req.Index),
	})
}

func (h *Handler) DismissLightbox(c *gin.Context) {
	httpkit.OK(c, h.svc.DismissLightbox())
}

// Upload accepts a multipart file. Only its name reaches the engine.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgFileRequired, nil)
		return
	}

	res, err := h.svc.Upload(c.Request.Context(), file.Filename)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.UploadResponse{Success: res.Success, Message: res.Message})
}

func toFilterUpdate(req transport.FiltersRequest, current domain.FilterCriteria) service.FilterUpdate {
	u := service.FilterUpdate{
		MinRating: req.MinRating,
		Locations: req.Locations,
		Companies: req.Companies,
	}
	if req.MinAge != nil || req.MaxAge != nil {
		ar := current.AgeRange
		if req.MinAge != nil {
			ar.Min = *req.MinAge
		}
		if req.MaxAge != nil {
			ar.Max = *req.MaxAge
		}
		u.AgeRange = &ar
	}
	if req.SortBy != nil {
		key := domain.SortKey(*req.SortBy)
		u.SortBy = &key
	}
	if req.SortOrder != nil {
		order := domain.SortOrder(*req.SortOrder)
		u.SortOrder = &order
	}
	return u
}

func toSessionResponse(st service.State) transport.SessionResponse {
	return transport.SessionResponse{
		Query:              st.Query,
		ActiveQuery:        st.ActiveQuery,
		HasSearched:        st.HasSearched,
		Results:            nonNil(st.Results),
		FilteredResults:    nonNil(st.Filtered),
		AvailableLocations: nonNil(filter.AvailableLocations(st.Results)),
		Pagination:         st.Pagination,
		Loading:            st.Loading(),
		Error:              st.Error,
		RecentQueries:      nonNil(st.RecentQueries),
		Lightbox:           st.Lightbox,
		Filters: transport.FiltersResponse{
			MinAge:    st.Filters.AgeRange.Min,
			MaxAge:    st.Filters.AgeRange.Max,
			Locations: nonNil(st.Filters.Locations.Sorted()),
			Companies: nonNil(st.Filters.Companies.Sorted()),
			MinRating: st.Filters.MinRating,
			SortBy:    string(st.Filters.SortBy),
			SortOrder: string(st.Filters.SortOrder),
			Active:    st.FilterActive,
			Count:     st.FilterCount,
		},
		Conversation: st.Turn,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
