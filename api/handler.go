package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/tradescout/core"
	"github.com/poiesic/tradescout/ingestion"
	"github.com/poiesic/tradescout/search"
	"github.com/poiesic/tradescout/storage"
)

// UserHeader names the request header carrying the caller's identity.
const UserHeader = "X-User-ID"

// DefaultUser owns favorites of requests without a UserHeader.
const DefaultUser = "default"

// ErrMissingDependency is returned by NewHandler when a collaborator is nil.
var ErrMissingDependency = errors.New("api: missing dependency")

// Searcher ranks the active catalog against a query.
type Searcher interface {
	Search(ctx context.Context, query string, opts ...search.Option) ([]core.RankedResult, error)
}

// LoadTrigger starts a catalog load in the background.
// *ingestion.Scheduler satisfies it.
type LoadTrigger interface {
	Trigger() error
}

// Handler serves the HTTP endpoints.
type Handler struct {
	searcher   Searcher
	catalog    storage.CatalogRepository
	favorites  storage.FavoriteRepository
	loads      LoadTrigger
	searchOpts []search.Option
	minScore   int
	limit      int
	logger     *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger.With("component", "api")
	}
}

// WithDisplay sets the default minimum score and result cap for /api/search.
func WithDisplay(minScore, limit int) Option {
	return func(h *Handler) {
		h.minScore = minScore
		h.limit = limit
	}
}

// WithSearchOptions passes ranker options through to every search.
func WithSearchOptions(opts ...search.Option) Option {
	return func(h *Handler) {
		h.searchOpts = append(h.searchOpts, opts...)
	}
}

// WithLoadTrigger enables POST /api/load. Without it the endpoint answers 503.
func WithLoadTrigger(t LoadTrigger) Option {
	return func(h *Handler) {
		h.loads = t
	}
}

// NewHandler creates a Handler.
func NewHandler(searcher Searcher, catalog storage.CatalogRepository, favorites storage.FavoriteRepository, opts ...Option) (*Handler, error) {
	if searcher == nil || catalog == nil || favorites == nil {
		return nil, ErrMissingDependency
	}
	h := &Handler{
		searcher:  searcher,
		catalog:   catalog,
		favorites: favorites,
		minScore:  search.DefaultMinDisplayScore,
		limit:     search.DefaultDisplayLimit,
		logger:    slog.Default().With("component", "api"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ProductURL  string    `json:"product_url"`
	ImageURL    string    `json:"image_url"`
	Price       string    `json:"price"`
	Category    string    `json:"alibaba_category"`
	ArrivalDate time.Time `json:"arrival_date"`
	LastScraped time.Time `json:"last_scraped"`
	Active      bool      `json:"active"`
}

type resultResponse struct {
	Product         productResponse `json:"product"`
	SimilarityScore int             `json:"similarity_score"`
	FuzzyScore      int             `json:"original_fuzzy_score"`
	LLMResponse     string          `json:"llm_raw_response"`
}

func toProductResponse(p *core.Product) productResponse {
	return productResponse{
		ID:          strconv.FormatUint(uint64(p.Id), 10),
		Name:        p.Name,
		ProductURL:  p.ProductURL,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
		Category:    p.Category,
		ArrivalDate: p.ArrivalDate,
		LastScraped: p.LastScraped,
		Active:      p.Active,
	}
}

func toProductList(products []*core.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Search ranks the catalog for the q parameter and returns the displayable
// part of the ranking.
func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	minScore, ok := intParam(c, "min_score", h.minScore)
	if !ok {
		return
	}
	limit, ok := intParam(c, "limit", h.limit)
	if !ok {
		return
	}

	ranked, err := h.searcher.Search(c.Request.Context(), query, h.searchOpts...)
	if err != nil {
		h.internalError(c, "search failed", err)
		return
	}

	shown := search.Display(ranked, minScore, limit)
	results := make([]resultResponse, 0, len(shown))
	for _, r := range shown {
		results = append(results, resultResponse{
			Product:         toProductResponse(r.Product),
			SimilarityScore: r.SimilarityScore,
			FuzzyScore:      r.OriginalFuzzyScore,
			LLMResponse:     r.LLMRawResponse,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"ranked":  len(ranked),
		"count":   len(results),
		"results": results,
	})
}

// ListProducts returns the active catalog, or every product when
// include_archived is true.
func (h *Handler) ListProducts(c *gin.Context) {
	var (
		products []*core.Product
		err      error
	)
	if all, _ := strconv.ParseBool(c.Query("include_archived")); all {
		products, err = h.catalog.AllProducts(c.Request.Context())
	} else {
		products, err = h.catalog.ActiveProducts(c.Request.Context())
	}
	if err != nil {
		h.internalError(c, "listing products failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": toProductList(products)})
}

// GetProduct returns one product.
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.storageError(c, "loading product failed", err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

// ListFavorites returns the caller's saved products.
func (h *Handler) ListFavorites(c *gin.Context) {
	products, err := h.favorites.ListFavorites(c.Request.Context(), userID(c))
	if err != nil {
		h.internalError(c, "listing favorites failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": toProductList(products)})
}

// AddFavorite saves a product for the caller.
func (h *Handler) AddFavorite(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	fav, err := h.favorites.AddFavorite(c.Request.Context(), userID(c), id)
	if err != nil {
		h.storageError(c, "adding favorite failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"product_id": strconv.FormatUint(uint64(fav.ProductID), 10),
		"created_at": fav.CreatedAt,
	})
}

// RemoveFavorite drops a saved product.
func (h *Handler) RemoveFavorite(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	if err := h.favorites.RemoveFavorite(c.Request.Context(), userID(c), id); err != nil {
		h.storageError(c, "removing favorite failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TriggerLoad starts loading the interchange file into the catalog and
// returns without waiting for it.
func (h *Handler) TriggerLoad(c *gin.Context) {
	if h.loads == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "loading is not enabled"})
		return
	}
	err := h.loads.Trigger()
	switch {
	case err == nil:
		h.logger.Info("load triggered", "client_ip", c.ClientIP())
		c.JSON(http.StatusAccepted, gin.H{"status": "load started"})
	case errors.Is(err, ingestion.ErrLoadInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "a load is already running"})
	case errors.Is(err, ingestion.ErrSchedulerStopped):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "loader is shut down"})
	default:
		h.internalError(c, "starting load failed", err)
	}
}

func (h *Handler) storageError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, storage.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": "already a favorite"})
	default:
		h.internalError(c, msg, err)
	}
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, "path", c.FullPath(), "err", err)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func userID(c *gin.Context) core.ID {
	user := strings.TrimSpace(c.GetHeader(UserHeader))
	if user == "" {
		user = DefaultUser
	}
	return core.IDFromContent(user)
}

func productID(c *gin.Context) (core.ID, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return core.ID(id), true
}

func intParam(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return n, true
}
