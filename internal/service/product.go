package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopapi/internal/applog"
	"shopapi/internal/cache"
	"shopapi/internal/model"
	"shopapi/internal/repository"
	"shopapi/internal/storage"
)

const (
	// MaxImageSize is the largest accepted product image.
	MaxImageSize = 5 << 20

	topProductsKey   = "products:top"
	topProductsLimit = 3
)

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Page     int             `json:"page"`
	Pages    int             `json:"pages"`
	Products []model.Product `json:"products"`
}

// ProductInput carries the editable catalog fields.
type ProductInput struct {
	Name         string
	Price        decimal.Decimal
	Description  string
	Image        string
	Brand        string
	Category     string
	CountInStock int
}

// ImageUpload describes an uploaded product image.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// ProductService defines the catalog use cases.
type ProductService interface {
	// List returns page (1-based) of products whose name contains keyword.
	List(ctx context.Context, keyword string, page int) (*ProductPage, error)

	// Top returns the highest rated products, served from cache when possible.
	Top(ctx context.Context) ([]model.Product, error)

	Get(ctx context.Context, id string) (*model.Product, error)

	// CreateSample creates a placeholder product owned by userID for an admin to edit.
	CreateSample(ctx context.Context, userID string) (*model.Product, error)

	Update(ctx context.Context, id string, in ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id string) error

	// UploadImage stores an image for the product and returns the URL it is served from.
	UploadImage(ctx context.Context, id string, up ImageUpload) (string, error)

	// AddReview records user's review. Returns ErrAlreadyReviewed on a second review.
	AddReview(ctx context.Context, id string, user *model.User, rating int, comment string) error
}

// ProductServiceConfig holds tunables for the product service.
type ProductServiceConfig struct {
	PageSize int
	CacheTTL time.Duration
	Location *time.Location
}

type productService struct {
	repo  repository.ProductRepository
	store storage.Storage
	cache cache.Cache
	cfg   ProductServiceConfig
	now   func() time.Time
}

// NewProductService constructs a new ProductService. A nil cache disables caching.
func NewProductService(repo repository.ProductRepository, store storage.Storage, c cache.Cache, cfg ProductServiceConfig) ProductService {
	if c == nil {
		c = cache.Noop{}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 8
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	return &productService{repo: repo, store: store, cache: c, cfg: cfg, now: time.Now}
}

func (s *productService) List(ctx context.Context, keyword string, page int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	// Keep the offset inside an int32 so huge page numbers cannot wrap negative.
	if last := math.MaxInt32/s.cfg.PageSize + 1; page > last {
		page = last
	}
	res, err := s.repo.List(ctx, repository.ProductFilter{
		Keyword: strings.TrimSpace(keyword),
		Page: repository.PageQuery{
			Limit:  s.cfg.PageSize,
			Offset: (page - 1) * s.cfg.PageSize,
		},
	})
	if err != nil {
		return nil, err
	}
	items := res.Items
	if items == nil {
		items = []model.Product{}
	}
	return &ProductPage{
		Page:     page,
		Pages:    (res.Total + s.cfg.PageSize - 1) / s.cfg.PageSize,
		Products: items,
	}, nil
}

func (s *productService) Top(ctx context.Context) ([]model.Product, error) {
	if b, ok, err := s.cache.Get(ctx, topProductsKey); err != nil {
		applog.Error(s.cfg.Location, "cache get failed", err, map[string]any{"key": topProductsKey})
	} else if ok {
		var cached []model.Product
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached, nil
		}
	}

	products, err := s.repo.Top(ctx, topProductsLimit)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	if b, err := json.Marshal(products); err == nil {
		if err := s.cache.Set(ctx, topProductsKey, b, s.cfg.CacheTTL); err != nil {
			applog.Error(s.cfg.Location, "cache set failed", err, map[string]any{"key": topProductsKey})
		}
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *productService) CreateSample(ctx context.Context, userID string) (*model.Product, error) {
	now := s.now().UTC()
	p := &model.Product{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        "Sample name",
		Image:       "/images/sample.jpg",
		Brand:       "Sample brand",
		Category:    "Sample category",
		Description: "Sample description",
		Price:       decimal.Zero,
		Reviews:     []model.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.invalidateTop(ctx)
	return created, nil
}

func (s *productService) Update(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	if in.Price.IsNegative() {
		return nil, ErrNegativePrice
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = in.Name
	p.Price = in.Price.Round(2)
	p.Description = in.Description
	p.Image = in.Image
	p.Brand = in.Brand
	p.Category = in.Category
	p.CountInStock = in.CountInStock

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	updated.Reviews = p.Reviews
	s.invalidateTop(ctx)
	return updated, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return err
	}
	s.invalidateTop(ctx)
	return nil
}

// UploadImage streams the image to object storage under products/{id}/ and
// removes the object again if no URL can be produced for it.
func (s *productService) UploadImage(ctx context.Context, id string, up ImageUpload) (string, error) {
	if up.Reader == nil {
		return "", ErrReaderNil
	}
	if !strings.HasPrefix(up.ContentType, "image/") {
		return "", ErrNotImage
	}
	if up.Size > MaxImageSize {
		return "", ErrFileTooLarge
	}
	if _, err := s.Get(ctx, id); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(up.Filename))
	key := fmt.Sprintf("products/%s/%s-%d%s", id, uuid.New().String(), s.now().UnixMilli(), ext)

	obj, err := s.store.Put(ctx, key, up.Reader, storage.PutObjectOptions{
		Size:        up.Size,
		ContentType: up.ContentType,
		Metadata: map[string]string{
			"original-filename": up.Filename,
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload to storage: %w", err)
	}

	url, err := s.store.URL(ctx, obj.Key)
	if err != nil {
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			return "", fmt.Errorf("resolve url failed: %v; rollback delete failed: %v", err, delErr)
		}
		return "", fmt.Errorf("resolve url failed: %w", err)
	}
	return url, nil
}

func (s *productService) AddReview(ctx context.Context, id string, user *model.User, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.ReviewedBy(user.ID) {
		return ErrAlreadyReviewed
	}

	_, _, err = s.repo.AddReview(ctx, &model.Review{
		ID:        uuid.New().String(),
		ProductID: p.ID,
		UserID:    user.ID,
		Name:      user.Name,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyReviewed
		}
		return err
	}
	s.invalidateTop(ctx)
	return nil
}

func (s *productService) invalidateTop(ctx context.Context) {
	if err := s.cache.Delete(ctx, topProductsKey); err != nil {
		applog.Error(s.cfg.Location, "cache invalidation failed", err, map[string]any{"key": topProductsKey})
	}
}
