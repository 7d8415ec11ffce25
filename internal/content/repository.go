package content

import (
	"context"

	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	ArticleResource     = "article"
	ArticleListResource = "article list"
	BlockResource       = "content block"
)

// ArticleRepository adds list membership lookups to the versioned storage
// port.
type ArticleRepository interface {
	versioning.Repository[*Article]
	// ListLatestByList returns latest rows whose ArticleListID is listID.
	ListLatestByList(ctx context.Context, listID uuid.UUID) ([]*Article, error)
}

type (
	ArticleListRepository = versioning.Repository[*ArticleList]
	BlockRepository       = versioning.Repository[*Block]
)

// MemoryArticleRepository is the in-memory article store.
type MemoryArticleRepository struct {
	*versioning.MemoryRepository[*Article]
}

var _ ArticleRepository = (*MemoryArticleRepository)(nil)

func NewMemoryArticleRepository() *MemoryArticleRepository {
	return &MemoryArticleRepository{MemoryRepository: versioning.NewMemoryRepository(ArticleResource, CloneArticle)}
}

func (m *MemoryArticleRepository) ListLatestByList(ctx context.Context, listID uuid.UUID) ([]*Article, error) {
	latest, err := m.ListLatest(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Article, 0, len(latest))
	for _, a := range latest {
		if a.ArticleListID == listID {
			out = append(out, a)
		}
	}
	return out, nil
}

func NewMemoryArticleListRepository() *versioning.MemoryRepository[*ArticleList] {
	return versioning.NewMemoryRepository(ArticleListResource, CloneArticleList)
}

func NewMemoryBlockRepository() *versioning.MemoryRepository[*Block] {
	return versioning.NewMemoryRepository(BlockResource, CloneBlock)
}

// BunArticleRepository persists articles through bun.
type BunArticleRepository struct {
	*versioning.BunRepository[*Article]
}

var _ ArticleRepository = (*BunArticleRepository)(nil)

func NewBunArticleRepository(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunArticleRepository {
	return &BunArticleRepository{
		BunRepository: versioning.NewBunRepositoryWithCache(db, ArticleResource, NewArticle, cacheService, keySerializer),
	}
}

func (r *BunArticleRepository) ListLatestByList(ctx context.Context, listID uuid.UUID) ([]*Article, error) {
	return r.ListLatestWhere(ctx, "article_list_id", listID)
}

func NewBunArticleListRepository(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *versioning.BunRepository[*ArticleList] {
	return versioning.NewBunRepositoryWithCache(db, ArticleListResource, NewArticleList, cacheService, keySerializer)
}

func NewBunBlockRepository(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *versioning.BunRepository[*Block] {
	return versioning.NewBunRepositoryWithCache(db, BlockResource, NewBlock, cacheService, keySerializer)
}
