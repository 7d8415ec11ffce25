package content

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/google/uuid"
)

type (
	ArticleStore     = versioning.Store[*Article]
	ArticleListStore = versioning.Store[*ArticleList]
	BlockStore       = versioning.Store[*Block]
)

func NewArticleStore(repo ArticleRepository, opts ...versioning.Option) *ArticleStore {
	return versioning.NewStore[*Article](repo, append([]versioning.Option{versioning.WithResource(ArticleResource)}, opts...)...)
}

func NewArticleListStore(repo ArticleListRepository, opts ...versioning.Option) *ArticleListStore {
	return versioning.NewStore[*ArticleList](repo, append([]versioning.Option{versioning.WithResource(ArticleListResource)}, opts...)...)
}

// NewBlockStore builds a block store that trims block names on save.
func NewBlockStore(repo BlockRepository, opts ...versioning.Option) *BlockStore {
	base := []versioning.Option{
		versioning.WithResource(BlockResource),
		versioning.WithPrepare(func(entity versioning.Entity) error {
			if block, ok := entity.(*Block); ok {
				block.Name = strings.TrimSpace(block.Name)
			}
			return nil
		}),
	}
	return versioning.NewStore[*Block](repo, append(base, opts...)...)
}

// Feed answers the public queries over the articles of a list.
type Feed struct {
	articles ArticleRepository
}

func NewFeed(articles ArticleRepository) *Feed {
	return &Feed{articles: articles}
}

// Published returns the visible articles of listID, newest publication
// first. A nil listID selects articles outside any list.
func (f *Feed) Published(ctx context.Context, listID uuid.UUID) ([]*Article, error) {
	rows, err := f.articles.ListLatestByList(ctx, listID)
	if err != nil {
		return nil, err
	}
	out := make([]*Article, 0, len(rows))
	for _, a := range rows {
		if a.IsVisible() && !a.IsHidden {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].PublicationDate, out[j].PublicationDate
		switch {
		case pi == nil && pj == nil:
			return out[i].ModificationDate.After(out[j].ModificationDate)
		case pi == nil:
			return false
		case pj == nil:
			return true
		}
		return pi.After(*pj)
	})
	return out, nil
}

// PublishedBySlug returns the visible article of listID with slug.
func (f *Feed) PublishedBySlug(ctx context.Context, listID uuid.UUID, slug string) (*Article, error) {
	rows, err := f.Published(ctx, listID)
	if err != nil {
		return nil, err
	}
	slug = strings.ToLower(strings.Trim(slug, "/ "))
	for _, a := range rows {
		if strings.ToLower(a.Slug) == slug {
			return a, nil
		}
	}
	return nil, &versioning.NotFoundError{Resource: ArticleResource, Key: slug}
}
