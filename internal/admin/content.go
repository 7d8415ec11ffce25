package admin

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-zones/internal/content"
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/google/uuid"
)

// NewArticles builds the article façade. An article naming a list must name
// one that exists.
func NewArticles(store *content.ArticleStore, lists *content.ArticleListStore, opts ...Option[*content.Article]) *Service[*content.Article] {
	check := func(ctx context.Context, article *content.Article) error {
		if err := invalid(validation.ValidateStruct(article,
			validation.Field(&article.Summary, validation.Length(0, 1024)),
		), "article is invalid"); err != nil {
			return err
		}
		if article.ArticleListID == uuid.Nil {
			return nil
		}
		if _, err := lists.GetByMasterID(ctx, article.ArticleListID); err != nil {
			if versioning.IsNotFound(err) {
				return fieldInvalid(ErrArticleListMissing, "article_list_id", "article list does not exist")
			}
			return mapStoreError(err, content.ArticleListResource, article.ArticleListID.String())
		}
		return nil
	}
	return NewService[*content.Article](store, append([]Option[*content.Article]{WithValidator(check)}, opts...)...)
}

// NewArticleLists builds the article list façade.
func NewArticleLists(store *content.ArticleListStore, opts ...Option[*content.ArticleList]) *Service[*content.ArticleList] {
	return NewService[*content.ArticleList](store, opts...)
}

// NewBlocks builds the content block façade. Blocks need a name.
func NewBlocks(store *content.BlockStore, opts ...Option[*content.Block]) *Service[*content.Block] {
	check := func(_ context.Context, block *content.Block) error {
		return invalid(validation.ValidateStruct(block,
			validation.Field(&block.Name, validation.Required, validation.Length(1, 128)),
		), "content block is invalid")
	}
	return NewService[*content.Block](store, append([]Option[*content.Block]{WithValidator(check)}, opts...)...)
}
