package content

import (
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Article is a versioned piece of editorial content. ArticleListID holds the
// MasterID of the list it belongs to, or uuid.Nil.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`
	versioning.ContentEntity

	Summary       string    `bun:"summary" json:"summary,omitempty"`
	Body          string    `bun:"body" json:"body,omitempty"`
	Author        string    `bun:"author" json:"author,omitempty"`
	ArticleListID uuid.UUID `bun:"article_list_id,type:uuid" json:"article_list_id"`
}

// ArticleList groups articles under a feed.
type ArticleList struct {
	bun.BaseModel `bun:"table:article_lists,alias:al"`
	versioning.ContentEntity

	Description string `bun:"description" json:"description,omitempty"`
}

// Block is a reusable fragment of content addressed by name.
type Block struct {
	bun.BaseModel `bun:"table:content_blocks,alias:cb"`
	versioning.ContentEntity

	Name string `bun:"name,notnull" json:"name"`
	Body string `bun:"body" json:"body,omitempty"`
}

func CloneArticle(a *Article) *Article {
	if a == nil {
		return nil
	}
	c := *a
	c.ContentEntity = a.ContentEntity.Clone()
	return &c
}

func CloneArticleList(l *ArticleList) *ArticleList {
	if l == nil {
		return nil
	}
	c := *l
	c.ContentEntity = l.ContentEntity.Clone()
	return &c
}

func CloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	c := *b
	c.ContentEntity = b.ContentEntity.Clone()
	return &c
}

func NewArticle() *Article         { return &Article{} }
func NewArticleList() *ArticleList { return &ArticleList{} }
func NewBlock() *Block             { return &Block{} }
