// Package components holds the view components shipped with the CMS.
package components

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-zones/internal/content"
	"github.com/goliatone/go-cms-zones/internal/registry"
	"github.com/goliatone/go-cms-zones/internal/versioning"
	"github.com/goliatone/go-cms-zones/internal/zones"
	"github.com/google/uuid"
)

// ContentBlockConfig selects the block a ContentBlockViewComponent shows.
type ContentBlockConfig struct {
	BlockID uuid.UUID `json:"block_id" cms:"label=Block;required"`
}

// BlockView is the output of ContentBlockViewComponent.
type BlockView struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// ContentBlockViewComponent renders the latest visible version of a
// reusable content block. Hidden or missing blocks render as nil.
type ContentBlockViewComponent struct {
	blocks *content.BlockStore
}

func NewContentBlockViewComponent(blocks *content.BlockStore) *ContentBlockViewComponent {
	return &ContentBlockViewComponent{blocks: blocks}
}

func (c *ContentBlockViewComponent) Render(ctx context.Context, req zones.ComponentRequest) (any, error) {
	cfg, _ := req.Config.(*ContentBlockConfig)
	if cfg == nil || cfg.BlockID == uuid.Nil {
		return nil, fmt.Errorf("content block: block id is required")
	}
	block, err := c.blocks.GetByMasterID(ctx, cfg.BlockID)
	if err != nil {
		if versioning.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !block.IsVisible() || (block.IsHidden && (req.Render == nil || !req.Render.Admin())) {
		return nil, nil
	}
	return &BlockView{Name: block.Name, Title: block.Title, Body: block.Body}, nil
}

// LatestArticlesConfig picks a list and how many of its articles to show.
type LatestArticlesConfig struct {
	ArticleListID uuid.UUID `json:"article_list_id" cms:"label=Article list;required"`
	Count         int       `json:"count" cms:"label=Count;min=1;max=20"`
}

func (c *LatestArticlesConfig) Defaults() {
	c.Count = 3
}

// LatestArticlesViewComponent renders the newest published articles of a
// list.
type LatestArticlesViewComponent struct {
	feed *content.Feed
}

func NewLatestArticlesViewComponent(feed *content.Feed) *LatestArticlesViewComponent {
	return &LatestArticlesViewComponent{feed: feed}
}

func (c *LatestArticlesViewComponent) Render(ctx context.Context, req zones.ComponentRequest) (any, error) {
	cfg, _ := req.Config.(*LatestArticlesConfig)
	if cfg == nil {
		cfg = &LatestArticlesConfig{}
		cfg.Defaults()
	}
	articles, err := c.feed.Published(ctx, cfg.ArticleListID)
	if err != nil {
		return nil, err
	}
	if cfg.Count > 0 && len(articles) > cfg.Count {
		articles = articles[:cfg.Count]
	}
	return articles, nil
}

// Builtin registers the shipped components.
func Builtin(blocks *content.BlockStore, feed *content.Feed) registry.Module {
	return registry.Module{
		Name: "builtin.components",
		Register: func(b *registry.Builder) error {
			b.MustAdd(registry.Registration{
				Renderer:    NewContentBlockViewComponent(blocks),
				Config:      ContentBlockConfig{},
				DisplayName: "Content block",
				Description: "Shows a reusable content block.",
				Category:    "content",
				Order:       10,
			})
			b.MustAdd(registry.Registration{
				Renderer:    NewLatestArticlesViewComponent(feed),
				Config:      LatestArticlesConfig{},
				DisplayName: "Latest articles",
				Description: "Lists the newest articles of a list.",
				Category:    "content",
				Order:       20,
			})
			return nil
		},
	}
}
