package storage

import (
	"context"
	"fmt"

	"github.com/goliatone/go-cms-zones/internal/content"
	"github.com/goliatone/go-cms-zones/internal/pages"
	"github.com/goliatone/go-cms-zones/internal/zones"
	"github.com/uptrace/bun"
)

type index struct {
	model   any
	name    string
	columns []string
	unique  bool
}

// Models lists every table the CMS persists.
func Models() []any {
	return []any{
		(*pages.Page)(nil),
		(*zones.Zone)(nil),
		(*zones.Item)(nil),
		(*content.Article)(nil),
		(*content.ArticleList)(nil),
		(*content.Block)(nil),
	}
}

func indexes() []index {
	return []index{
		{(*pages.Page)(nil), "pages_master_version_idx", []string{"master_id", "version"}, true},
		{(*pages.Page)(nil), "pages_route_idx", []string{"route"}, false},
		{(*zones.Zone)(nil), "content_zones_master_version_idx", []string{"master_id", "version"}, true},
		{(*zones.Zone)(nil), "content_zones_name_idx", []string{"name"}, false},
		{(*zones.Item)(nil), "content_zone_items_zone_idx", []string{"content_zone_id", "ordinal"}, false},
		{(*content.Article)(nil), "articles_master_version_idx", []string{"master_id", "version"}, true},
		{(*content.Article)(nil), "articles_list_idx", []string{"article_list_id"}, false},
		{(*content.ArticleList)(nil), "article_lists_master_version_idx", []string{"master_id", "version"}, true},
		{(*content.Block)(nil), "content_blocks_master_version_idx", []string{"master_id", "version"}, true},
	}
}

// CreateSchema creates every table and index that does not exist yet. The
// unique (master_id, version) indexes back optimistic concurrency.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table %T: %w", model, err)
		}
	}
	for _, idx := range indexes() {
		q := db.NewCreateIndex().Model(idx.model).Index(idx.name).Column(idx.columns...).IfNotExists()
		if idx.unique {
			q = q.Unique()
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("storage: create index %s: %w", idx.name, err)
		}
	}
	return nil
}
