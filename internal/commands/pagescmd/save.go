package pagescmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-zones/internal/admin"
	"github.com/goliatone/go-cms-zones/internal/commands"
	"github.com/goliatone/go-cms-zones/internal/pages"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const savePageMessageType = "cms.pages.save"

// SavePageCommand creates a page, or appends a version when Page.ID names an
// existing row. On success Page holds the stored version.
type SavePageCommand struct {
	Page *pages.Page `json:"page"`
}

// Type implements command.Message.
func (SavePageCommand) Type() string { return savePageMessageType }

// Validate implements command.Message.
func (m SavePageCommand) Validate() error {
	errs := validation.Errors{}
	if m.Page == nil {
		errs["page"] = validation.NewError("cms.pages.save.page_required", "page is required")
		return errs
	}
	if strings.TrimSpace(m.Page.Title) == "" {
		errs["title"] = validation.NewError("cms.pages.save.title_required", "title is required")
	}
	if strings.TrimSpace(m.Page.ControllerName) == "" {
		errs["controller_name"] = validation.NewError("cms.pages.save.controller_required", "controller name is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SavePageHandler persists pages through the admin façade.
type SavePageHandler struct {
	inner *commands.Handler[SavePageCommand]
}

// NewSavePageHandler builds a handler over pagesAdmin.
func NewSavePageHandler(pagesAdmin *admin.Pages, logger interfaces.Logger, opts ...commands.HandlerOption[SavePageCommand]) *SavePageHandler {
	exec := func(ctx context.Context, msg SavePageCommand) error {
		saved, err := pagesAdmin.Save(ctx, msg.Page)
		if err != nil {
			return err
		}
		*msg.Page = *saved
		return nil
	}
	base := []commands.HandlerOption[SavePageCommand]{
		commands.WithLogger[SavePageCommand](logger),
		commands.WithOperation[SavePageCommand]("pages.save"),
		commands.WithMessageFields(func(msg SavePageCommand) map[string]any {
			if msg.Page == nil {
				return nil
			}
			return map[string]any{
				"page_id":    msg.Page.ID,
				"route":      msg.Page.Route,
				"controller": msg.Page.ControllerName,
			}
		}),
	}
	return &SavePageHandler{inner: commands.NewHandler(command.CommandFunc[SavePageCommand](exec), append(base, opts...)...)}
}

// Execute satisfies command.Commander[SavePageCommand].
func (h *SavePageHandler) Execute(ctx context.Context, msg SavePageCommand) error {
	return h.inner.Execute(ctx, msg)
}
