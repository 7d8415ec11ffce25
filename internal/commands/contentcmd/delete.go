package contentcmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-zones/internal/commands"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const deleteContentMessageType = "cms.content.delete"

// Deleter is implemented by every admin façade.
type Deleter interface {
	Delete(ctx context.Context, id uuid.UUID, soft, history bool) error
}

// DeleteContentCommand removes a row, or a whole version history, of the
// resource named by Resource.
type DeleteContentCommand struct {
	Resource string    `json:"resource"`
	ID       uuid.UUID `json:"id"`
	Soft     bool      `json:"soft"`
	History  bool      `json:"history"`
}

// Type implements command.Message.
func (DeleteContentCommand) Type() string { return deleteContentMessageType }

// Validate implements command.Message.
func (m DeleteContentCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Resource) == "" {
		errs["resource"] = validation.NewError("cms.content.delete.resource_required", "resource is required")
	}
	if m.ID == uuid.Nil {
		errs["id"] = validation.NewError("cms.content.delete.id_required", "id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeleteContentHandler dispatches deletes to the façade registered for the
// command resource.
type DeleteContentHandler struct {
	inner *commands.Handler[DeleteContentCommand]
}

// NewDeleteContentHandler builds a handler over targets, keyed by resource
// name.
func NewDeleteContentHandler(targets map[string]Deleter, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteContentCommand]) *DeleteContentHandler {
	byName := make(map[string]Deleter, len(targets))
	for name, target := range targets {
		byName[strings.ToLower(strings.TrimSpace(name))] = target
	}
	exec := func(ctx context.Context, msg DeleteContentCommand) error {
		target, ok := byName[strings.ToLower(strings.TrimSpace(msg.Resource))]
		if !ok {
			return goerrors.New(fmt.Sprintf("unknown content resource %q, expected one of %s", msg.Resource, strings.Join(resourceNames(byName), ", ")), goerrors.CategoryBadInput).
				WithTextCode("UNKNOWN_RESOURCE")
		}
		return target.Delete(ctx, msg.ID, msg.Soft, msg.History)
	}
	base := []commands.HandlerOption[DeleteContentCommand]{
		commands.WithLogger[DeleteContentCommand](logger),
		commands.WithOperation[DeleteContentCommand]("content.delete"),
		commands.WithMessageFields(func(msg DeleteContentCommand) map[string]any {
			return map[string]any{
				"resource": msg.Resource,
				"id":       msg.ID,
				"soft":     msg.Soft,
				"history":  msg.History,
			}
		}),
	}
	return &DeleteContentHandler{inner: commands.NewHandler(command.CommandFunc[DeleteContentCommand](exec), append(base, opts...)...)}
}

// Execute satisfies command.Commander[DeleteContentCommand].
func (h *DeleteContentHandler) Execute(ctx context.Context, msg DeleteContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

func resourceNames(targets map[string]Deleter) []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
