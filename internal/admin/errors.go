package admin

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-zones/internal/versioning"
	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrRouteUnavailable reports a page route owned by another page.
	ErrRouteUnavailable = errors.New("admin: route unavailable")
	// ErrZoneNameUnavailable reports a zone name owned by another zone.
	ErrZoneNameUnavailable = errors.New("admin: zone name unavailable")
	// ErrUnknownController reports a page bound to an unregistered controller.
	ErrUnknownController = errors.New("admin: unknown controller")
	// ErrUnknownComponent reports a zone item bound to an unregistered component.
	ErrUnknownComponent = errors.New("admin: unknown component")
	// ErrArticleListMissing reports an article naming a list that does not
	// exist.
	ErrArticleListMissing = errors.New("admin: article list missing")
)

const (
	textCodeInvalid          = "CONTENT_INVALID"
	textCodeNotFound         = "CONTENT_NOT_FOUND"
	textCodeVersionConflict  = "CONTENT_VERSION_CONFLICT"
	textCodeRouteUnavailable = "ROUTE_UNAVAILABLE"
	textCodeNameUnavailable  = "ZONE_NAME_UNAVAILABLE"
	textCodeConfigInvalid    = "CONFIGURATION_INVALID"
)

func routeUnavailable(route string) error {
	return goerrors.Wrap(ErrRouteUnavailable, goerrors.CategoryConflict,
		fmt.Sprintf("route %q is already used by another page", route)).
		WithTextCode(textCodeRouteUnavailable)
}

func zoneNameUnavailable(name string) error {
	return goerrors.Wrap(ErrZoneNameUnavailable, goerrors.CategoryConflict,
		fmt.Sprintf("zone name %q is already used by another zone", name)).
		WithTextCode(textCodeNameUnavailable)
}

func notFound(resource, key string) error {
	return goerrors.Wrap(&versioning.NotFoundError{Resource: resource, Key: key}, goerrors.CategoryNotFound,
		fmt.Sprintf("%s %s not found", resource, key)).
		WithTextCode(textCodeNotFound)
}

func invalid(err error, message string) error {
	if err == nil {
		return nil
	}
	return goerrors.FromOzzoValidation(err, message).WithTextCode(textCodeInvalid)
}

func fieldInvalid(source error, field, message string, issues ...string) error {
	fieldErrors := make([]goerrors.FieldError, 0, len(issues))
	for _, issue := range issues {
		fieldErrors = append(fieldErrors, goerrors.FieldError{Field: field, Message: issue})
	}
	if len(fieldErrors) == 0 {
		fieldErrors = append(fieldErrors, goerrors.FieldError{Field: field, Message: message})
	}
	err := goerrors.NewValidation(message, fieldErrors...).WithTextCode(textCodeConfigInvalid)
	err.Source = source
	return err
}

// mapStoreError gives store failures a go-errors category.
func mapStoreError(err error, resource, key string) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	var conflict *versioning.VersionConflictError
	switch {
	case versioning.IsNotFound(err):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, fmt.Sprintf("%s %s not found", resource, key)).
			WithTextCode(textCodeNotFound)
	case errors.As(err, &conflict):
		return goerrors.Wrap(err, goerrors.CategoryConflict, conflict.Error()).
			WithTextCode(textCodeVersionConflict)
	case errors.Is(err, versioning.ErrEntityRequired):
		return goerrors.Wrap(err, goerrors.CategoryBadInput, err.Error())
	default:
		return goerrors.Wrap(err, goerrors.CategoryInternal, fmt.Sprintf("%s storage failed", resource))
	}
}
