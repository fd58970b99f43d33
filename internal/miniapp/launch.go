package miniapp

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"slices"

	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/launch"
)

// DefaultPrivilegedUserID is the administrator recognised when no other
// admin list is configured.
const DefaultPrivilegedUserID int64 = 699229724

// AdminResolver decides whether a user is an administrator.
type AdminResolver interface {
	IsAdmin(userID int64) bool
}

// AdminIDs is a fixed list of administrator ids.
type AdminIDs []int64

// IsAdmin implements AdminResolver.
func (a AdminIDs) IsAdmin(userID int64) bool {
	return userID != 0 && slices.Contains(a, userID)
}

// DefaultAdmins returns the resolver used when none is injected.
func DefaultAdmins() AdminIDs {
	return AdminIDs{DefaultPrivilegedUserID}
}

// LaunchContext is what the mini-app knows about its session at startup.
type LaunchContext struct {
	IsAdmin bool
	Catalog project.Catalog
	// Demo is set when no usable catalog was supplied.
	Demo bool
	// Payload is the full launch payload, when the data parameter carried one.
	Payload *launch.Payload
}

// ReadLaunchContext resolves the admin flag and the project catalog from
// launch parameters. Malformed parameters are logged and ignored.
func ReadLaunchContext(params url.Values, userID int64, admins AdminResolver, logger *slog.Logger) LaunchContext {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if admins == nil {
		admins = DefaultAdmins()
	}

	lc := LaunchContext{
		IsAdmin: params.Get(launch.ParamAdmin) == "true" || admins.IsAdmin(userID),
	}

	if raw := params.Get(launch.ParamData); raw != "" {
		payload, err := launch.ParseData(raw)
		if err != nil {
			logger.Warn("ignoring malformed launch data", "error", err)
		} else {
			lc.Payload = payload
			lc.IsAdmin = lc.IsAdmin || payload.Admin
		}
	}

	if raw, ok := params[launch.ParamProjects]; ok && len(raw) > 0 {
		catalog, err := decodeCatalog(raw[0])
		if err != nil {
			logger.Warn("ignoring malformed projects parameter", "error", err)
		} else {
			lc.Catalog = catalog
		}
	}
	if len(lc.Catalog) == 0 && lc.Payload != nil {
		lc.Catalog = lc.Payload.Projects
	}
	if len(lc.Catalog) == 0 {
		logger.Debug("no project catalog supplied, using demo catalog")
		lc.Catalog = project.DemoCatalog()
		lc.Demo = true
	}
	return lc
}

func decodeCatalog(raw string) (project.Catalog, error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return nil, err
	}
	var catalog project.Catalog
	if err := json.Unmarshal([]byte(decoded), &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}
