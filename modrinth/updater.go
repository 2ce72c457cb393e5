package modrinth

import (
	"errors"

	"github.com/packit/packit/core"
)

type mrUpdater struct {
	client *Client
}

func (u mrUpdater) CheckUpdate(entry core.PackageEntry, cons core.Constraints) (*core.Selection, error) {
	ref, ok := entry.Update.(core.ModrinthRef)
	if !ok {
		return nil, errors.New("entry " + entry.Name + " was not added from modrinth")
	}

	client := u.client
	if client == nil {
		client = newClientFromConfig(ref.Staging)
	}
	sel, err := client.Resolve(ref.ProjectID, cons)
	if err != nil {
		return nil, err
	}
	if sel.Update.(core.ModrinthRef).VersionID == ref.VersionID {
		return nil, nil
	}
	return sel, nil
}
