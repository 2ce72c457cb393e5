package curseforge

import (
	"errors"

	"github.com/packit/packit/core"
)

type cfUpdater struct {
	client *Client
}

func (u cfUpdater) CheckUpdate(entry core.PackageEntry, cons core.Constraints) (*core.Selection, error) {
	ref, ok := entry.Update.(core.CurseforgeRef)
	if !ok {
		return nil, errors.New("entry " + entry.Name + " was not added from curseforge")
	}

	client := u.client
	if client == nil {
		client = newClientFromConfig()
	}
	sel, err := client.ResolveByID(ref.AddonID, entry.Name, cons)
	if err != nil {
		return nil, err
	}
	if sel.Update.(core.CurseforgeRef).FileID == ref.FileID {
		return nil, nil
	}
	return sel, nil
}
