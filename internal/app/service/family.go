package service

import (
	"fmt"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/apperr"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/ds"
)

// LinkChild appends childID to the parent's family record and marks the
// child as pointing back at the parent. The parent's own Parent pointer
// stays nil: roots never become children.
func LinkChild(jobs JobStore, parentID, childID int64) error {
	parent, err := jobs.FindByID(parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return fmt.Errorf("%w: parent job %d", apperr.ErrNotFound, parentID)
	}

	family := ds.Family{}
	if parent.Family != nil {
		family.Child = parent.Family.Child
	}
	for _, existing := range family.Child {
		if existing == childID {
			return nil
		}
	}
	family.Child = append(family.Child, childID)

	if err := jobs.Update(parentID, map[string]interface{}{"family": family}); err != nil {
		return err
	}
	return jobs.Update(childID, map[string]interface{}{
		"family": ds.Family{Parent: &parentID},
	})
}
