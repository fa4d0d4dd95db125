package project

import "github.com/fieldnet/fieldnet/engine/core"

func Convert(r Record) Project {
	created := r.CreatedAt.Ptr()
	return Project{
		ID:               r.ID,
		Name:             r.Name,
		Description:      r.Description,
		Image:            r.Image,
		OwnerID:          core.RefID(r.Owner),
		OwnerName:        core.RefName(r.Owner),
		NumDeployments:   r.DeploymentsCount,
		CreatedAt:        created,
		UpdatedAt:        r.UpdatedAt.Ptr(),
		DeploymentsLabel: core.FormatCount(r.DeploymentsCount, "deployment"),
		CreatedLabel:     core.FormatDate(created),
	}
}
