package store

import (
	"github.com/hashicorp/go-uuid"

	"github.com/duoscreen/orchestrator/internal/model"
)

// allocateActionId mints a fresh ActionId for a node whose id was nil at
// save time (I1).
func allocateActionId() model.ActionId {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return model.ActionId("uncorrelated")
	}
	return model.ActionId(id)
}
