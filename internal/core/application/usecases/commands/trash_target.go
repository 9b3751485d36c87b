package commands

import (
	"encoding/json"
	"fmt"

	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/pkg/errs"
)

// validateTrashableKind accepts the entity kinds the trash subsystem manages.
// Orders are deliberately not among them: an unwanted order is cancelled
// through its lifecycle, never trashed.
func validateTrashableKind(kind string) error {
	switch kind {
	case audit.EntityUser, audit.EntityProduct, audit.EntityCategory, audit.EntityOffer:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("entityKind",
			fmt.Errorf("%q is not a trashable kind", kind))
	}
}

func trashedSnapshot(trashed bool) json.RawMessage {
	snapshot, _ := json.Marshal(map[string]bool{"trashed": trashed})
	return snapshot
}

func preImage(fields map[string]any) json.RawMessage {
	snapshot, _ := json.Marshal(fields)
	return snapshot
}
