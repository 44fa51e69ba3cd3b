package microcase

import (
	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/phrazzld/microcase-api/internal/store"
)

// StatusPublished is the listing status that excludes drafts.
const StatusPublished = "published"

// CanListDrafts reports whether the caller may see any draft in a listing.
func CanListDrafts(caller domain.Caller) bool {
	return caller.IsAuthenticated()
}

// CanViewCase reports whether the caller may open the case. Published cases
// are open to anyone, drafts only to their author.
func CanViewCase(caller domain.Caller, c *domain.MicroCase) bool {
	if c.IsPublished {
		return true
	}
	return caller.Is(c.CreatedBy)
}

// CanSubmitAttempt returns the user an attempt is recorded for.
// An anonymous caller gets ErrUnauthenticated.
func CanSubmitAttempt(caller domain.Caller) (uuid.UUID, error) {
	if !caller.IsAuthenticated() {
		return uuid.Nil, ErrUnauthenticated
	}
	return caller.UserID, nil
}

// ListVisibility turns a requested listing status into the visibility
// branches the store evaluates. The status defaults to "published"; any
// other value asks for the caller's drafts too, which without an identity
// quietly falls back to published cases only.
func ListVisibility(caller domain.Caller, status string) []store.Visibility {
	if status == "" || status == StatusPublished || !CanListDrafts(caller) {
		return []store.Visibility{store.Published{}}
	}
	return []store.Visibility{
		store.Published{},
		store.OwnedBy{UserID: caller.UserID},
	}
}
