package cart

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	pkgerrors "github.com/petbazaar/petbazaar-backend/pkg/errors"
)

// Availability is the freshness data the validator interprets. Fetching it
// is the catalog's job; entities absent from the maps are treated as gone.
type Availability struct {
	ProductStock map[uuid.UUID]int
	PetStatus    map[uuid.UUID]enums.PetStatus
}

// Issue flags one stale cart line. Issues block entry to checkout until the
// user removes or adjusts the line; quantities are never auto-corrected.
type Issue struct {
	LineID      uuid.UUID      `json:"line_id"`
	Kind        enums.ItemKind `json:"kind"`
	DisplayName string         `json:"display_name"`
	Reason      string         `json:"reason"`
}

// Validate checks every line in the snapshot against current availability.
// An empty result means the cart is clean.
func Validate(snap Snapshot, avail Availability) []Issue {
	var issues []Issue

	for _, line := range snap.Products {
		stock, ok := avail.ProductStock[line.ID]
		if !ok {
			issues = append(issues, Issue{
				LineID:      line.ID,
				Kind:        line.Kind,
				DisplayName: line.DisplayName,
				Reason:      "product is no longer sold",
			})
			continue
		}
		if line.Quantity > stock {
			issues = append(issues, Issue{
				LineID:      line.ID,
				Kind:        line.Kind,
				DisplayName: line.DisplayName,
				Reason:      fmt.Sprintf("only %d in stock, cart has %d", stock, line.Quantity),
			})
		}
	}

	for _, line := range snap.Pets {
		status, ok := avail.PetStatus[line.ID]
		if !ok || status != enums.PetStatusAvailable {
			issues = append(issues, Issue{
				LineID:      line.ID,
				Kind:        line.Kind,
				DisplayName: line.DisplayName,
				Reason:      "pet is no longer available",
			})
		}
	}

	return issues
}

// IssuesError folds a non-empty issue list into one typed error carrying the
// full list as details. Returns nil for a clean cart.
func IssuesError(issues []Issue) error {
	if len(issues) == 0 {
		return nil
	}
	var combined error
	for _, issue := range issues {
		combined = multierr.Append(combined, fmt.Errorf("%s %s: %s", issue.Kind, issue.LineID, issue.Reason))
	}
	return pkgerrors.
		Wrap(pkgerrors.CodeStaleInventory, combined, "cart contents are out of date").
		WithDetails(issues)
}
