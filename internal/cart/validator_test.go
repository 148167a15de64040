package cart

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/petbazaar/petbazaar-backend/pkg/enums"
	pkgerrors "github.com/petbazaar/petbazaar-backend/pkg/errors"
)

func productSnapshotLine(id uuid.UUID, quantity int) LineItem {
	return LineItem{
		ID:             id,
		Kind:           enums.ItemKindProduct,
		DisplayName:    "Scratching Post",
		UnitPrice:      decimal.NewFromInt(800),
		Quantity:       quantity,
		AvailableStock: quantity,
	}
}

func petSnapshotLine(id uuid.UUID) LineItem {
	return LineItem{
		ID:          id,
		Kind:        enums.ItemKindPet,
		DisplayName: "Luna",
		UnitPrice:   decimal.NewFromInt(12000),
		Quantity:    1,
		PetStatus:   enums.PetStatusAvailable,
	}
}

func TestValidateCleanCart(t *testing.T) {
	productID := uuid.New()
	petID := uuid.New()
	snap := Snapshot{
		Products: []LineItem{productSnapshotLine(productID, 2)},
		Pets:     []LineItem{petSnapshotLine(petID)},
	}
	avail := Availability{
		ProductStock: map[uuid.UUID]int{productID: 2},
		PetStatus:    map[uuid.UUID]enums.PetStatus{petID: enums.PetStatusAvailable},
	}

	if issues := Validate(snap, avail); len(issues) != 0 {
		t.Fatalf("expected clean cart, got %+v", issues)
	}
}

func TestValidateEmptyCart(t *testing.T) {
	if issues := Validate(Snapshot{}, Availability{}); len(issues) != 0 {
		t.Fatalf("expected no issues for empty cart, got %+v", issues)
	}
}

func TestValidateInsufficientStock(t *testing.T) {
	productID := uuid.New()
	snap := Snapshot{Products: []LineItem{productSnapshotLine(productID, 3)}}
	avail := Availability{ProductStock: map[uuid.UUID]int{productID: 1}}

	issues := Validate(snap, avail)
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %+v", issues)
	}
	if issues[0].LineID != productID {
		t.Fatalf("issue flags wrong line: %+v", issues[0])
	}
	if want := "only 1 in stock, cart has 3"; issues[0].Reason != want {
		t.Fatalf("reason = %q, want %q", issues[0].Reason, want)
	}
}

func TestValidateProductNoLongerSold(t *testing.T) {
	snap := Snapshot{Products: []LineItem{productSnapshotLine(uuid.New(), 1)}}

	issues := Validate(snap, Availability{ProductStock: map[uuid.UUID]int{}})
	if len(issues) != 1 || issues[0].Reason != "product is no longer sold" {
		t.Fatalf("expected delisting issue, got %+v", issues)
	}
}

func TestValidatePetNoLongerAvailable(t *testing.T) {
	soldID := uuid.New()
	goneID := uuid.New()
	snap := Snapshot{Pets: []LineItem{petSnapshotLine(soldID), petSnapshotLine(goneID)}}
	avail := Availability{
		PetStatus: map[uuid.UUID]enums.PetStatus{soldID: enums.PetStatusAdopted},
	}

	issues := Validate(snap, avail)
	if len(issues) != 2 {
		t.Fatalf("expected issues for adopted and delisted pets, got %+v", issues)
	}
	for _, issue := range issues {
		if issue.Reason != "pet is no longer available" {
			t.Fatalf("unexpected reason %q", issue.Reason)
		}
	}
}

func TestIssuesErrorNilForCleanCart(t *testing.T) {
	if err := IssuesError(nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestIssuesErrorCarriesEveryIssue(t *testing.T) {
	issues := []Issue{
		{LineID: uuid.New(), Kind: enums.ItemKindProduct, DisplayName: "Bird Cage", Reason: "product is no longer sold"},
		{LineID: uuid.New(), Kind: enums.ItemKindPet, DisplayName: "Coco", Reason: "pet is no longer available"},
	}

	err := IssuesError(issues)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStaleInventory {
		t.Fatalf("expected stale-inventory error, got %v", err)
	}

	details, ok := typed.Details().([]Issue)
	if !ok || len(details) != 2 {
		t.Fatalf("expected issue list in details, got %#v", typed.Details())
	}

	wrapped := multierr.Errors(typed.Unwrap())
	if len(wrapped) != 2 {
		t.Fatalf("expected two wrapped causes, got %d", len(wrapped))
	}
	if !strings.Contains(wrapped[0].Error(), "no longer sold") {
		t.Fatalf("unexpected first cause %q", wrapped[0])
	}
}
