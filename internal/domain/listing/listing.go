package listing

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Status represents the canonical listing status. It unifies the item
// lifecycle and the escrow lifecycle into a single closed enum; legacy
// escrow values written by older code are normalized via legacyStatuses.
type Status string

const (
	StatusActive          Status = "active"
	StatusReserved        Status = "reserved"
	StatusEscrowCompleted Status = "escrow_completed"
	StatusShipping        Status = "shipping"
	StatusShipped         Status = "shipped"
	StatusSold            Status = "sold"
	StatusCancelRequested Status = "cancel_requested"
	StatusCancelled       Status = "cancelled"
	StatusDeleted         Status = "deleted"
)

// UnknownStatusError signals a status value outside the closed enum.
// Callers must not coerce it away; it is a data-corruption signal.
type UnknownStatusError struct {
	Value string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown listing status: %q", e.Value)
}

// StatusInfo holds display metadata for a status.
type StatusInfo struct {
	Label      string `json:"label"`
	ColorClass string `json:"colorClass"`
	Order      int    `json:"order"`
}

var statusCatalog = map[Status]StatusInfo{
	StatusActive:          {Label: "판매중", ColorClass: "bg-green-100 text-green-800", Order: 0},
	StatusReserved:        {Label: "예약중", ColorClass: "bg-yellow-100 text-yellow-800", Order: 1},
	StatusEscrowCompleted: {Label: "결제완료", ColorClass: "bg-blue-100 text-blue-800", Order: 2},
	StatusShipping:        {Label: "배송중", ColorClass: "bg-indigo-100 text-indigo-800", Order: 3},
	StatusShipped:         {Label: "배송완료", ColorClass: "bg-purple-100 text-purple-800", Order: 4},
	StatusSold:            {Label: "판매완료", ColorClass: "bg-gray-100 text-gray-800", Order: 5},
	StatusCancelRequested: {Label: "취소요청", ColorClass: "bg-orange-100 text-orange-800", Order: 6},
	StatusCancelled:       {Label: "판매취소", ColorClass: "bg-red-100 text-red-800", Order: 98},
	StatusDeleted:         {Label: "삭제됨", ColorClass: "bg-gray-100 text-gray-500", Order: 99},
}

// legacyStatuses maps escrow-enum values persisted by older code onto the
// canonical enum. Records are rewritten once at load time.
var legacyStatuses = map[string]Status{
	"initiated": StatusReserved,
	"예약중":       StatusReserved,
	"판매중":       StatusActive,
	"판매완료":      StatusSold,
}

// Catalog returns display metadata for a status.
func Catalog(s Status) (StatusInfo, error) {
	info, ok := statusCatalog[s]
	if !ok {
		return StatusInfo{}, &UnknownStatusError{Value: string(s)}
	}
	return info, nil
}

// Normalize converts a raw persisted status value to the canonical enum,
// mapping legacy escrow values where possible.
func Normalize(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := statusCatalog[s]; ok {
		return s, nil
	}
	if mapped, ok := legacyStatuses[raw]; ok {
		return mapped, nil
	}
	return "", &UnknownStatusError{Value: raw}
}

// IsKnown reports whether s is in the closed enum.
func IsKnown(s Status) bool {
	_, ok := statusCatalog[s]
	return ok
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s Status) bool {
	return s == StatusSold || s == StatusCancelled || s == StatusDeleted
}

// AllStatuses returns every status in the closed enum, ordered by
// progression order. Used for exhaustiveness checks and migrations.
func AllStatuses() []Status {
	out := make([]Status, 0, len(statusCatalog))
	for s := range statusCatalog {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return statusCatalog[out[i]].Order < statusCatalog[out[j]].Order
	})
	return out
}

// Condition enum: categories of instrument wear, product-side metadata.
type Condition string

const (
	ConditionNew       Condition = "NEW"
	ConditionLikeNew   Condition = "LIKE_NEW"
	ConditionUsed      Condition = "USED"
	ConditionForRepair Condition = "FOR_REPAIR"
)

// Listing represents a published instrument listing.
type Listing struct {
	ID          int64     `json:"id"`
	ListingID   uuid.UUID `json:"listingId"`
	SellerID    uuid.UUID `json:"sellerId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Condition   Condition `json:"condition"`
	Price       int64     `json:"price"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewListing creates a published listing in the active status.
func NewListing(sellerID uuid.UUID, title string, price int64) *Listing {
	now := time.Now().UTC()
	return &Listing{
		ListingID: uuid.New(),
		SellerID:  sellerID,
		Title:     title,
		Condition: ConditionUsed,
		Price:     price,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
