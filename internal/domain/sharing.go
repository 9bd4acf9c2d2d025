package domain

// FollowedList is a weak reference to another user's CustomList. It carries
// the relation and enough denormalized data for fast display; the list
// content itself is always re-fetched from the remote store.
type FollowedList struct {
	ListID  string `json:"list_id"`
	OwnerID string `json:"owner_id"`
	// ListName is captured at redemption time and not kept in sync with
	// later renames by the owner.
	ListName string `json:"list_name"`
}

// ShareCodeLength is the length of generated share codes.
const ShareCodeLength = 6

// ShareCode links a short redeemable code to a list. Stored in a top-level
// collection keyed by the code itself. Codes have no expiry and may be
// redeemed by any number of users.
type ShareCode struct {
	Code    string `json:"code"`
	OwnerID string `json:"owner_id"`
	ListID  string `json:"list_id"`
}
