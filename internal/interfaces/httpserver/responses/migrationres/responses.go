package migrationres

// MigrateResponse reports how many records moved to the authenticated account.
// Both counts are zero when the guest id had no data or was already migrated.
type MigrateResponse struct {
	GuestID       string `json:"guest_id"`
	ThreadsMoved  int64  `json:"threads_moved"`
	ProjectsMoved int64  `json:"projects_moved"`
}

// GuestSessionResponse carries a freshly minted or existing guest identity.
type GuestSessionResponse struct {
	GuestID           string `json:"guest_id"`
	RemainingMessages int    `json:"remaining_messages"`
}
