package migrationreq

// MigrateRequest optionally names the guest id whose data should move to the
// authenticated caller. When absent the guest cookie on the request is used.
type MigrateRequest struct {
	GuestID string `json:"guest_id"`
}
