package messaging

type ChangeTopic string

const (
	// CatalogChanged is published upstream when the remote catalog has new data.
	CatalogChanged ChangeTopic = "catalog_changed"
	// CatalogReloaded is published after a new snapshot has been swapped in.
	CatalogReloaded ChangeTopic = "catalog_reloaded"
	TrackingTopic   ChangeTopic = "tracking"
)

type ReloadedEvent struct {
	Country  string `json:"country,omitempty"`
	Products int    `json:"products"`
	InStock  int    `json:"inStock"`
	Source   string `json:"source"`
}
