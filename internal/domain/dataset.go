package domain

// Dataset bundles the catalog and roster inputs loaded from one source.
type Dataset struct {
	Workers      []Worker       `json:"workers"`
	Availability []Availability `json:"availability"`
	Items        []WorkItem     `json:"items"`
}

// Validate checks the dataset the same way the catalog and roster
// constructors do.
func (d Dataset) Validate() error {
	if _, err := NewRoster(d.Workers, d.Availability); err != nil {
		return err
	}
	if _, err := NewCatalog(d.Items); err != nil {
		return err
	}
	return nil
}

// Empty reports whether the dataset has neither workers nor items.
func (d Dataset) Empty() bool {
	return len(d.Workers) == 0 && len(d.Items) == 0
}
