package domain

// Firmware is an entry of the firmware catalog, e.g. "iOS 16.6 (20G75)"
type Firmware struct {
	Build   string
	Name    string
	Version string
}

// Label returns the catalog display string
func (f Firmware) Label() string {
	if f.Build == "" {
		return f.Name
	}
	return f.Name + " (" + f.Build + ")"
}
