package types

// Preset is one browsable sound, immutable once loaded. Bank 0 means the
// preset belongs to no bank.
type Preset struct {
	Id          uint   `json:"id"`
	Name        string `json:"name"`
	Comment     string `json:"comment"`
	Vendor      string `json:"vendor"`
	ProductId   uint   `json:"-"`
	ProductName string `json:"product"`
	FileName    string `json:"-"`
	Bank        uint   `json:"-"`
	Categories  IdList `json:"-"`
	Modes       IdList `json:"-"`
}

// NoBank marks presets outside any bank chain.
const NoBank uint = 0
