package document

// QualityProfile bounds the rendered page size and JPEG quality used when a
// PDF is rebuilt from page images.
type QualityProfile struct {
	Name         string `json:"name" yaml:"name"`
	MaxDimension int    `json:"max_dimension" yaml:"max_dimension"`
	JPEGQuality  int    `json:"jpeg_quality" yaml:"jpeg_quality"`
	Grayscale    bool   `json:"grayscale,omitempty" yaml:"grayscale,omitempty"`
}

const (
	ProfileColorHigh   = "color-high"
	ProfileColorMedium = "color-medium"
	ProfileGrayscale   = "grayscale"
)

var profiles = map[string]QualityProfile{
	ProfileColorHigh:   {Name: ProfileColorHigh, MaxDimension: 3508, JPEGQuality: 90},
	ProfileColorMedium: {Name: ProfileColorMedium, MaxDimension: 2480, JPEGQuality: 75},
	ProfileGrayscale:   {Name: ProfileGrayscale, MaxDimension: 2480, JPEGQuality: 70, Grayscale: true},
}

// ProfileByName resolves a profile name, falling back to color-medium for
// unknown or empty names.
func ProfileByName(name string) QualityProfile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return profiles[ProfileColorMedium]
}

// Profile returns the document's export quality profile.
func (d *Document) Profile() QualityProfile {
	return ProfileByName(d.QualityProfile)
}
