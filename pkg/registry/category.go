// pkg/registry/category.go
package registry

import "strings"

// Category is the closed set of file categories known to the registry.
// The zero value is CategoryOther, which is also the fallback for unknown tokens.
type Category int

const (
	CategoryOther        Category = iota // anything not covered below
	CategoryArchive                      // files and directories stored in a single, possibly compressed, archive
	CategoryAudio                        // music, sounds, recordings, trackers, ringtones, speech synthesis
	CategoryBackup                       // application backups
	CategoryCalendar                     // calendars
	CategoryCompressed                   // compressed single files or streams
	CategoryConfig                       // configuration files
	CategoryContacts                     // address books and contacts
	CategoryCurrency                     // electronic currencies
	CategoryDatabase                     // organized collections of data
	CategoryDiagram                      // diagrams
	CategoryDisk                         // floppy, optical and virtual machine disk images
	CategoryDocument                     // word processing and desktop publishing
	CategoryEbook                        // electronic books
	CategoryExecutable                   // machine code, VM code, shared libraries
	CategoryFont                         // typefaces
	CategoryFormula                      // mathematical formulas
	CategoryGamedata                     // game saves and data
	CategoryGeospatial                   // geospatial features, GPS tracks
	CategoryHaptics                      // haptic effects
	CategoryHelp                         // help files, man pages
	CategoryImage                        // raster and vector graphics, icons, animations
	CategoryInstaller                    // installers
	CategoryMetadata                     // data about other data
	CategoryModel                        // 3D, CAD/CAM
	CategoryPackage                      // bundles for distribution
	CategoryPlaylist                     // media playlists
	CategoryPresentation                 // slideshows
	CategoryROM                          // ROM dumps
	CategorySpreadsheet                  // tabular data
	CategorySubtitle                     // subtitles and captions
	CategoryTemporary                    // temporary application files
	CategoryVideo                        // video streams and containers
)

var categoryNames = [...]string{
	CategoryOther:        "Other",
	CategoryArchive:      "Archive",
	CategoryAudio:        "Audio",
	CategoryBackup:       "Backup",
	CategoryCalendar:     "Calendar",
	CategoryCompressed:   "Compressed",
	CategoryConfig:       "Config",
	CategoryContacts:     "Contacts",
	CategoryCurrency:     "Currency",
	CategoryDatabase:     "Database",
	CategoryDiagram:      "Diagram",
	CategoryDisk:         "Disk",
	CategoryDocument:     "Document",
	CategoryEbook:        "Ebook",
	CategoryExecutable:   "Executable",
	CategoryFont:         "Font",
	CategoryFormula:      "Formula",
	CategoryGamedata:     "Gamedata",
	CategoryGeospatial:   "Geospatial",
	CategoryHaptics:      "Haptics",
	CategoryHelp:         "Help",
	CategoryImage:        "Image",
	CategoryInstaller:    "Installer",
	CategoryMetadata:     "Metadata",
	CategoryModel:        "Model",
	CategoryPackage:      "Package",
	CategoryPlaylist:     "Playlist",
	CategoryPresentation: "Presentation",
	CategoryROM:          "Rom",
	CategorySpreadsheet:  "Spreadsheet",
	CategorySubtitle:     "Subtitle",
	CategoryTemporary:    "Temporary",
	CategoryVideo:        "Video",
}

// String returns the category name
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return categoryNames[CategoryOther]
	}
	return categoryNames[c]
}

// ParseCategory maps a token to a category, ignoring ASCII case.
// Unknown tokens map to CategoryOther; parsing never fails.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for c, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return Category(c)
		}
	}
	return CategoryOther
}

// UnmarshalText implements encoding.TextUnmarshaler with the Other fallback
func (c *Category) UnmarshalText(text []byte) error {
	*c = ParseCategory(string(text))
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
