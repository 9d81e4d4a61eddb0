// pkg/sniff/rules.go
package sniff

import "strings"

// FormatID is the registry id of a recognized format
type FormatID string

const (
	// Generic is returned when no landmark entry is found
	Generic FormatID = "zip"
	// JAR is returned when only a Java manifest is found
	JAR FormatID = "jar"
)

// manifestName marks Java archives; on its own it does not decide the format
const manifestName = "META-INF/MANIFEST.MF"

// Matcher tests one entry name. Every set field must hold for a match.
type Matcher struct {
	Exact    string   // whole name equals
	Prefix   string   // name starts with
	Suffixes []string // name ends with any of
	Contains string   // name contains
	Flat     bool     // name has no '/' at all
}

// Match reports whether name satisfies every condition of m
func (m Matcher) Match(name string) bool {
	if m.Exact != "" && name != m.Exact {
		return false
	}
	if m.Prefix != "" && !strings.HasPrefix(name, m.Prefix) {
		return false
	}
	if len(m.Suffixes) > 0 && !hasAnySuffix(name, m.Suffixes) {
		return false
	}
	if m.Contains != "" && !strings.Contains(name, m.Contains) {
		return false
	}
	if m.Flat && strings.Contains(name, "/") {
		return false
	}
	return true
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// Rule maps a landmark entry to a format
type Rule struct {
	Matcher Matcher
	Result  FormatID
}

// exactRules are checked before the manifest and the pattern rules
var exactRules = []Rule{
	{Matcher{Exact: "AndroidManifest.xml"}, "apk"},
	{Matcher{Exact: "AppManifest.xaml"}, "xap"},
	{Matcher{Exact: "AppxManifest.xml"}, "appx"},
	{Matcher{Exact: "AppxMetadata/AppxBundleManifest.xml"}, "appxbundle"},
	{Matcher{Exact: "BundleConfig.pb"}, "aab"},
	{Matcher{Exact: "DOMDocument.xml"}, "fla"},
	{Matcher{Exact: "META-INF/AIR/application.xml"}, "air"},
	{Matcher{Exact: "META-INF/application.xml"}, "ear"},
	{Matcher{Exact: "META-INF/mozilla.rsa"}, "xpi"},
	{Matcher{Exact: "WEB-INF/web.xml"}, "war"},
	{Matcher{Exact: "doc.kml"}, "kmz"},
	{Matcher{Exact: "document.json"}, "sketch43"},
	{Matcher{Exact: "extension.vsixmanifest"}, "vsix"},
}

// patternRules are checked in declaration order
var patternRules = []Rule{
	{Matcher{Prefix: "Fusion[Active]/"}, "autodesk123d"},
	{Matcher{Prefix: "circuitdiagram/"}, "cddx"},
	{Matcher{Prefix: "dwf/"}, "dwfx"},
	{Matcher{Suffixes: []string{".fb2"}, Flat: true}, "fbz"},
	{Matcher{Prefix: "FusionAssetName[Active]/"}, "fusion360"},
	{Matcher{Prefix: "Payload/", Contains: ".app/"}, "ipa"},
	{Matcher{Prefix: "word/"}, "ooxmldocument"},
	{Matcher{Prefix: "visio/"}, "ooxmldrawing"},
	{Matcher{Prefix: "ppt/"}, "ooxmlpresentation"},
	{Matcher{Prefix: "xl/"}, "ooxmlspreadsheet"},
	{Matcher{Prefix: "Documents/", Suffixes: []string{".fpage"}}, "xps"},
	{Matcher{Prefix: "SpaceClaim/"}, "scdoc"},
	{Matcher{Prefix: "3D/", Suffixes: []string{".model"}}, "3mf"},
	{Matcher{Suffixes: []string{".usd", ".usda", ".usdc"}, Flat: true}, "usdz"},
}

func firstMatch(rules []Rule, name string) (FormatID, bool) {
	for _, r := range rules {
		if r.Matcher.Match(name) {
			return r.Result, true
		}
	}
	return "", false
}
