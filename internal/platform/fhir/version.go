package fhir

import "strings"

// Version identifies the FHIR schema generation that produced a resource.
type Version string

// Supported FHIR versions, oldest first.
const (
	DSTU2 Version = "dstu2"
	STU3  Version = "stu3"
	R4    Version = "r4"
)

// versionInfo holds the release metadata for one supported version.
type versionInfo struct {
	Release string // published release number, e.g. "4.0.1"
	Prefix  string // release prefix accepted by ParseVersion
}

var versionInfos = map[Version]versionInfo{
	DSTU2: {Release: "1.0.2", Prefix: "1.0."},
	STU3:  {Release: "3.0.2", Prefix: "3.0."},
	R4:    {Release: "4.0.1", Prefix: "4.0."},
}

// SupportedVersions returns the supported versions, oldest first.
func SupportedVersions() []Version {
	return []Version{DSTU2, STU3, R4}
}

// String returns the version tag.
func (v Version) String() string {
	return string(v)
}

// IsValid returns true if v is one of the supported versions.
func (v Version) IsValid() bool {
	_, ok := versionInfos[v]
	return ok
}

// Release returns the published release number for v, or "" when v is not
// supported.
func (v Version) Release() string {
	return versionInfos[v].Release
}

// ParseVersion normalizes the spelling of a version tag. It accepts the tag in
// any case ("R4", "r4") and release numbers ("4.0.1"). Anything else is
// returned unchanged so that callers reject it with the offending value intact.
func ParseVersion(s string) Version {
	tag := strings.ToLower(strings.TrimSpace(s))
	if Version(tag).IsValid() {
		return Version(tag)
	}
	for v, info := range versionInfos {
		if strings.HasPrefix(tag, info.Prefix) || tag == strings.TrimSuffix(info.Prefix, ".") {
			return v
		}
	}
	return Version(s)
}
