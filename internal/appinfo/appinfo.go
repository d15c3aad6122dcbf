package appinfo

// Name is the user-facing application name.
const Name = "SnipAI"

// Version is the user-facing semantic version.
//
// Keep this as a var so it can be overridden at build time via:
//
//	-ldflags "-X snipai/internal/appinfo.Version=0.1.1"
var Version = "0.1.0"

func Display() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	return Name + " v" + v
}
