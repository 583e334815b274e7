// Package platform classifies the runtime environment from a
// user-agent style string. The classification only ever selects a
// delivery branch; it never changes document content.
package platform

import "regexp"

// OS is the operating-system family of the classified environment.
type OS string

const (
	IOS     OS = "ios"
	Android OS = "android"
	Other   OS = "other"
)

// Info is the result of a classification.
type Info struct {
	Mobile bool
	OS     OS
}

var (
	iosPattern     = regexp.MustCompile(`iPad|iPhone|iPod`)
	androidPattern = regexp.MustCompile(`Android`)
	mobilePattern  = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)
)

// Classify inspects a user-agent style string. An empty string yields
// the desktop default.
func Classify(userAgent string) Info {
	info := Info{OS: Other}
	if userAgent == "" {
		return info
	}

	switch {
	case iosPattern.MatchString(userAgent):
		info.OS = IOS
	case androidPattern.MatchString(userAgent):
		info.OS = Android
	}
	info.Mobile = mobilePattern.MatchString(userAgent)
	return info
}
