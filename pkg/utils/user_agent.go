package utils

import (
	"fmt"
	"strings"

	"github.com/avct/uasurfer"
)

const unknown = "Unknown"

type UserAgentInfo struct {
	Device  string
	OS      string
	Browser string
	Locale  string
}

// ParseUserAgent never returns nil. Unrecognised agents report Unknown parts.
func ParseUserAgent(uaString string, acceptLanguage string) *UserAgentInfo {
	info := &UserAgentInfo{
		Device:  unknown,
		OS:      unknown,
		Browser: unknown,
		Locale:  parseLocale(acceptLanguage),
	}
	if uaString == "" {
		return info
	}

	ua := uasurfer.Parse(uaString)
	switch ua.DeviceType {
	case uasurfer.DeviceComputer:
		info.Device = "Computer"
	case uasurfer.DeviceTablet:
		info.Device = "Tablet"
	case uasurfer.DevicePhone:
		info.Device = "Phone"
	case uasurfer.DeviceConsole:
		info.Device = "Console"
	case uasurfer.DeviceWearable:
		info.Device = "Wearable"
	case uasurfer.DeviceTV:
		info.Device = "TV"
	}
	if ua.OS.Name != uasurfer.OSUnknown {
		info.OS = fmt.Sprintf("%s %d.%d", ua.OS.Name.StringTrimPrefix(), ua.OS.Version.Major, ua.OS.Version.Minor)
	}
	if ua.Browser.Name != uasurfer.BrowserUnknown {
		info.Browser = fmt.Sprintf("%s %d.%d", ua.Browser.Name.StringTrimPrefix(), ua.Browser.Version.Major, ua.Browser.Version.Minor)
	}
	return info
}

// Headers renders the info as message headers.
func (u *UserAgentInfo) Headers() map[string]string {
	if u == nil {
		return map[string]string{}
	}
	h := map[string]string{
		"device":  u.Device,
		"os":      u.OS,
		"browser": u.Browser,
	}
	if u.Locale != "" {
		h["locale"] = u.Locale
	}
	return h
}

func parseLocale(acceptLanguage string) string {
	locale, _, _ := strings.Cut(acceptLanguage, ",")
	locale, _, _ = strings.Cut(locale, ";")
	return strings.TrimSpace(locale)
}
