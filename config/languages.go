package config

import "strings"

// Presentation data for the renderer: display names, flags, and colors.
// Core transcript logic never branches on these tables.

type languageInfo struct {
	Name string
	Flag string
}

var languages = map[string]languageInfo{
	"ar": {"Arabic", "🇸🇦"},
	"bg": {"Bulgarian", "🇧🇬"},
	"ca": {"Catalan", "🐈"},
	"cs": {"Czech", "🇨🇿"},
	"da": {"Danish", "🇩🇰"},
	"de": {"German", "🇩🇪"},
	"el": {"Greek", "🇬🇷"},
	"en": {"English", "🇺🇸"},
	"es": {"Spanish", "🇪🇸"},
	"et": {"Estonian", "🇪🇪"},
	"fa": {"Persian", "🇮🇷"},
	"fi": {"Finnish", "🇫🇮"},
	"fr": {"French", "🇫🇷"},
	"he": {"Hebrew", "🇮🇱"},
	"hi": {"Hindi", "🇮🇳"},
	"hr": {"Croatian", "🇭🇷"},
	"hu": {"Hungarian", "🇭🇺"},
	"id": {"Indonesian", "🇮🇩"},
	"it": {"Italian", "🇮🇹"},
	"ja": {"Japanese", "🇯🇵"},
	"ko": {"Korean", "🇰🇷"},
	"ms": {"Malay", "🇲🇾"},
	"nl": {"Dutch", "🇳🇱"},
	"no": {"Norwegian", "🇳🇴"},
	"pl": {"Polish", "🇵🇱"},
	"pt": {"Portuguese", "🇵🇹"},
	"ro": {"Romanian", "🇷🇴"},
	"ru": {"Russian", "🇷🇺"},
	"sk": {"Slovak", "🇸🇰"},
	"sl": {"Slovenian", "🇸🇮"},
	"sr": {"Serbian", "🇷🇸"},
	"sv": {"Swedish", "🇸🇪"},
	"th": {"Thai", "🇹🇭"},
	"tl": {"Tagalog", "🇵🇭"},
	"tr": {"Turkish", "🇹🇷"},
	"uk": {"Ukrainian", "🇺🇦"},
	"ur": {"Urdu", "🇵🇰"},
	"vi": {"Vietnamese", "🇻🇳"},
	"zh": {"Chinese", "🇨🇳"},
}

// LanguageName returns the display name for an ISO code, or the code
// uppercased when unknown.
func LanguageName(code string) string {
	if l, ok := languages[code]; ok {
		return l.Name
	}
	return strings.ToUpper(code)
}

// LanguageFlag returns the flag emoji for an ISO code, or a globe.
func LanguageFlag(code string) string {
	if l, ok := languages[code]; ok {
		return l.Flag
	}
	return "🌐"
}

// Language colors grouped loosely by family; English stays white so the
// target-language text reads as the neutral baseline.
var languageColors = map[string]string{
	"en": "15",
	"de": "117", "nl": "153", "da": "152", "no": "153", "sv": "110",
	"es": "178", "fr": "172", "it": "179", "pt": "180", "ro": "136", "ca": "179",
	"ru": "182", "pl": "183", "cs": "176", "sk": "182", "uk": "170", "bg": "175",
	"sr": "140", "hr": "177", "sl": "176",
	"lt": "80", "lv": "80", "et": "44", "fi": "73", "hu": "37",
	"el": "113", "eu": "173",
	"ar": "137", "he": "130", "fa": "172", "tr": "166", "ur": "137",
	"hi": "209", "ta": "216", "te": "209",
	"zh": "160", "ja": "161", "ko": "124",
	"vi": "120", "th": "121", "id": "108", "ms": "79", "tl": "118",
}

const defaultLanguageColor = "178"

// LanguageColor returns an ANSI-256 color for a language code.
func LanguageColor(code string) string {
	if c, ok := languageColors[code]; ok {
		return c
	}
	return defaultLanguageColor
}

// Speaker emoji + color pairs, cycled by speaker id.
var speakerStyles = []struct {
	Emoji string
	Color string
}{
	{"🟢", "120"},
	{"🔵", "81"},
	{"🟣", "177"},
	{"🟡", "221"},
	{"🟠", "215"},
	{"🔴", "203"},
	{"⚪", "252"},
	{"🟤", "137"},
}

// SpeakerStyle returns a stable emoji and ANSI-256 color for a speaker id.
func SpeakerStyle(id int) (emoji, color string) {
	s := speakerStyles[((id%len(speakerStyles))+len(speakerStyles))%len(speakerStyles)]
	return s.Emoji, s.Color
}
