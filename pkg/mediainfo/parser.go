package mediainfo

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	episodeRegex    = regexp.MustCompile(`(?i)\bS(\d{1,2})[ ._]?E(\d{1,3})\b`)
	altEpisodeRegex = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{1,3})\b`)
	yearRegex       = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	extensionRegex  = regexp.MustCompile(`(?i)\.(mkv|mp4|avi|m4v|ts|wmv|mov)$`)
)

// audioLangTokens maps scene-name language markers to two-letter codes.
var audioLangTokens = map[string]string{
	"cz": "cs", "cze": "cs", "czech": "cs", "cs": "cs", "czdab": "cs", "dabing": "cs",
	"sk": "sk", "svk": "sk", "slovak": "sk",
	"en": "en", "eng": "en", "english": "en",
	"de": "de", "ger": "de", "german": "de",
	"fr": "fr", "fre": "fr", "french": "fr",
	"es": "es", "spa": "es", "spanish": "es",
	"it": "it", "ita": "it", "italian": "it",
	"pl": "pl", "pol": "pl", "polish": "pl",
	"ru": "ru", "rus": "ru", "russian": "ru",
}

// subtitleLangTokens cover markers like "CZtit" or "ENGsub".
var subtitleSuffixes = []string{"tit", "titulky", "sub", "subs"}

// Parse extracts structured attributes from a media filename.
// It never fails; attributes absent from the name stay at their zero value.
func Parse(name string) Info {
	info := Info{}

	name = extensionRegex.ReplaceAllString(name, "")
	flat := strings.NewReplacer(".", " ", "_", " ", "[", " ", "]", " ", "(", " ", ")", " ").Replace(name)
	lower := strings.ToLower(flat)

	info.Resolution = parseResolution(lower)
	info.Source = parseSource(lower)
	if info.Source == SourceBluRay && info.Resolution == Resolution2160p {
		info.Source = SourceUHDBluRay
	}
	info.Codec = parseCodec(lower)
	info.AudioLanguages, info.SubtitleLanguages = parseLanguages(flat)

	titleEnd := len(flat)

	if m := episodeRegex.FindStringSubmatchIndex(flat); m != nil {
		season, _ := strconv.Atoi(flat[m[2]:m[3]])
		episode, _ := strconv.Atoi(flat[m[4]:m[5]])
		info.Season = &season
		info.Episode = &episode
		if m[0] < titleEnd {
			titleEnd = m[0]
		}
	} else if m := altEpisodeRegex.FindStringSubmatchIndex(flat); m != nil {
		season, _ := strconv.Atoi(flat[m[2]:m[3]])
		episode, _ := strconv.Atoi(flat[m[4]:m[5]])
		info.Season = &season
		info.Episode = &episode
		if m[0] < titleEnd {
			titleEnd = m[0]
		}
	}

	// The last plausible year wins so titles like "2001 A Space Odyssey 1968"
	// keep their leading number.
	if ms := yearRegex.FindAllStringIndex(flat, -1); ms != nil {
		m := ms[len(ms)-1]
		year, _ := strconv.Atoi(flat[m[0]:m[1]])
		info.Year = &year
		if m[0] > 0 && m[0] < titleEnd {
			titleEnd = m[0]
		}
	}

	// Quality markers also terminate the title when they come first.
	for _, marker := range []string{"2160p", "1080p", "720p", "480p", "360p", "bluray", "blu-ray", "web-dl", "webdl", "webrip", "hdtv", "dvdrip"} {
		if idx := strings.Index(lower, marker); idx > 0 && idx < titleEnd {
			titleEnd = idx
		}
	}

	info.Title = strings.TrimSpace(strings.Join(strings.Fields(flat[:titleEnd]), " "))
	return info
}

func parseResolution(name string) Resolution {
	switch {
	case containsAny(name, "2160p", "4k", "uhd"):
		return Resolution2160p
	case strings.Contains(name, "1080p"):
		return Resolution1080p
	case strings.Contains(name, "720p"):
		return Resolution720p
	case strings.Contains(name, "480p"):
		return Resolution480p
	case strings.Contains(name, "360p"):
		return Resolution360p
	default:
		return ResolutionUnknown
	}
}

func parseSource(name string) Source {
	switch {
	case containsAny(name, "uhd bluray", "uhd blu-ray", "2160p bluray", "2160p blu-ray"):
		return SourceUHDBluRay
	case containsAny(name, "bluray", "blu-ray", "bdrip", "brrip", "bdremux"):
		return SourceBluRay
	case containsAny(name, "web-dl", "webdl", "web dl"):
		return SourceWEBDL
	case containsAny(name, "webrip", "web-rip", "web rip"):
		return SourceWEBRip
	case strings.Contains(name, "hdtv"):
		return SourceHDTV
	case containsAny(name, "dvdrip", "dvd"):
		return SourceDVD
	case strings.Contains(name, "sdtv"):
		return SourceSDTV
	default:
		return SourceUnknown
	}
}

func parseCodec(name string) Codec {
	switch {
	case containsAny(name, "x265", "h265", "h 265", "hevc"):
		return CodecHEVC
	case containsAny(name, "x264", "h264", "h 264", "avc"):
		return CodecH264
	case strings.Contains(name, "av1"):
		return CodecAV1
	case strings.Contains(name, "vp9"):
		return CodecVP9
	case containsAny(name, "xvid", "divx"):
		return CodecXviD
	default:
		return CodecUnknown
	}
}

// parseLanguages scans whitespace-separated tokens for language markers.
// A token carrying a subtitle suffix ("CZtit", "ENsub") counts as a subtitle
// language, everything else as an audio language. Two-letter markers must be
// uppercase in the filename; lowercase "it" or "en" are ordinary title words.
func parseLanguages(name string) (audio, subs []string) {
	seenAudio := map[string]bool{}
	seenSubs := map[string]bool{}

	for _, token := range strings.Fields(name) {
		raw := token
		lowered := strings.ToLower(raw)

		subtitle := false
		for _, suffix := range subtitleSuffixes {
			if strings.HasSuffix(lowered, suffix) && len(lowered) > len(suffix) {
				raw = raw[:len(raw)-len(suffix)]
				subtitle = true
				break
			}
		}

		// Compound markers like "CZ-EN" or "CZ+EN".
		for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == '-' || r == '+' || r == ',' }) {
			code, ok := audioLangTokens[strings.ToLower(part)]
			if !ok {
				continue
			}
			// A bare two-letter audio marker must be uppercase; the subtitle
			// suffix is already a strong enough signal on its own.
			if !subtitle && len(part) <= 2 && strings.ToUpper(part) != part {
				continue
			}
			if subtitle {
				if !seenSubs[code] {
					seenSubs[code] = true
					subs = append(subs, code)
				}
			} else if !seenAudio[code] {
				seenAudio[code] = true
				audio = append(audio, code)
			}
		}
	}
	return audio, subs
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
