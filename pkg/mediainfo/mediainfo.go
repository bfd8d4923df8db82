// Package mediainfo parses media filenames into structured attributes:
// resolution, source type, codec, languages, title and numbering.
package mediainfo

// Resolution represents the video resolution class of a file.
type Resolution int

const (
	ResolutionUnknown Resolution = iota
	Resolution360p
	Resolution480p
	Resolution720p
	Resolution1080p
	Resolution2160p
)

// unknownStr is the string representation for unknown values.
const unknownStr = "unknown"

func (r Resolution) String() string {
	switch r {
	case Resolution360p:
		return "360p"
	case Resolution480p:
		return "480p"
	case Resolution720p:
		return "720p"
	case Resolution1080p:
		return "1080p"
	case Resolution2160p:
		return "2160p"
	default:
		return unknownStr
	}
}

// ResolutionFromString maps a resolution label ("720p", "2160p") back to its
// Resolution. Unrecognized labels map to ResolutionUnknown.
func ResolutionFromString(s string) Resolution {
	switch s {
	case "360p":
		return Resolution360p
	case "480p":
		return Resolution480p
	case "720p":
		return Resolution720p
	case "1080p":
		return Resolution1080p
	case "2160p":
		return Resolution2160p
	default:
		return ResolutionUnknown
	}
}

// Source represents the origin of a file.
type Source int

const (
	SourceUnknown Source = iota
	SourceUHDBluRay
	SourceBluRay
	SourceWEBDL
	SourceWEBRip
	SourceHDTV
	SourceDVD
	SourceSDTV
)

func (s Source) String() string {
	switch s {
	case SourceUHDBluRay:
		return "uhd-bluray"
	case SourceBluRay:
		return "bluray"
	case SourceWEBDL:
		return "webdl"
	case SourceWEBRip:
		return "webrip"
	case SourceHDTV:
		return "hdtv"
	case SourceDVD:
		return "dvd"
	case SourceSDTV:
		return "sdtv"
	default:
		return unknownStr
	}
}

// Codec represents the video codec family of a file.
type Codec int

const (
	CodecUnknown Codec = iota
	CodecHEVC
	CodecH264
	CodecAV1
	CodecVP9
	CodecXviD
)

func (c Codec) String() string {
	switch c {
	case CodecHEVC:
		return "hevc"
	case CodecH264:
		return "h264"
	case CodecAV1:
		return "av1"
	case CodecVP9:
		return "vp9"
	case CodecXviD:
		return "xvid"
	default:
		return unknownStr
	}
}

// Info contains the attributes parsed from a filename. Optional numbering
// fields are nil when the filename carries no such marker.
type Info struct {
	Title      string
	Year       *int
	Season     *int
	Episode    *int
	Resolution Resolution
	Source     Source
	Codec      Codec

	// Two-letter language codes, lowercased.
	AudioLanguages    []string
	SubtitleLanguages []string
}

// HasEpisode reports whether both season and episode were parsed.
func (i Info) HasEpisode() bool {
	return i.Season != nil && i.Episode != nil
}

// HasLanguage reports whether lang appears among the parsed audio languages.
func (i Info) HasLanguage(lang string) bool {
	for _, l := range i.AudioLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
