// Package rank scores search candidates against an expected item and filters
// out disqualified ones.
package rank

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/fetcharr/fetcharr/pkg/mediainfo"
)

// Scoring constants. All components are integers and Total is their sum.
const (
	BonusEpisodeMatch = 200
	BonusTitleMatch   = 50

	// DisqualifiedScore forces a candidate's total negative so that no
	// combination of bonuses can rescue it.
	DisqualifiedScore = -1000

	PenaltyOversize   = -100
	PenaltyMinQuality = -50

	// VoteCap limits how much a vote flood can contribute.
	VoteCap = 10

	// titleSimilarityThreshold is the Jaro-Winkler score accepted when plain
	// containment fails (e.g. "Show Name" vs "Show Name US").
	titleSimilarityThreshold = 0.85
)

var resolutionScores = map[mediainfo.Resolution]int{
	mediainfo.Resolution2160p: 40,
	mediainfo.Resolution1080p: 30,
	mediainfo.Resolution720p:  20,
	mediainfo.Resolution480p:  10,
	mediainfo.Resolution360p:  5,
}

var sourceScores = map[mediainfo.Source]int{
	mediainfo.SourceUHDBluRay: 30,
	mediainfo.SourceBluRay:    25,
	mediainfo.SourceWEBDL:     20,
	mediainfo.SourceWEBRip:    15,
	mediainfo.SourceHDTV:      10,
	mediainfo.SourceDVD:       5,
}

var codecScores = map[mediainfo.Codec]int{
	mediainfo.CodecHEVC: 10,
	mediainfo.CodecAV1:  10,
	mediainfo.CodecH264: 8,
	mediainfo.CodecXviD: 3,
}

// ResolutionScore returns the quality component for a resolution class.
// Unknown resolutions score 0.
func ResolutionScore(r mediainfo.Resolution) int {
	return resolutionScores[r]
}

// Candidate is one file offered by the search provider.
type Candidate struct {
	Ident         string
	Name          string
	Size          int64
	PositiveVotes int
	NegativeVotes int
	Password      bool
}

// Expected identifies the item a candidate is matched against. Season and
// Episode are nil for movies.
type Expected struct {
	Title   string
	Season  *int
	Episode *int
}

// Score is the per-component breakdown of a candidate's rank.
type Score struct {
	Quality      int `json:"quality"`
	Source       int `json:"source"`
	Codec        int `json:"codec"`
	EpisodeMatch int `json:"episode_match"`
	TitleMatch   int `json:"title_match"`
	Language     int `json:"language"`
	Votes        int `json:"votes"`
	SizePenalty  int `json:"size_penalty"`
	Total        int `json:"total"`
}

// sum recomputes Total from the declared components.
func (s Score) sum() int {
	return s.Quality + s.Source + s.Codec + s.EpisodeMatch + s.TitleMatch +
		s.Language + s.Votes + s.SizePenalty
}

// RankedCandidate is a candidate with parsed attributes and a score attached.
type RankedCandidate struct {
	Candidate
	Parsed mediainfo.Info `json:"parsed"`
	Score  Score          `json:"score"`
	SizeGB float64        `json:"size_gb"`
}

// Config controls the preference-dependent scoring components.
type Config struct {
	// PreferredLanguage is a two-letter code awarded LanguageBonus when
	// present among a candidate's audio languages. Empty disables the bonus.
	PreferredLanguage string
	LanguageBonus     int

	// MaxSizeGB is the size ceiling; candidates above it take PenaltyOversize.
	// Zero disables the check.
	MaxSizeGB float64

	// MinResolution is the quality floor; candidates whose quality component
	// scores below it take PenaltyMinQuality. ResolutionUnknown disables it.
	MinResolution mediainfo.Resolution
}

// Ranker scores candidates against expected items.
type Ranker struct {
	cfg Config
}

// New creates a Ranker with the given preferences.
func New(cfg Config) *Ranker {
	return &Ranker{cfg: cfg}
}

// Rank scores a single candidate. parsed may be nil, in which case the
// candidate's name is parsed here.
func (r *Ranker) Rank(c Candidate, parsed *mediainfo.Info, expected Expected) RankedCandidate {
	var info mediainfo.Info
	if parsed != nil {
		info = *parsed
	} else {
		info = mediainfo.Parse(c.Name)
	}

	s := Score{
		Quality: resolutionScores[info.Resolution],
		Source:  sourceScores[info.Source],
		Codec:   codecScores[info.Codec],
	}

	// Season/episode expectation is a hard constraint: a wrong episode is
	// disqualified outright, not merely penalized.
	if expected.Season != nil && expected.Episode != nil {
		if info.HasEpisode() && *info.Season == *expected.Season && *info.Episode == *expected.Episode {
			s.EpisodeMatch = BonusEpisodeMatch
		} else {
			s.EpisodeMatch = DisqualifiedScore
		}
	}

	if expected.Title != "" && titlesMatch(expected.Title, info.Title) {
		s.TitleMatch = BonusTitleMatch
	}

	if r.cfg.PreferredLanguage != "" && info.HasLanguage(r.cfg.PreferredLanguage) {
		s.Language = r.cfg.LanguageBonus
	}

	if c.PositiveVotes > 0 {
		s.Votes = c.PositiveVotes
		if s.Votes > VoteCap {
			s.Votes = VoteCap
		}
	}

	sizeGB := float64(c.Size) / (1 << 30)
	if r.cfg.MaxSizeGB > 0 && sizeGB > r.cfg.MaxSizeGB {
		s.SizePenalty = PenaltyOversize
	}
	if r.cfg.MinResolution != mediainfo.ResolutionUnknown &&
		s.Quality < resolutionScores[r.cfg.MinResolution] {
		s.SizePenalty += PenaltyMinQuality
	}

	s.Total = s.sum()

	return RankedCandidate{
		Candidate: c,
		Parsed:    info,
		Score:     s,
		SizeGB:    sizeGB,
	}
}

// RankAll scores every candidate, drops disqualified (negative-total)
// entries, sorts descending by total (stable, so provider order breaks ties)
// and returns at most topN results. topN <= 0 means no limit. An empty
// result is a valid "no acceptable match" outcome.
func (r *Ranker) RankAll(candidates []Candidate, expected Expected, topN int) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		rc := r.Rank(c, nil, expected)
		if rc.Score.Total < 0 {
			continue
		}
		ranked = append(ranked, rc)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Total > ranked[j].Score.Total
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// titlesMatch applies the loose title check: after normalization either
// string contains the other, with a Jaro-Winkler fallback for near-misses.
func titlesMatch(expected, parsed string) bool {
	if parsed == "" {
		return false
	}
	e := mediainfo.MatchKey(expected)
	p := mediainfo.MatchKey(parsed)
	if e == "" || p == "" {
		return false
	}
	if strings.Contains(e, p) || strings.Contains(p, e) {
		return true
	}
	sim, err := edlib.StringsSimilarity(e, p, edlib.JaroWinkler)
	return err == nil && float64(sim) >= titleSimilarityThreshold
}
