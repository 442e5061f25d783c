// Package cycle defines the sexagenary cycle: the ten heavenly stems (천간),
// the twelve earthly branches (지지), and the 60 valid stem-branch pairings
// (갑자) that name years, months, days and hours in the saju calendar.
package cycle

import "fmt"

// Stem is one of the ten heavenly stems, identified by its index 0-9
// in canonical order 甲乙丙丁戊己庚辛壬癸.
type Stem int

// Branch is one of the twelve earthly branches, identified by its index 0-11
// in canonical order 子丑寅卯辰巳午未申酉戌亥.
type Branch int

var stemRunes = [10]rune{'甲', '乙', '丙', '丁', '戊', '己', '庚', '辛', '壬', '癸'}

var branchRunes = [12]rune{'子', '丑', '寅', '卯', '辰', '巳', '午', '未', '申', '酉', '戌', '亥'}

// Phase is one of the five phases (오행). Values are the Korean names used
// throughout the original chart data.
type Phase string

const (
	PhaseWood  Phase = "목"
	PhaseFire  Phase = "화"
	PhaseEarth Phase = "토"
	PhaseMetal Phase = "금"
	PhaseWater Phase = "수"
)

// stemPhases maps stem index to phase: 甲乙 wood, 丙丁 fire, 戊己 earth,
// 庚辛 metal, 壬癸 water.
var stemPhases = [10]Phase{
	PhaseWood, PhaseWood,
	PhaseFire, PhaseFire,
	PhaseEarth, PhaseEarth,
	PhaseMetal, PhaseMetal,
	PhaseWater, PhaseWater,
}

var branchPhases = [12]Phase{
	PhaseWater, // 子
	PhaseEarth, // 丑
	PhaseWood,  // 寅
	PhaseWood,  // 卯
	PhaseEarth, // 辰
	PhaseFire,  // 巳
	PhaseFire,  // 午
	PhaseEarth, // 未
	PhaseMetal, // 申
	PhaseMetal, // 酉
	PhaseEarth, // 戌
	PhaseWater, // 亥
}

// Valid reports whether s is within the ten-stem alphabet.
func (s Stem) Valid() bool { return s >= 0 && s < 10 }

func (s Stem) String() string {
	if !s.Valid() {
		return "?"
	}
	return string(stemRunes[s])
}

// Phase returns the five-phase tag for the stem, or "" for an invalid stem.
func (s Stem) Phase() Phase {
	if !s.Valid() {
		return ""
	}
	return stemPhases[s]
}

// Yang reports the polarity of the stem. Even indexes (甲丙戊庚壬) are yang,
// odd indexes (乙丁己辛癸) are yin. Decade-luck direction depends on this.
func (s Stem) Yang() bool { return s%2 == 0 }

// Valid reports whether b is within the twelve-branch alphabet.
func (b Branch) Valid() bool { return b >= 0 && b < 12 }

func (b Branch) String() string {
	if !b.Valid() {
		return "?"
	}
	return string(branchRunes[b])
}

// Phase returns the five-phase tag for the branch, or "" for an invalid
// branch.
func (b Branch) Phase() Phase {
	if !b.Valid() {
		return ""
	}
	return branchPhases[b]
}

// Yang reports the polarity of the branch (even indexes are yang).
func (b Branch) Yang() bool { return b%2 == 0 }

// StemFromRune returns the stem for a hanja character.
func StemFromRune(r rune) (Stem, bool) {
	for i, sr := range stemRunes {
		if sr == r {
			return Stem(i), true
		}
	}
	return -1, false
}

// BranchFromRune returns the branch for a hanja character.
func BranchFromRune(r rune) (Branch, bool) {
	for i, br := range branchRunes {
		if br == r {
			return Branch(i), true
		}
	}
	return -1, false
}

// Pillar is a stem-branch pair. Only the 60 pairings where the stem and
// branch indexes agree in parity occur in the sexagenary cycle.
type Pillar struct {
	Stem   Stem   `json:"-"`
	Branch Branch `json:"-"`
}

// Sexagenary returns element i of the combined 60-cycle:
// stem i mod 10 paired with branch i mod 12. Negative i wraps.
func Sexagenary(i int) Pillar {
	i = ((i % 60) + 60) % 60
	return Pillar{Stem(i % 10), Branch(i % 12)}
}

// Index returns the pillar's position in the 60-cycle. ok is false when the
// stem and branch parities disagree, which never happens for pillars produced
// by this package.
func (p Pillar) Index() (int, bool) {
	if !p.Stem.Valid() || !p.Branch.Valid() || int(p.Stem)%2 != int(p.Branch)%2 {
		return 0, false
	}
	for i := int(p.Stem); i < 60; i += 10 {
		if Branch(i%12) == p.Branch {
			return i, true
		}
	}
	return 0, false
}

// Step advances the stem and branch independently by n positions each.
// This is how decade-luck pillars progress: the stem wraps mod 10 and the
// branch mod 12, so stepping is not the same as adding n to the 60-index.
func (p Pillar) Step(n int) Pillar {
	s := ((int(p.Stem)+n)%10 + 10) % 10
	b := ((int(p.Branch)+n)%12 + 12) % 12
	return Pillar{Stem(s), Branch(b)}
}

func (p Pillar) String() string {
	return p.Stem.String() + p.Branch.String()
}

// MarshalText renders the pillar as its two hanja characters, which is the
// form consumers of the chart JSON expect.
func (p Pillar) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePillar parses a two-character hanja pillar such as 庚辰.
func ParsePillar(s string) (Pillar, error) {
	runes := []rune(s)
	if len(runes) != 2 {
		return Pillar{}, fmt.Errorf("pillar must be two characters, got %q", s)
	}
	stem, ok := StemFromRune(runes[0])
	if !ok {
		return Pillar{}, fmt.Errorf("unknown stem character %q", string(runes[0]))
	}
	branch, ok := BranchFromRune(runes[1])
	if !ok {
		return Pillar{}, fmt.Errorf("unknown branch character %q", string(runes[1]))
	}
	return Pillar{stem, branch}, nil
}

// monthStemStarts gives, per year stem, the stem index that opens that year's
// first solar-term month (월두법): years led by 甲 or 己 open on 丙寅, 乙/庚 on
// 戊寅, 丙/辛 on 庚寅, 丁/壬 on 壬寅, 戊/癸 on 甲寅.
var monthStemStarts = [10]int{2, 4, 6, 8, 0, 2, 4, 6, 8, 0}

// hourStemStarts gives, per day stem, the stem index of the first two-hour
// segment of that day (시두법): days led by 甲 or 己 open on 甲子時, 乙/庚 on
// 丙子時, 丙/辛 on 戊子時, 丁/壬 on 庚子時, 戊/癸 on 壬子時.
var hourStemStarts = [10]int{0, 2, 4, 6, 8, 0, 2, 4, 6, 8}

// MonthStemStart returns the stem index opening the first month of a year led
// by the given stem.
func MonthStemStart(yearStem Stem) int { return monthStemStarts[yearStem] }

// HourStemStart returns the stem index opening the first two-hour segment of
// a day led by the given stem.
func HourStemStart(dayStem Stem) int { return hourStemStarts[dayStem] }
