package cycle

// TenGod is one of the ten relational categories (십성) between a reference
// day-master stem and another stem. Values are the Korean names the chart
// consumers display; a day master meeting its own stem reads 일원 rather
// than 비견, matching the established report format.
type TenGod string

const (
	Ilwon     TenGod = "일원" // self
	Gyeopjae  TenGod = "겁재"
	Siksin    TenGod = "식신"
	Sanggwan  TenGod = "상관"
	Pyeonjae  TenGod = "편재"
	Jeongjae  TenGod = "정재"
	Pyeongwan TenGod = "편관"
	Jeonggwan TenGod = "정관"
	Pyeonin   TenGod = "편인"
	Jeongin   TenGod = "정인"

	// TenGodUnknown is the sentinel for malformed input.
	TenGodUnknown TenGod = "N/A"
)

// tenGodsTable is indexed [dayMaster][other]. The layout pairs each category
// with its sibling depending on whether the two stems agree in polarity, so
// rows for yin day masters are not simple rotations of the yang rows.
var tenGodsTable = [10][10]TenGod{
	{Ilwon, Gyeopjae, Siksin, Sanggwan, Pyeonjae, Jeongjae, Pyeongwan, Jeonggwan, Pyeonin, Jeongin},
	{Gyeopjae, Ilwon, Sanggwan, Siksin, Jeongjae, Pyeonjae, Jeonggwan, Pyeongwan, Jeongin, Pyeonin},
	{Pyeonin, Jeongin, Ilwon, Gyeopjae, Siksin, Sanggwan, Pyeonjae, Jeongjae, Pyeongwan, Jeonggwan},
	{Jeongin, Pyeonin, Gyeopjae, Ilwon, Sanggwan, Siksin, Jeongjae, Pyeonjae, Jeonggwan, Pyeongwan},
	{Pyeongwan, Jeonggwan, Pyeonin, Jeongin, Ilwon, Gyeopjae, Siksin, Sanggwan, Pyeonjae, Jeongjae},
	{Jeonggwan, Pyeongwan, Jeongin, Pyeonin, Gyeopjae, Ilwon, Sanggwan, Siksin, Jeongjae, Pyeonjae},
	{Pyeonjae, Jeongjae, Pyeongwan, Jeonggwan, Pyeonin, Jeongin, Ilwon, Gyeopjae, Siksin, Sanggwan},
	{Jeongjae, Pyeonjae, Jeonggwan, Pyeongwan, Jeongin, Pyeonin, Gyeopjae, Ilwon, Sanggwan, Siksin},
	{Siksin, Sanggwan, Pyeonjae, Jeongjae, Pyeongwan, Jeonggwan, Pyeonin, Jeongin, Ilwon, Gyeopjae},
	{Sanggwan, Siksin, Jeongjae, Pyeonjae, Jeonggwan, Pyeongwan, Jeongin, Pyeonin, Gyeopjae, Ilwon},
}

// branchDominantStem maps each branch to the stem index of its dominant
// phase, used when reading the ten-god relation of a branch. Hidden stems
// (지장간) are not considered, matching the reference tables.
var branchDominantStem = [12]int{
	9, // 子 → 癸
	5, // 丑 → 己
	0, // 寅 → 甲
	1, // 卯 → 乙
	4, // 辰 → 戊
	2, // 巳 → 丙
	3, // 午 → 丁
	5, // 未 → 己
	6, // 申 → 庚
	7, // 酉 → 辛
	4, // 戌 → 戊
	8, // 亥 → 壬
}

// PillarRelation holds the ten-god reading of one pillar relative to the
// chart's day master.
type PillarRelation struct {
	Stem   TenGod `json:"stem_ten_god"`
	Branch TenGod `json:"branch_ten_god"`
}

// Relate computes the ten-god relation of a pillar's stem and branch against
// a reference day-master stem. The branch relation is read through the
// branch's dominant stem. Malformed inputs yield TenGodUnknown for both.
func Relate(dayMaster Stem, p Pillar) PillarRelation {
	if !dayMaster.Valid() || !p.Stem.Valid() || !p.Branch.Valid() {
		return PillarRelation{TenGodUnknown, TenGodUnknown}
	}
	return PillarRelation{
		Stem:   tenGodsTable[dayMaster][p.Stem],
		Branch: tenGodsTable[dayMaster][branchDominantStem[p.Branch]],
	}
}

// RelateStem computes the ten-god relation between two stems directly.
func RelateStem(dayMaster, other Stem) TenGod {
	if !dayMaster.Valid() || !other.Valid() {
		return TenGodUnknown
	}
	return tenGodsTable[dayMaster][other]
}
