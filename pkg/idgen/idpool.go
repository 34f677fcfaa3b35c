// Package idgen partitions one integer range into per-trader and
// per-strategy sub-ranges so委托原始编号在多进程之间永不冲突.
package idgen

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	// reserveBase 每层保留号段的最小长度
	reserveBase int64 = 1000
	// strategyReserveSize 策略层固定从自己号段尾部留出的长度
	strategyReserveSize int64 = 1000

	secondsPerDay = 24 * 60 * 60
)

// ErrRangeTooNarrow reports a range that cannot host the requested number
// of sub-ranges plus the reserve.
var ErrRangeTooNarrow = errors.New("idgen: range too narrow for partition")

// Range is a half-open id interval [Start, End).
type Range struct {
	Start int64
	End   int64
}

// Len returns the number of ids in the range.
func (r Range) Len() int64 { return r.End - r.Start }

// Contains reports whether id falls inside the range.
func (r Range) Contains(id int64) bool { return id >= r.Start && id < r.End }

func (r Range) String() string { return fmt.Sprintf("[%d, %d)", r.Start, r.End) }

// Pool carves the global id space [0, maxInt) into trader ranges, each
// trader range into strategy ranges, and trims every handed-out range by
// time of day so a restart later in the trading session never reuses ids
// an earlier run may already have spent.
//
// 分层结构：
//
//	[0, maxInt)               全局
//	  trader i                maxTraders 等分 + 全局保留段
//	    strategy j            maxStrategies 等分 + trader 保留段
//	      可用段 / 策略保留段  尾部固定 1000 个留作策略自用
type Pool struct {
	maxInt        int64
	maxTraders    int
	maxStrategies int

	now func() time.Time

	mu    sync.Mutex
	cache map[string][]Range // memoized untrimmed partitions
}

// NewPool uses the wall clock for time-of-day trimming.
func NewPool(maxInt int64, maxTraders, maxStrategies int) *Pool {
	return NewPoolWithClock(maxInt, maxTraders, maxStrategies, time.Now)
}

// NewPoolWithClock injects the clock, 测试用。
func NewPoolWithClock(maxInt int64, maxTraders, maxStrategies int, now func() time.Time) *Pool {
	return &Pool{
		maxInt:        maxInt,
		maxTraders:    maxTraders,
		maxStrategies: maxStrategies,
		now:           now,
		cache:         make(map[string][]Range),
	}
}

// sliceRange splits whole into n equal blocks plus a trailing reserve.
// The reserve is at least reserveBase and additionally absorbs the
// division remainder, so the n blocks and the reserve tile the range
// exactly.
func sliceRange(whole Range, n int) ([]Range, Range, error) {
	if n <= 0 {
		return nil, Range{}, fmt.Errorf("idgen: invalid partition count %d", n)
	}
	length := whole.Len()
	reserve := reserveBase + length%int64(n)
	blockLen := (length - reserve) / int64(n)
	if blockLen < reserve {
		return nil, Range{}, fmt.Errorf("%w: %s into %d blocks", ErrRangeTooNarrow, whole, n)
	}
	// 余数已并入保留段，此处按整除重新校准保留段起点
	reserveStart := whole.Start + blockLen*int64(n)
	blocks := make([]Range, n)
	for i := range blocks {
		start := whole.Start + int64(i)*blockLen
		blocks[i] = Range{Start: start, End: start + blockLen}
	}
	return blocks, Range{Start: reserveStart, End: whole.End}, nil
}

// trim drops the leading part of a range proportionally to the time of
// day, plus one extra id as a safety margin against clock skew between
// the crashed run and the restart.
func (p *Pool) trim(r Range) Range {
	now := p.now()
	elapsed := int64(now.Hour()*3600 + now.Minute()*60 + now.Second())
	frac := float64(elapsed) / float64(secondsPerDay)
	expired := int64(math.Ceil(frac*float64(r.Len()))) + 1
	if expired >= r.Len() {
		return Range{Start: r.End, End: r.End}
	}
	return Range{Start: r.Start + expired, End: r.End}
}

func (p *Pool) traderPartition() ([]Range, Range, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if blocks, ok := p.cache["traders"]; ok {
		return blocks, p.cache["sys_reserve"][0], nil
	}
	// 全局号段从 1 起：[1, maxInt]，半开表示为 [1, maxInt+1)
	blocks, reserve, err := sliceRange(Range{Start: 1, End: p.maxInt + 1}, p.maxTraders)
	if err != nil {
		return nil, Range{}, err
	}
	p.cache["traders"] = blocks
	p.cache["sys_reserve"] = []Range{reserve}
	return blocks, reserve, nil
}

func (p *Pool) strategyPartition(traderID int) ([]Range, Range, error) {
	if traderID < 0 || traderID >= p.maxTraders {
		return nil, Range{}, fmt.Errorf("idgen: trader id %d out of [0, %d)", traderID, p.maxTraders)
	}
	key := fmt.Sprintf("strategies_%d", traderID)
	reserveKey := fmt.Sprintf("trader_reserve_%d", traderID)

	p.mu.Lock()
	if blocks, ok := p.cache[key]; ok {
		reserve := p.cache[reserveKey][0]
		p.mu.Unlock()
		return blocks, reserve, nil
	}
	p.mu.Unlock()

	traders, _, err := p.traderPartition()
	if err != nil {
		return nil, Range{}, err
	}
	blocks, reserve, err := sliceRange(traders[traderID], p.maxStrategies)
	if err != nil {
		return nil, Range{}, err
	}

	p.mu.Lock()
	p.cache[key] = blocks
	p.cache[reserveKey] = []Range{reserve}
	p.mu.Unlock()
	return blocks, reserve, nil
}

// StrategyWholeRange returns the full untrimmed range of one strategy,
// usable part and strategy reserve together.
func (p *Pool) StrategyWholeRange(traderID, strategyID int) (Range, error) {
	if strategyID < 0 || strategyID >= p.maxStrategies {
		return Range{}, fmt.Errorf("idgen: strategy id %d out of [0, %d)", strategyID, p.maxStrategies)
	}
	blocks, _, err := p.strategyPartition(traderID)
	if err != nil {
		return Range{}, err
	}
	return blocks[strategyID], nil
}

// StrategyRange returns the time-trimmed usable id range of one strategy.
// 尾部 1000 个划归策略保留段，见 StrategyReserve。
func (p *Pool) StrategyRange(traderID, strategyID int) (Range, error) {
	whole, err := p.StrategyWholeRange(traderID, strategyID)
	if err != nil {
		return Range{}, err
	}
	if whole.Len() <= strategyReserveSize {
		return Range{}, fmt.Errorf("%w: strategy range %s", ErrRangeTooNarrow, whole)
	}
	usable := Range{Start: whole.Start, End: whole.End - strategyReserveSize}
	return p.trim(usable), nil
}

// StrategyReserve returns the time-trimmed strategy-private reserve, the
// fixed-size tail of the strategy's whole range.
func (p *Pool) StrategyReserve(traderID, strategyID int) (Range, error) {
	whole, err := p.StrategyWholeRange(traderID, strategyID)
	if err != nil {
		return Range{}, err
	}
	if whole.Len() <= strategyReserveSize {
		return Range{}, fmt.Errorf("%w: strategy range %s", ErrRangeTooNarrow, whole)
	}
	reserve := Range{Start: whole.End - strategyReserveSize, End: whole.End}
	return p.trim(reserve), nil
}

// StrategyRanges returns the trimmed usable ranges of every strategy of
// one trader, indexed by strategy id.
func (p *Pool) StrategyRanges(traderID int) ([]Range, error) {
	out := make([]Range, p.maxStrategies)
	for i := 0; i < p.maxStrategies; i++ {
		r, err := p.StrategyRange(traderID, i)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// TraderReserve returns the time-trimmed reserve of one trader's range,
// the tail left over after the strategy partition.
func (p *Pool) TraderReserve(traderID int) (Range, error) {
	_, reserve, err := p.strategyPartition(traderID)
	if err != nil {
		return Range{}, err
	}
	return p.trim(reserve), nil
}

// SysReserve returns the time-trimmed global reserve, the tail of the
// whole id space after the trader partition.
func (p *Pool) SysReserve() (Range, error) {
	_, reserve, err := p.traderPartition()
	if err != nil {
		return Range{}, err
	}
	return p.trim(reserve), nil
}
