// Package rng 提供战斗模拟使用的确定性随机数源
//
// 每个战斗会话持有自己的 Source 实例，不存在全局默认种子。
// 相同种子 + 相同调用序列 => 完全相同的输出序列（回放确定性的基础）。
package rng

import "math/rand"

// Source 可设定种子的伪随机数源
type Source struct {
	seed int64
	rng  *rand.Rand
}

// New 使用给定种子创建随机数源
func New(seed int64) *Source {
	s := &Source{}
	s.Seed(seed)
	return s
}

// Seed 重置种子，之后的输出序列从头开始
func (s *Source) Seed(value int64) {
	s.seed = value
	s.rng = rand.New(rand.NewSource(value))
}

// CurrentSeed 返回最近一次设置的种子
func (s *Source) CurrentSeed() int64 {
	return s.seed
}

// Next 返回 [0, 1) 区间内的浮点数
func (s *Source) Next() float64 {
	return s.rng.Float64()
}

// NextInt 返回 [min, max] 闭区间内的整数
// 如果 max < min，直接返回 min（不消耗随机数）
func (s *Source) NextInt(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}

// Pick 均匀选择 [0, n) 内的一个下标
func (s *Source) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return s.rng.Intn(n)
}

// PickWeighted 按权重选择下标
// 权重总和 <= 0 时退化为均匀选择
func (s *Source) PickWeighted(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return s.Pick(len(weights))
	}

	r := s.rng.Intn(total)
	upto := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if upto+w > r {
			return i
		}
		upto += w
	}
	return len(weights) - 1
}
