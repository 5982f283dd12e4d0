package pricing

import (
	"time"

	"github.com/luochenwei/villa-booking-backend/internal/models"
)

// resolvePeriod 选出覆盖指定日期的唯一价格期
// 优先级规则依次为：房源专属优先于租户全局；同一作用域内 priority 大者优先；
// 仍然相同时取 ID 最小者，保证结果与入库顺序无关。
// 没有覆盖该日期的价格期时返回 nil，由房源默认价兜底。
func resolvePeriod(date time.Time, periods []*models.Period) *models.Period {
	var winner *models.Period
	for _, p := range periods {
		if !p.Covers(date) {
			continue
		}
		if winner == nil || outranks(p, winner) {
			winner = p
		}
	}
	return winner
}

// outranks 判断 a 是否优先于 b
func outranks(a, b *models.Period) bool {
	// 作用域：专属 > 全局
	if a.IsGlobal() != b.IsGlobal() {
		return !a.IsGlobal()
	}
	// 同作用域比 priority
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	// 完全同级取最小 ID
	return a.ID < b.ID
}
